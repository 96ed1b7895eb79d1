package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/blueprints/cmd/blueprints/handlers"
	"github.com/imamik/blueprints/internal/config"
)

// Validate returns the command checking a blueprint file offline.
func Validate() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a blueprint file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Validate(path)
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", config.DefaultFilename, "Path to the blueprint file")

	return cmd
}
