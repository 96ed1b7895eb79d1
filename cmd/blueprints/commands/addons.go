package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/blueprints/cmd/blueprints/handlers"
)

// AddOns returns the command listing the available add-on types.
func AddOns() *cobra.Command {
	return &cobra.Command{
		Use:   "addons",
		Short: "List add-on types",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.ListAddOns()
		},
	}
}
