package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/blueprints/cmd/blueprints/handlers"
	"github.com/imamik/blueprints/internal/config"
)

// Deploy returns the command deploying a blueprint file.
//
// Environment variables:
//
//	HCLOUD_TOKEN: Hetzner Cloud API token (required)
//	S3_ACCESS_KEY, S3_SECRET_KEY: Object Storage credentials (bucket resources)
func Deploy() *cobra.Command {
	var opts handlers.DeployOptions

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a blueprint",
		Long: `Deploy a blueprint onto its cluster.

The network is resolved first, then named resources. The cluster is adopted
from the kubeconfig, add-ons are deployed in declared order, teams are set up
and post-deploy hooks run once every add-on has completed.

Without network.id in the file or --network, a network is created (or an
existing one with the same name is ensured) from the file's topology. The
adopted cluster is not attached to that network: it is only handed to add-ons
and teams. Set network.id or --network to reuse the network the cluster
already runs in.

On an interactive terminal progress is shown in a full-screen view; pass
--plain for plain log lines. --json always prints plain JSON lines.

Examples:
  # Deploy blueprint.yaml in the current directory
  blueprints deploy

  # Use an existing network instead of the one in the file
  blueprints deploy -f prod.yaml --network default

  # Emit JSON lines and write metrics for the node exporter
  blueprints deploy --json --metrics-file /var/lib/node_exporter/blueprints.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", config.DefaultFilename, "Path to the blueprint file")
	cmd.Flags().StringVar(&opts.Network, "network", "", `Network to use: "default" or an ID or name (overrides the file)`)
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Emit progress and summary as JSON lines")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "Print plain log lines instead of the interactive progress view")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")

	return cmd
}
