// Package main is the entry point for the blueprints CLI.
//
// blueprints deploys a declarative blueprint onto a Kubernetes cluster:
// it resolves the network and named resources on Hetzner Cloud, adopts the
// cluster from a kubeconfig, then deploys add-ons and sets up teams in the
// declared order.
//
// Commands: deploy, validate, addons, version.
//
// For detailed usage information, run:
//
//	blueprints --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/blueprints/cmd/blueprints/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
