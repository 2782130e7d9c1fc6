// Package main is the entry point for the h2ok CLI.
//
// h2ok deploys H2O clusters to Kubernetes. Each cluster is stored as an H2O
// custom resource; the CLI submits the resource together with its workload,
// headless service and ingress, and records a small deployment descriptor
// that later commands use to find the cluster again.
//
// For detailed usage information, run:
//
//	h2ok --help
package main

import (
	"fmt"
	"os"

	"github.com/h2oai/h2o-kubernetes/cmd/h2ok/commands"
)

// Version information set at build time.
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
