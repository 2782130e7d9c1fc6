// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Root returns the root command for the h2ok CLI.
func Root() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "h2ok",
		Short:         "Deploy H2O clusters to Kubernetes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogger(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed logs of every step")

	cmd.AddCommand(Deploy())
	cmd.AddCommand(Undeploy())
	cmd.AddCommand(Ingress())
	cmd.AddCommand(Status())
	cmd.AddCommand(CRD())
	cmd.AddCommand(Version())

	return cmd
}

// setupLogger routes library logs to zap in development mode when verbose is
// set and discards them otherwise. Progress output uses the log package.
func setupLogger(verbose bool) {
	if verbose {
		ctrllog.SetLogger(zap.New(zap.UseDevMode(true)))
		return
	}
	ctrllog.SetLogger(logr.Discard())
}
