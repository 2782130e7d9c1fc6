package commands

import (
	"github.com/spf13/cobra"

	"github.com/h2oai/h2o-kubernetes/cmd/h2ok/handlers"
)

// Status returns the status command.
//
// Optional flags:
//
//	--file, -f: Path to the deployment descriptor (default: read from stdin)
//	--watch, -w: Continuously watch status updates
func Status() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the status of an H2O cluster",
		Long: `Status shows the phase and the ready nodes of an H2O cluster together with
its conditions. With --watch the view refreshes until you press q.

Examples:
  h2ok status -f h2o-3f9c2a1b
  h2ok status -f h2o-3f9c2a1b --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := bindEnv(cmd.Flags())
			if err != nil {
				return err
			}
			return handlers.Status(cmd.Context(), v.GetString("file"), v.GetString("kubeconfig"), v.GetBool("watch"))
		},
	}

	cmd.Flags().StringP("file", "f", "", "Path to the deployment descriptor (default: read from stdin)")
	cmd.Flags().String("kubeconfig", "", "Path to the kubeconfig file")
	cmd.Flags().BoolP("watch", "w", false, "Continuously watch status updates")

	return cmd
}
