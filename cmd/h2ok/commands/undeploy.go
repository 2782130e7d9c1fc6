package commands

import (
	"github.com/spf13/cobra"

	"github.com/h2oai/h2o-kubernetes/cmd/h2ok/handlers"
)

// Undeploy returns the undeploy command.
func Undeploy() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undeploy",
		Short: "Remove an H2O cluster",
		Long: `Undeploy removes an H2O cluster and every object created for it.

The cluster is identified by the deployment descriptor written by 'h2ok deploy'.
When --file is not given, the descriptor path is read from stdin. Relative paths
are resolved against the current directory.

Examples:
  h2ok undeploy -f h2o-3f9c2a1b
  ls h2o-* | h2ok undeploy --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := bindEnv(cmd.Flags())
			if err != nil {
				return err
			}
			return handlers.Undeploy(cmd.Context(), handlers.UndeployOptions{
				File:       v.GetString("file"),
				Kubeconfig: v.GetString("kubeconfig"),
				Yes:        v.GetBool("yes"),
			})
		},
	}

	cmd.Flags().StringP("file", "f", "", "Path to the deployment descriptor (default: read from stdin)")
	cmd.Flags().String("kubeconfig", "", "Path to the kubeconfig file")
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	return cmd
}
