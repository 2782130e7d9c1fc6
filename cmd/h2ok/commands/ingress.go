package commands

import (
	"github.com/spf13/cobra"

	"github.com/h2oai/h2o-kubernetes/cmd/h2ok/handlers"
)

// Ingress returns the ingress command.
func Ingress() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingress",
		Short: "Print the URL an H2O cluster is reachable on",
		Long: `Ingress waits until the ingress of a cluster has a load balancer address and
prints the URL of the cluster, e.g. http://10.0.0.10/h2o-3f9c2a1b.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := bindEnv(cmd.Flags())
			if err != nil {
				return err
			}
			return handlers.Ingress(cmd.Context(), v.GetString("file"), v.GetString("kubeconfig"))
		},
	}

	cmd.Flags().StringP("file", "f", "", "Path to the deployment descriptor (default: read from stdin)")
	cmd.Flags().String("kubeconfig", "", "Path to the kubeconfig file")

	return cmd
}
