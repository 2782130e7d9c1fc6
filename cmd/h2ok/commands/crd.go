package commands

import (
	"github.com/spf13/cobra"

	"github.com/h2oai/h2o-kubernetes/cmd/h2ok/handlers"
)

// CRD returns the crd command group managing the H2O schema.
func CRD() *cobra.Command {
	var kubeconfig string

	cmd := &cobra.Command{
		Use:   "crd",
		Short: "Manage the H2O CustomResourceDefinition",
	}
	cmd.PersistentFlags().StringVar(&kubeconfig, "kubeconfig", "", "Path to the kubeconfig file")

	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Install the H2O schema and wait until it is served",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.CRDInstall(cmd.Context(), kubeconfig)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "uninstall",
		Short: "Remove the H2O schema together with every H2O cluster",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.CRDUninstall(cmd.Context(), kubeconfig)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether the H2O schema is installed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.CRDStatus(cmd.Context(), kubeconfig)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "print",
		Short: "Print the H2O schema as YAML",
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.CRDPrint()
		},
	})

	return cmd
}
