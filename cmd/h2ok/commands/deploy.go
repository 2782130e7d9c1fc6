package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/h2oai/h2o-kubernetes/cmd/h2ok/handlers"
	"github.com/h2oai/h2o-kubernetes/internal/config"
)

// Deploy returns the deploy command.
//
// Every flag can also be set through an H2OK_ prefixed environment variable.
func Deploy() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy an H2O cluster",
		Long: `Deploy creates an H2O cluster in Kubernetes.

The cluster is stored as an H2O custom resource. h2ok installs the H2O schema
when it is missing and creates the resource together with a StatefulSet, a
headless Service and an Ingress. On success a deployment descriptor named
after the cluster is written to the current directory; pass it to
'h2ok undeploy' and 'h2ok ingress'.

Examples:
  # Three nodes with 4 GiB of memory each
  h2ok deploy --cluster-size 3 --memory 4Gi

  # Custom image, started with its own command
  h2ok deploy --custom-image registry.example.com/h2o:3.44 --custom-command "/opt/start.sh"

  # Print the manifests without deploying
  h2ok deploy --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := bindEnv(cmd.Flags())
			if err != nil {
				return err
			}
			return handlers.Deploy(cmd.Context(), deployOptions(v))
		},
	}

	f := cmd.Flags()
	f.Int32("cluster-size", config.DefaultNodes, "Number of H2O nodes")
	f.String("kubeconfig", "", "Path to the kubeconfig file (default: standard kubeconfig locations)")
	f.StringP("namespace", "n", "", "Namespace to deploy to (default: kubeconfig context namespace)")
	f.String("cluster-name", "", "Name of the cluster (default: generated)")
	f.Int32("memory-percentage", config.DefaultMemoryPercentage, "Percentage of pod memory the H2O JVM may use")
	f.String("memory", config.DefaultMemory, "Memory per H2O node, e.g. 4Gi")
	f.Int32("cpus", config.DefaultCPUs, "CPUs per H2O node")
	f.String("version", config.DefaultVersion, "H2O version of the official image")
	f.String("custom-image", "", "Custom image with H2O inside, overrides --version")
	f.String("custom-command", "", "Command the custom image is started with (default: image entrypoint)")
	f.Bool("wait", false, "Wait until every H2O node is ready")
	f.Bool("dry-run", false, "Print the manifests instead of deploying")

	return cmd
}

func deployOptions(v *viper.Viper) handlers.DeployOptions {
	return handlers.DeployOptions{
		Kubeconfig:       v.GetString("kubeconfig"),
		Namespace:        v.GetString("namespace"),
		Name:             v.GetString("cluster-name"),
		Nodes:            v.GetInt32("cluster-size"),
		Memory:           v.GetString("memory"),
		CPUs:             v.GetInt32("cpus"),
		MemoryPercentage: v.GetInt32("memory-percentage"),
		Version:          v.GetString("version"),
		CustomImage:      v.GetString("custom-image"),
		CustomCommand:    v.GetString("custom-command"),
		Wait:             v.GetBool("wait"),
		DryRun:           v.GetBool("dry-run"),
	}
}
