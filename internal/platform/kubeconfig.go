package platform

import (
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Config holds a REST config and the namespace resolved from the same
// kubeconfig.
type Config struct {
	REST      *rest.Config
	Namespace string
}

// LoadConfig resolves a kubeconfig. An empty path scans the well-known
// locations (KUBECONFIG, ~/.kube/config) and falls back to in-cluster
// configuration. A non-empty namespace overrides the kubeconfig context.
func LoadConfig(kubeconfigPath, namespace string) (*Config, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfigPath != "" {
		rules.ExplicitPath = kubeconfigPath
	}
	overrides := &clientcmd.ConfigOverrides{}
	if namespace != "" {
		overrides.Context.Namespace = namespace
	}

	loader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides)

	restConfig, err := loader.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	ns, _, err := loader.Namespace()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve namespace: %w", err)
	}

	return &Config{REST: restConfig, Namespace: ns}, nil
}

// NewClientForConfig builds an uncached Client from cfg.
func NewClientForConfig(cfg *Config, scheme *runtime.Scheme) (*Client, error) {
	kube, err := client.NewWithWatch(cfg.REST, client.Options{Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return NewClient(kube, cfg.Namespace), nil
}
