package handlers

import (
	"context"
	"fmt"
	"log"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/crd"
)

// CRDInstall installs the H2O schema and waits until the API server serves it.
func CRDInstall(ctx context.Context, kubeconfig string) error {
	orch, _, err := connect(kubeconfig, "")
	if err != nil {
		return fmt.Errorf("failed to connect to cluster: %w", err)
	}
	reg := orch.Registrar()
	if err := withRetry(ctx, orch.Timeouts(), func() error {
		return reg.EnsureInstalled(ctx, orch.Timeouts().SchemaReady)
	}); err != nil {
		return err
	}
	log.Printf("Schema %s installed (%s)", h2ov1.ResourceName, reg.State())
	return nil
}

// CRDUninstall removes the H2O schema. Every H2O resource goes with it.
func CRDUninstall(ctx context.Context, kubeconfig string) error {
	orch, _, err := connect(kubeconfig, "")
	if err != nil {
		return fmt.Errorf("failed to connect to cluster: %w", err)
	}
	if err := orch.Registrar().Uninstall(ctx); err != nil {
		return err
	}
	log.Printf("Schema %s removed", h2ov1.ResourceName)
	return nil
}

// CRDStatus prints whether the H2O schema is installed and accepted.
func CRDStatus(ctx context.Context, kubeconfig string) error {
	orch, _, err := connect(kubeconfig, "")
	if err != nil {
		return fmt.Errorf("failed to connect to cluster: %w", err)
	}
	state := "not installed"
	if orch.Registrar().IsInstalled(ctx) {
		state = "installed"
	}
	_, err = fmt.Fprintf(stdout, "%s: %s\n", h2ov1.ResourceName, state)
	return err
}

// CRDPrint writes the H2O schema as YAML without contacting a cluster.
func CRDPrint() error {
	return writeManifests(stdout, crd.Definition())
}
