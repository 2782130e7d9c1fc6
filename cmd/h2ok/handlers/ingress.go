package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/h2oai/h2o-kubernetes/internal/descriptor"
)

// Ingress handles the ingress command. It waits until the ingress of the
// cluster named by the descriptor at file has an address and prints the URL
// the cluster is reachable on.
func Ingress(ctx context.Context, file, kubeconfig string) error {
	path, err := descriptorPath(file)
	if err != nil {
		return err
	}
	d, err := descriptor.Read(path)
	if err != nil {
		return err
	}
	id, err := d.Identity()
	if err != nil {
		return err
	}

	orch, _, err := connect(kubeconfig, d.Namespace)
	if err != nil {
		return fmt.Errorf("failed to connect to cluster: %w", err)
	}

	log.Printf("Waiting for ingress of %s to receive an address...", id)
	url, err := orch.Endpoint(ctx, id)
	if err != nil {
		return fmt.Errorf("ingress of %s is not reachable: %w", id, err)
	}
	_, err = fmt.Fprintln(stdout, url)
	return err
}
