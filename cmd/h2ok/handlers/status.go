package handlers

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/descriptor"
	"github.com/h2oai/h2o-kubernetes/internal/ui/tui"
)

// runStatusTUI starts the interactive status view. Replaced in tests.
var runStatusTUI = tui.RunStatusTUI

// Status handles the status command. It shows the phase and ready nodes of
// the cluster named by the descriptor, once or, with watch, continuously
// until the user quits.
func Status(ctx context.Context, file, kubeconfig string, watch bool) error {
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
	fetch := func(ctx context.Context) (*h2ov1.H2O, *appsv1.StatefulSet, error) {
		return orch.StatusOf(ctx, id)
	}

	if watch && isInteractive() {
		return runStatusTUI(ctx, id, fetch)
	}
	out, err := tui.RenderOnce(ctx, id, fetch)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(stdout, out)
	return err
}
