package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	appsv1 "k8s.io/api/apps/v1"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/cluster"
	"github.com/h2oai/h2o-kubernetes/internal/lifecycle"
)

// Fetcher reads the stored H2O resource and its StatefulSet. A nil h2o means
// the cluster does not exist.
type Fetcher func(ctx context.Context) (*h2ov1.H2O, *appsv1.StatefulSet, error)

// PollInterval is how often the watch view refreshes.
var PollInterval = 3 * time.Second

// Snapshot condenses h2o and sts into a StatusMsg.
func Snapshot(h2o *h2ov1.H2O, sts *appsv1.StatefulSet) StatusMsg {
	if h2o == nil {
		return StatusMsg{NotFound: true}
	}
	msg := StatusMsg{
		Phase:      h2o.Status.Phase,
		Lifecycle:  lifecycle.StateOf(h2o).String(),
		Desired:    h2o.Spec.Nodes,
		Ready:      h2o.Status.ReadyNodes,
		Conditions: h2o.Status.Conditions,
	}
	if h2o.Spec.CustomImage != nil {
		msg.Image = h2o.Spec.CustomImage.Image
	}
	if sts != nil {
		// The StatefulSet is fresher than the status the operator writes.
		msg.Ready = sts.Status.ReadyReplicas
		if containers := sts.Spec.Template.Spec.Containers; len(containers) > 0 {
			msg.Image = containers[0].Image
		}
	}
	if msg.Image == "" {
		msg.Image = "version " + h2o.Spec.Version
	}
	return msg
}

func fetch(ctx context.Context, f Fetcher) StatusMsg {
	h2o, sts, err := f(ctx)
	if err != nil {
		return StatusMsg{FetchErr: err.Error()}
	}
	return Snapshot(h2o, sts)
}

// RenderOnce renders the status of a cluster once (non-watch mode).
func RenderOnce(ctx context.Context, id cluster.Identity, f Fetcher) (string, error) {
	msg := fetch(ctx, f)
	if msg.NotFound {
		return "", fmt.Errorf("H2O cluster %s not found", id)
	}
	if msg.FetchErr != "" {
		return "", fmt.Errorf("failed to fetch cluster status: %s", msg.FetchErr)
	}
	m := NewModel(id)
	m.Status = msg
	return renderView(m), nil
}

// RunStatusTUI shows the status of a cluster until the user quits.
func RunStatusTUI(ctx context.Context, id cluster.Identity, f Fetcher) error {
	m := NewModel(id)
	m.Watch = true

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		ticker := time.NewTicker(PollInterval)
		defer ticker.Stop()

		fetchCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		p.Send(fetch(fetchCtx, f))
		cancel()

		for {
			select {
			case <-ctx.Done():
				p.Send(ErrMsg{Err: ctx.Err()})
				return
			case <-ticker.C:
				p.Send(fetch(ctx, f))
			}
		}
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	fm := finalModel.(Model)
	return fm.Err
}
