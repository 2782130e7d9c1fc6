// Package handlers implements the business logic for CLI commands.
//
// Handlers are called by the command definitions in the commands package.
// Everything that touches the outside world (the cluster, the terminal, the
// working directory) goes through package-level factory variables so tests
// can replace it.
package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/cluster"
	"github.com/h2oai/h2o-kubernetes/internal/config"
	"github.com/h2oai/h2o-kubernetes/internal/orchestrator"
	"github.com/h2oai/h2o-kubernetes/internal/platform"
	"github.com/h2oai/h2o-kubernetes/internal/util/retry"
	"github.com/h2oai/h2o-kubernetes/internal/waiter"
)

// Factory function variables - can be replaced in tests.
var (
	// newPlatformClient connects to the cluster described by kubeconfig.
	// An empty namespace falls back to the kubeconfig context namespace.
	newPlatformClient = func(kubeconfig, namespace string) (*platform.Client, error) {
		cfg, err := platform.LoadConfig(kubeconfig, namespace)
		if err != nil {
			return nil, err
		}
		return platform.NewClientForConfig(cfg, h2ov1.Scheme)
	}

	// newOrchestrator creates the orchestrator driving every pass.
	newOrchestrator = func(c *platform.Client) *orchestrator.Orchestrator {
		return orchestrator.New(c)
	}

	// nameGenerator names clusters deployed without --cluster-name.
	nameGenerator cluster.NameGenerator = cluster.RandomName

	getwd = os.Getwd

	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout

	isInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
)

// connect builds the client and orchestrator for one command.
func connect(kubeconfig, namespace string) (*orchestrator.Orchestrator, *platform.Client, error) {
	c, err := newPlatformClient(kubeconfig, namespace)
	if err != nil {
		return nil, nil, err
	}
	return newOrchestrator(c), c, nil
}

// withRetry repeats op while it fails with transport faults. Every other
// failure, such as an invalid spec or an expired wait, ends the loop at once.
func withRetry(ctx context.Context, t *config.Timeouts, op func() error) error {
	return retry.WithExponentialBackoff(ctx, func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return retry.Fatal(err)
		}
		return err
	},
		retry.WithMaxRetries(t.RetryMaxAttempts),
		retry.WithInitialDelay(t.RetryInitialDelay),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Printf("Attempt %d failed: %v (retrying in %s)", attempt, err, delay)
		}),
	)
}

func retryable(err error) bool {
	var invalid *h2ov1.InvalidSpecificationError
	if errors.As(err, &invalid) || errors.Is(err, orchestrator.ErrTerminating) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var timeout *waiter.TimeoutError
	if errors.As(err, &timeout) {
		return false
	}
	return platform.IsPlatformError(err)
}
