package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/h2oai/h2o-kubernetes/internal/descriptor"
	"github.com/h2oai/h2o-kubernetes/internal/orchestrator"
)

// ErrMissingDescriptor is returned when neither --file nor stdin names a
// deployment descriptor.
var ErrMissingDescriptor = errors.New("no deployment descriptor given: pass --file or pipe its path to stdin")

// confirm asks the user a yes/no question. Replaced in tests.
var confirm = func(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

// UndeployOptions holds the user input of the undeploy command.
type UndeployOptions struct {
	File       string
	Kubeconfig string
	Yes        bool
}

// Undeploy handles the undeploy command.
//
// It reads the deployment descriptor, removes the H2O resource and every
// object generated for it, and deletes the descriptor afterwards. When no
// file is given the descriptor path is read from stdin.
func Undeploy(ctx context.Context, opts UndeployOptions) error {
	path, err := descriptorPath(opts.File)
	if err != nil {
		return err
	}
	d, err := descriptor.Read(path)
	if err != nil {
		return err
	}

	if !opts.Yes && isInteractive() {
		ok, err := confirm(fmt.Sprintf("Delete H2O cluster %s/%s and all of its nodes?", d.Namespace, d.Name))
		if err != nil {
			return err
		}
		if !ok {
			log.Println("Undeploy cancelled")
			return nil
		}
	}

	orch, _, err := connect(opts.Kubeconfig, d.Namespace)
	if err != nil {
		return fmt.Errorf("failed to connect to cluster: %w", err)
	}

	log.Printf("Undeploying H2O cluster %s/%s", d.Namespace, d.Name)
	var outcome orchestrator.Outcome
	if err := withRetry(ctx, orch.Timeouts(), func() error {
		var err error
		outcome, err = orch.TeardownDescriptor(ctx, d)
		return err
	}); err != nil {
		return fmt.Errorf("undeploy failed: %w", err)
	}

	if outcome == orchestrator.OutcomeAbsent {
		log.Printf("Cluster %s/%s was already gone", d.Namespace, d.Name)
	} else {
		log.Printf("Cluster %s/%s undeployed", d.Namespace, d.Name)
	}
	return descriptor.Remove(path)
}

// descriptorPath resolves the descriptor named by file, or by the first line
// of stdin when file is empty. Relative paths that do not exist as given are
// tried against the working directory.
func descriptorPath(file string) (string, error) {
	if file == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read descriptor path from stdin: %w", err)
		}
		file = strings.TrimSpace(string(data))
		if i := strings.IndexByte(file, '\n'); i >= 0 {
			file = strings.TrimSpace(file[:i])
		}
		if file == "" {
			return "", ErrMissingDescriptor
		}
	}
	dir, err := getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}
	return descriptor.Resolve(file, dir)
}
