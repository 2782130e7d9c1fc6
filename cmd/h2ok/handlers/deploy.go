package handlers

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/descriptor"
	"github.com/h2oai/h2o-kubernetes/internal/manifest"
	"github.com/h2oai/h2o-kubernetes/internal/orchestrator"
	"github.com/h2oai/h2o-kubernetes/internal/util/labels"
)

// DeployOptions holds the user input of the deploy command.
type DeployOptions struct {
	Kubeconfig       string
	Namespace        string
	Name             string
	Nodes            int32
	Memory           string
	CPUs             int32
	MemoryPercentage int32
	Version          string
	CustomImage      string
	CustomCommand    string
	Wait             bool
	DryRun           bool
}

// Spec converts the options into an H2OSpec. A custom image takes precedence
// over the version.
func (o DeployOptions) Spec() h2ov1.H2OSpec {
	spec := h2ov1.H2OSpec{
		Nodes: o.Nodes,
		Resources: h2ov1.Resources{
			CPU:              o.CPUs,
			Memory:           o.Memory,
			MemoryPercentage: ptr.To(o.MemoryPercentage),
		},
	}
	if o.CustomImage != "" {
		spec.CustomImage = &h2ov1.CustomImage{Image: o.CustomImage, Command: o.CustomCommand}
	} else {
		spec.Version = o.Version
	}
	return spec
}

// Deploy handles the deploy command.
//
// It submits the H2O resource and its dependents, then writes a deployment
// descriptor named after the cluster into the working directory. With Wait
// set it blocks until every H2O node is ready.
func Deploy(ctx context.Context, opts DeployOptions) error {
	spec := opts.Spec()

	if opts.DryRun {
		namespace := opts.Namespace
		if namespace == "" {
			namespace = "default"
		}
		req, err := orchestrator.NewApplyRequest(nameGenerator, opts.Name, namespace, namespace, spec)
		if err != nil {
			return err
		}
		objs := append([]client.Object{manifest.BuildCluster(req.Identity, req.Spec, labels.ManagedByCLI)},
			manifest.Dependents(req.Identity, req.Spec)...)
		return writeManifests(stdout, objs...)
	}

	orch, c, err := connect(opts.Kubeconfig, opts.Namespace)
	if err != nil {
		return fmt.Errorf("failed to connect to cluster: %w", err)
	}

	req, err := orchestrator.NewApplyRequest(nameGenerator, opts.Name, opts.Namespace, c.Namespace(), spec)
	if err != nil {
		return err
	}
	id := req.Identity

	log.Printf("Deploying H2O cluster %s (%d nodes)", id, spec.Nodes)
	if err := withRetry(ctx, orch.Timeouts(), func() error {
		_, err := orch.Run(ctx, req)
		return err
	}); err != nil {
		return fmt.Errorf("deploy failed: %w", err)
	}

	dir, err := getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	path := filepath.Join(dir, id.Name)
	if err := descriptor.Write(path, descriptor.FromIdentity(id)); err != nil {
		return err
	}
	log.Printf("Deployment descriptor written to %s", path)

	var ready *int32
	if opts.Wait {
		log.Printf("Waiting for %d H2O nodes to become ready...", spec.Nodes)
		n, err := orch.AwaitReady(ctx, id)
		if err != nil {
			return fmt.Errorf("cluster %s did not become ready: %w", id, err)
		}
		ready = &n
	}

	fmt.Fprint(stdout, renderDeploySummary(id, req.Spec, path, ready))
	return nil
}
