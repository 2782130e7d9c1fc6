package orchestrator

import (
	"context"
	"errors"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/cluster"
	"github.com/h2oai/h2o-kubernetes/internal/config"
	"github.com/h2oai/h2o-kubernetes/internal/crd"
	"github.com/h2oai/h2o-kubernetes/internal/descriptor"
	"github.com/h2oai/h2o-kubernetes/internal/lifecycle"
	"github.com/h2oai/h2o-kubernetes/internal/manifest"
	"github.com/h2oai/h2o-kubernetes/internal/platform"
	"github.com/h2oai/h2o-kubernetes/internal/util/labels"
	"github.com/h2oai/h2o-kubernetes/internal/util/naming"
	"github.com/h2oai/h2o-kubernetes/internal/waiter"
)

// Outcome is the result of one pass.
type Outcome string

const (
	// OutcomeApplied means the generated objects were submitted.
	OutcomeApplied Outcome = "Applied"
	// OutcomeTornDown means the generated objects were removed and the finalizer released.
	OutcomeTornDown Outcome = "TornDown"
	// OutcomeReleased means the resource is being deleted and needs nothing more.
	OutcomeReleased Outcome = "Released"
	// OutcomeAbsent means the H2O resource does not exist.
	OutcomeAbsent Outcome = "Absent"
)

// ErrTerminating is returned when an apply targets a cluster being deleted.
var ErrTerminating = errors.New("cluster is being deleted")

// Orchestrator runs reconciliation passes.
type Orchestrator struct {
	client    *platform.Client
	registrar *crd.Registrar
	timeouts  *config.Timeouts
	managedBy string
}

// Option is a functional option for configuring the Orchestrator.
type Option func(*Orchestrator)

// WithRegistrar sets the schema registrar. Defaults to one using the same client.
func WithRegistrar(r *crd.Registrar) Option {
	return func(o *Orchestrator) {
		o.registrar = r
	}
}

// WithTimeouts sets the timeouts used for waits.
func WithTimeouts(t *config.Timeouts) Option {
	return func(o *Orchestrator) {
		o.timeouts = t
	}
}

// WithManagedBy sets the managed-by label written on new H2O resources.
func WithManagedBy(manager string) Option {
	return func(o *Orchestrator) {
		o.managedBy = manager
	}
}

// New creates an Orchestrator talking through c.
func New(c *platform.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:    c,
		managedBy: labels.ManagedByCLI,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.registrar == nil {
		o.registrar = crd.NewRegistrar(c)
	}
	if o.timeouts == nil {
		o.timeouts = config.LoadTimeouts()
	}
	return o
}

// Registrar returns the schema registrar used by the Orchestrator.
func (o *Orchestrator) Registrar() *crd.Registrar {
	return o.registrar
}

// Run executes req.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Outcome, error) {
	switch req.Action {
	case ActionApply:
		return o.Apply(ctx, req.Identity, req.Spec)
	case ActionTeardown:
		return o.Teardown(ctx, req.Identity)
	default:
		return "", fmt.Errorf("unknown action %q", req.Action)
	}
}

// Apply makes sure the schema exists, stores spec in the H2O resource and
// runs one pass over it.
func (o *Orchestrator) Apply(ctx context.Context, id cluster.Identity, spec h2ov1.H2OSpec) (Outcome, error) {
	logger := log.FromContext(ctx).WithValues("cluster", id.String())

	if err := spec.Validate(); err != nil {
		return "", err
	}

	if err := o.registrar.EnsureInstalled(ctx, o.timeouts.SchemaReady); err != nil {
		return "", err
	}

	h2o := &h2ov1.H2O{ObjectMeta: metav1.ObjectMeta{Name: id.Name, Namespace: id.Namespace}}
	found, err := o.client.Get(ctx, h2o)
	if err != nil {
		return "", err
	}

	if !found {
		h2o = manifest.BuildCluster(id, spec, o.managedBy)
		if err := o.client.Create(ctx, h2o); err != nil {
			return "", err
		}
		logger.Info("created H2O resource")
	} else {
		if lifecycle.HasDeletionIntent(h2o) {
			return "", fmt.Errorf("%s: %w", id, ErrTerminating)
		}
		h2o.Spec = *spec.DeepCopy()
		if err := o.client.Replace(ctx, h2o); err != nil {
			return "", err
		}
		logger.Info("updated H2O resource")
	}

	return o.pass(ctx, h2o)
}

// Teardown requests deletion of the H2O resource and removes the generated
// objects. Objects left behind by a resource that no longer exists are
// removed too.
func (o *Orchestrator) Teardown(ctx context.Context, id cluster.Identity) (Outcome, error) {
	logger := log.FromContext(ctx).WithValues("cluster", id.String())

	h2o := &h2ov1.H2O{ObjectMeta: metav1.ObjectMeta{Name: id.Name, Namespace: id.Namespace}}
	if err := o.client.Delete(ctx, h2o); err != nil && !platform.IsNotFound(err) {
		return "", err
	}
	logger.Info("deletion requested")

	found, err := o.client.Get(ctx, h2o)
	if err != nil {
		return "", err
	}
	if !found {
		if err := o.deleteDependents(ctx, id); err != nil {
			return "", err
		}
		return OutcomeAbsent, nil
	}
	return o.pass(ctx, h2o)
}

// TeardownDescriptor tears down the cluster named by a descriptor.
func (o *Orchestrator) TeardownDescriptor(ctx context.Context, d descriptor.Descriptor) (Outcome, error) {
	id, err := d.Identity()
	if err != nil {
		return "", err
	}
	return o.Teardown(ctx, id)
}

// Reconcile runs one pass over the stored H2O resource.
func (o *Orchestrator) Reconcile(ctx context.Context, id cluster.Identity) (Outcome, error) {
	h2o := &h2ov1.H2O{ObjectMeta: metav1.ObjectMeta{Name: id.Name, Namespace: id.Namespace}}
	found, err := o.client.Get(ctx, h2o)
	if err != nil {
		return "", err
	}
	if !found {
		return OutcomeAbsent, nil
	}
	return o.pass(ctx, h2o)
}

// pass acts on a fetched H2O resource. On return h2o reflects what was stored.
func (o *Orchestrator) pass(ctx context.Context, h2o *h2ov1.H2O) (Outcome, error) {
	id := cluster.Identity{Name: h2o.Name, Namespace: h2o.Namespace}
	state := lifecycle.StateOf(h2o)
	logger := log.FromContext(ctx).WithValues("cluster", id.String(), "state", state.String())

	switch state {
	case lifecycle.Released:
		logger.V(1).Info("nothing to do")
		return OutcomeReleased, nil

	case lifecycle.Terminating:
		if h2o.Status.Phase != h2ov1.ClusterPhaseTerminating {
			h2o.Status.Phase = h2ov1.ClusterPhaseTerminating
			if err := o.client.UpdateStatus(ctx, h2o); err != nil && !platform.IsNotFound(err) {
				logger.Error(err, "failed to mark cluster terminating")
			}
		}
		if err := o.deleteDependents(ctx, id); err != nil {
			return "", err
		}
		released := h2o.DeepCopy()
		lifecycle.Release(released)
		if err := o.client.Replace(ctx, released); err != nil && !platform.IsNotFound(err) {
			return "", err
		}
		logger.Info("teardown complete, finalizer released")
		return OutcomeTornDown, nil
	}

	if lifecycle.Claim(h2o) {
		if err := o.client.Replace(ctx, h2o); err != nil {
			return "", err
		}
		logger.V(1).Info("finalizer added")
	}

	if err := h2o.Spec.Validate(); err != nil {
		return "", err
	}

	for _, obj := range manifest.Dependents(id, h2o.Spec) {
		if err := controllerutil.SetControllerReference(h2o, obj, o.client.Scheme()); err != nil {
			return "", fmt.Errorf("failed to set owner of %s: %w", obj.GetName(), err)
		}
		if err := o.submit(ctx, obj); err != nil {
			return "", err
		}
	}
	logger.Info("cluster applied", "nodes", h2o.Spec.Nodes)
	return OutcomeApplied, nil
}

// submit creates obj or replaces the stored object with it.
func (o *Orchestrator) submit(ctx context.Context, obj client.Object) error {
	existing, ok := obj.DeepCopyObject().(client.Object)
	if !ok {
		return fmt.Errorf("unexpected object type %T", obj)
	}
	found, err := o.client.Get(ctx, existing)
	if err != nil {
		return err
	}
	if !found {
		return o.client.Create(ctx, obj)
	}
	obj.SetResourceVersion(existing.GetResourceVersion())
	return o.client.Replace(ctx, obj)
}

// deleteDependents removes every generated object. Objects already gone
// count as removed.
func (o *Orchestrator) deleteDependents(ctx context.Context, id cluster.Identity) error {
	var errs []error
	for _, obj := range manifest.DependentKeys(id) {
		if err := o.client.Delete(ctx, obj); err != nil && !platform.IsNotFound(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AwaitReady waits until every H2O node of the cluster is ready and returns
// the number of ready nodes.
func (o *Orchestrator) AwaitReady(ctx context.Context, id cluster.Identity) (int32, error) {
	sts := &appsv1.StatefulSet{ObjectMeta: metav1.ObjectMeta{Name: naming.StatefulSet(id.Name), Namespace: id.Namespace}}
	if err := waiter.For(ctx, o.client, sts, &appsv1.StatefulSetList{}, waiter.StatefulSetReady, o.timeouts.ClusterReady); err != nil {
		return 0, err
	}
	return sts.Status.ReadyReplicas, nil
}

// Endpoint waits for the ingress of the cluster to get an address and
// returns the URL the cluster is reachable on.
func (o *Orchestrator) Endpoint(ctx context.Context, id cluster.Identity) (string, error) {
	ing := &networkingv1.Ingress{ObjectMeta: metav1.ObjectMeta{Name: naming.Ingress(id.Name), Namespace: id.Namespace}}
	if err := waiter.For(ctx, o.client, ing, &networkingv1.IngressList{}, waiter.IngressHasAddress, o.timeouts.IngressReady); err != nil {
		return "", err
	}
	host, ok := manifest.AnyIP(ing)
	if !ok {
		// Load balancers such as AWS ELB publish a hostname only.
		for _, lb := range ing.Status.LoadBalancer.Ingress {
			if lb.Hostname != "" {
				host = lb.Hostname
			}
		}
	}
	path, ok := manifest.AnyPath(ing)
	if !ok {
		path = naming.IngressPath(id.Name)
	}
	return fmt.Sprintf("http://%s%s", host, path), nil
}

// StatusOf reads the stored H2O resource and its StatefulSet.
func (o *Orchestrator) StatusOf(ctx context.Context, id cluster.Identity) (*h2ov1.H2O, *appsv1.StatefulSet, error) {
	h2o := &h2ov1.H2O{ObjectMeta: metav1.ObjectMeta{Name: id.Name, Namespace: id.Namespace}}
	found, err := o.client.Get(ctx, h2o)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, nil
	}
	sts := &appsv1.StatefulSet{ObjectMeta: metav1.ObjectMeta{Name: naming.StatefulSet(id.Name), Namespace: id.Namespace}}
	found, err = o.client.Get(ctx, sts)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return h2o, nil, nil
	}
	return h2o, sts, nil
}

// Timeouts returns the timeouts in use.
func (o *Orchestrator) Timeouts() *config.Timeouts {
	return o.timeouts
}
