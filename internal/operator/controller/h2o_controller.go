package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/cluster"
	"github.com/h2oai/h2o-kubernetes/internal/orchestrator"
	"github.com/h2oai/h2o-kubernetes/internal/platform"
	"github.com/h2oai/h2o-kubernetes/internal/util/labels"
)

const defaultRequeueAfter = 30 * time.Second

// ErrNoOrchestrator is returned when the reconciler was built from a client
// that cannot watch and no orchestrator was supplied.
var ErrNoOrchestrator = errors.New("h2o reconciler has no orchestrator")

// H2OReconciler reconciles H2O objects.
type H2OReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder

	orchestrator  *orchestrator.Orchestrator
	requeueAfter  time.Duration
	enableMetrics bool
}

// Option is a functional option for configuring the H2OReconciler.
type Option func(*H2OReconciler)

// WithOrchestrator sets the orchestrator running the passes.
func WithOrchestrator(o *orchestrator.Orchestrator) Option {
	return func(r *H2OReconciler) {
		r.orchestrator = o
	}
}

// WithRequeueInterval sets how often healthy clusters are checked again.
func WithRequeueInterval(d time.Duration) Option {
	return func(r *H2OReconciler) {
		r.requeueAfter = d
	}
}

// WithMetrics enables or disables Prometheus metrics.
func WithMetrics(enable bool) Option {
	return func(r *H2OReconciler) {
		r.enableMetrics = enable
	}
}

// NewH2OReconciler creates a new H2OReconciler.
func NewH2OReconciler(c client.Client, scheme *runtime.Scheme, recorder record.EventRecorder, opts ...Option) *H2OReconciler {
	r := &H2OReconciler{
		Client:        c,
		Scheme:        scheme,
		Recorder:      recorder,
		requeueAfter:  defaultRequeueAfter,
		enableMetrics: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.orchestrator == nil {
		if ww, ok := c.(client.WithWatch); ok {
			r.orchestrator = orchestrator.New(platform.NewClient(ww, ""), orchestrator.WithManagedBy(labels.ManagedByOperator))
		}
	}
	return r
}

// +kubebuilder:rbac:groups=h2o.ai,resources=h2os,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=h2o.ai,resources=h2os/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=h2o.ai,resources=h2os/finalizers,verbs=update
// +kubebuilder:rbac:groups=apps,resources=statefulsets,verbs=get;list;watch;create;update;delete
// +kubebuilder:rbac:groups="",resources=services,verbs=get;list;watch;create;update;delete
// +kubebuilder:rbac:groups=networking.k8s.io,resources=ingresses,verbs=get;list;watch;create;update;delete
// +kubebuilder:rbac:groups=apiextensions.k8s.io,resources=customresourcedefinitions,verbs=get;list;watch;create
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch

// Reconcile runs one orchestrator pass for the H2O resource in req.
func (r *H2OReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)
	start := time.Now()
	id := cluster.Identity{Name: req.Name, Namespace: req.Namespace}
	if r.orchestrator == nil {
		return ctrl.Result{}, ErrNoOrchestrator
	}

	outcome, err := r.orchestrator.Reconcile(ctx, id)
	if err != nil {
		r.recordReconcile(id.String(), "error", time.Since(start).Seconds())
		return r.handleError(ctx, id, err)
	}

	switch outcome {
	case orchestrator.OutcomeAbsent, orchestrator.OutcomeReleased:
		logger.V(1).Info("nothing to reconcile", "outcome", outcome)
		r.recordReconcile(id.String(), "skipped", time.Since(start).Seconds())
		return ctrl.Result{}, nil

	case orchestrator.OutcomeTornDown:
		logger.Info("cluster torn down")
		ref := &h2ov1.H2O{ObjectMeta: metav1.ObjectMeta{Name: id.Name, Namespace: id.Namespace}}
		r.Recorder.Event(ref, corev1.EventTypeNormal, EventReasonTornDown, "Generated objects deleted and finalizer released")
		r.recordTeardown(id.String())
		r.clearNodeCounts(id.String())
		r.recordReconcile(id.String(), "success", time.Since(start).Seconds())
		return ctrl.Result{}, nil
	}

	result, err := r.updateStatus(ctx, id)
	r.recordReconcile(id.String(), resultLabel(err), time.Since(start).Seconds())
	return result, err
}

// updateStatus writes the readiness of the cluster into the H2O status.
func (r *H2OReconciler) updateStatus(ctx context.Context, id cluster.Identity) (ctrl.Result, error) {
	h2o, sts, err := r.orchestrator.StatusOf(ctx, id)
	if err != nil {
		return ctrl.Result{}, err
	}
	if h2o == nil {
		return ctrl.Result{}, nil
	}

	var ready int32
	if sts != nil {
		ready = sts.Status.ReadyReplicas
	}
	wasReady := meta.IsStatusConditionTrue(h2o.Status.Conditions, h2ov1.ConditionReady)

	h2o.Status.ReadyNodes = ready
	h2o.Status.ObservedGeneration = h2o.Generation
	allReady := ready >= h2o.Spec.Nodes
	if allReady {
		h2o.Status.Phase = h2ov1.ClusterPhaseRunning
		meta.SetStatusCondition(&h2o.Status.Conditions, metav1.Condition{
			Type:               h2ov1.ConditionReady,
			Status:             metav1.ConditionTrue,
			Reason:             "AllNodesReady",
			Message:            fmt.Sprintf("%d/%d H2O nodes ready", ready, h2o.Spec.Nodes),
			ObservedGeneration: h2o.Generation,
		})
	} else {
		h2o.Status.Phase = h2ov1.ClusterPhasePending
		meta.SetStatusCondition(&h2o.Status.Conditions, metav1.Condition{
			Type:               h2ov1.ConditionReady,
			Status:             metav1.ConditionFalse,
			Reason:             "NodesNotReady",
			Message:            fmt.Sprintf("%d/%d H2O nodes ready", ready, h2o.Spec.Nodes),
			ObservedGeneration: h2o.Generation,
		})
	}

	if err := r.Status().Update(ctx, h2o); err != nil {
		log.FromContext(ctx).Error(err, "failed to update status")
		return ctrl.Result{}, err
	}

	if allReady && !wasReady {
		r.Recorder.Eventf(h2o, corev1.EventTypeNormal, EventReasonReady, "All %d H2O nodes are ready", ready)
	} else if !wasReady {
		r.Recorder.Event(h2o, corev1.EventTypeNormal, EventReasonApplied, "Generated objects submitted")
	}
	r.recordNodeCounts(id.String(), h2o.Spec.Nodes, ready)

	return ctrl.Result{RequeueAfter: r.requeueAfter}, nil
}

// handleError reports a failed pass. Invalid specifications are reported in
// the status and not retried until the resource changes.
func (r *H2OReconciler) handleError(ctx context.Context, id cluster.Identity, passErr error) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	h2o, _, err := r.orchestrator.StatusOf(ctx, id)
	if err != nil || h2o == nil {
		return ctrl.Result{}, passErr
	}

	var invalid *h2ov1.InvalidSpecificationError
	if errors.As(passErr, &invalid) {
		logger.Info("invalid H2O specification", "error", passErr.Error())
		r.Recorder.Event(h2o, corev1.EventTypeWarning, EventReasonInvalidSpec, passErr.Error())
		h2o.Status.ObservedGeneration = h2o.Generation
		meta.SetStatusCondition(&h2o.Status.Conditions, metav1.Condition{
			Type:               h2ov1.ConditionReady,
			Status:             metav1.ConditionFalse,
			Reason:             "InvalidSpecification",
			Message:            passErr.Error(),
			ObservedGeneration: h2o.Generation,
		})
		if err := r.Status().Update(ctx, h2o); err != nil {
			return ctrl.Result{}, err
		}
		return ctrl.Result{}, nil
	}

	logger.Error(passErr, "reconcile failed")
	r.Recorder.Event(h2o, corev1.EventTypeWarning, EventReasonFailed, passErr.Error())
	return ctrl.Result{}, passErr
}

// SetupWithManager sets up the controller with the Manager.
func (r *H2OReconciler) SetupWithManager(mgr ctrl.Manager) error {
	if r.orchestrator == nil {
		return ErrNoOrchestrator
	}
	return ctrl.NewControllerManagedBy(mgr).
		For(&h2ov1.H2O{}).
		Owns(&appsv1.StatefulSet{}).
		Owns(&corev1.Service{}).
		Owns(&networkingv1.Ingress{}).
		Complete(r)
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
