// Package lifecycle decides, from a fetched H2O resource, whether its
// cluster should be applied or torn down.
//
// The finalizer is the guard: while it is present the API server keeps the
// resource around, so the generated objects can be removed before the
// resource itself disappears.
package lifecycle

import (
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
)

// FinalizerName is the finalizer owned by h2o-kubernetes.
const FinalizerName = "h2o.ai/finalizer"

// State of an H2O resource with respect to teardown.
type State int

const (
	// Fresh resources were never reconciled and carry no finalizer.
	Fresh State = iota
	// Active resources carry the finalizer and are not being deleted.
	Active
	// Terminating resources are being deleted and still carry the finalizer.
	Terminating
	// Released resources are being deleted and no longer carry the finalizer.
	Released
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "Fresh"
	case Active:
		return "Active"
	case Terminating:
		return "Terminating"
	case Released:
		return "Released"
	default:
		return "Unknown"
	}
}

// HasDeletionIntent reports whether a delete was requested for obj.
func HasDeletionIntent(obj client.Object) bool {
	return !obj.GetDeletionTimestamp().IsZero()
}

// OwnsFinalizer reports whether obj carries FinalizerName.
func OwnsFinalizer(obj client.Object) bool {
	return controllerutil.ContainsFinalizer(obj, FinalizerName)
}

// StateOf classifies obj.
func StateOf(obj client.Object) State {
	deleting := HasDeletionIntent(obj)
	owned := OwnsFinalizer(obj)
	switch {
	case deleting && owned:
		return Terminating
	case deleting:
		return Released
	case owned:
		return Active
	default:
		return Fresh
	}
}

// Claim adds FinalizerName to obj and reports whether obj changed.
func Claim(obj client.Object) bool {
	return controllerutil.AddFinalizer(obj, FinalizerName)
}

// Release removes FinalizerName from obj and reports whether obj changed.
func Release(obj client.Object) bool {
	return controllerutil.RemoveFinalizer(obj, FinalizerName)
}
