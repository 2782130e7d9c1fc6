package crd

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/log"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/platform"
	"github.com/h2oai/h2o-kubernetes/internal/waiter"
)

// State is the installation state of the schema as seen by one Registrar.
// It is not persisted.
type State int32

const (
	StateAbsent State = iota
	StateInstalling
	StateNamesAccepted
	StateTimedOut
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "Absent"
	case StateInstalling:
		return "Installing"
	case StateNamesAccepted:
		return "NamesAccepted"
	case StateTimedOut:
		return "TimedOut"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// RegistrationError is returned when the schema could not be installed,
// removed or observed as ready.
type RegistrationError struct {
	Op  string
	Err error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, h2ov1.ResourceName, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// Registrar installs, removes and inspects the H2O schema.
type Registrar struct {
	client *platform.Client
	state  atomic.Int32
}

// NewRegistrar returns a Registrar talking through c.
func NewRegistrar(c *platform.Client) *Registrar {
	return &Registrar{client: c}
}

// State returns the last state this Registrar observed.
func (r *Registrar) State() State {
	return State(r.state.Load())
}

func (r *Registrar) setState(s State) {
	r.state.Store(int32(s))
}

// Install submits the schema. A schema that already exists is left untouched.
// Install does not wait for the API server to accept it; see AwaitReady.
func (r *Registrar) Install(ctx context.Context) error {
	r.setState(StateInstalling)
	if err := r.client.Create(ctx, Definition()); err != nil {
		if platform.IsAlreadyExists(err) {
			log.FromContext(ctx).V(1).Info("schema already present", "crd", h2ov1.ResourceName)
			return nil
		}
		r.setState(StateFailed)
		return &RegistrationError{Op: "install", Err: err}
	}
	log.FromContext(ctx).Info("installed schema", "crd", h2ov1.ResourceName)
	return nil
}

// Uninstall removes the schema. The API server deletes every H2O resource
// with it. A schema that does not exist is not an error.
func (r *Registrar) Uninstall(ctx context.Context) error {
	err := r.client.Delete(ctx, &apiextensionsv1.CustomResourceDefinition{
		ObjectMeta: metav1.ObjectMeta{Name: h2ov1.ResourceName},
	})
	if err != nil && !platform.IsNotFound(err) {
		return &RegistrationError{Op: "uninstall", Err: err}
	}
	r.setState(StateAbsent)
	return nil
}

// IsInstalled reports whether the schema exists. Transport faults count as
// not installed.
func (r *Registrar) IsInstalled(ctx context.Context) bool {
	found, err := r.client.Get(ctx, &apiextensionsv1.CustomResourceDefinition{
		ObjectMeta: metav1.ObjectMeta{Name: h2ov1.ResourceName},
	})
	if err != nil {
		log.FromContext(ctx).V(1).Info("schema lookup failed", "error", err.Error())
		return false
	}
	return found
}

// AwaitReady returns once the schema is usable. An installed schema returns
// immediately without opening a watch; otherwise it waits for the API server
// to report the NamesAccepted condition.
func (r *Registrar) AwaitReady(ctx context.Context, timeout time.Duration) error {
	if r.IsInstalled(ctx) {
		r.setState(StateNamesAccepted)
		return nil
	}
	return r.awaitNamesAccepted(ctx, timeout)
}

// EnsureInstalled installs the schema when absent and waits until its names
// are accepted.
func (r *Registrar) EnsureInstalled(ctx context.Context, timeout time.Duration) error {
	if r.IsInstalled(ctx) {
		r.setState(StateNamesAccepted)
		return nil
	}
	if err := r.Install(ctx); err != nil {
		return err
	}
	// The schema exists now, so the IsInstalled shortcut would always pass.
	return r.awaitNamesAccepted(ctx, timeout)
}

func (r *Registrar) awaitNamesAccepted(ctx context.Context, timeout time.Duration) error {
	obj := &apiextensionsv1.CustomResourceDefinition{
		ObjectMeta: metav1.ObjectMeta{Name: h2ov1.ResourceName},
	}
	err := waiter.For(ctx, r.client, obj, &apiextensionsv1.CustomResourceDefinitionList{}, NamesAccepted, timeout)
	if err != nil {
		var tErr *waiter.TimeoutError
		if errors.As(err, &tErr) {
			r.setState(StateTimedOut)
		} else {
			r.setState(StateFailed)
		}
		return &RegistrationError{Op: "await readiness of", Err: err}
	}
	r.setState(StateNamesAccepted)
	return nil
}

// NamesAccepted holds once the API server reports the NamesAccepted
// condition as true.
func NamesAccepted(crd *apiextensionsv1.CustomResourceDefinition) bool {
	for _, cond := range crd.Status.Conditions {
		if cond.Type == apiextensionsv1.NamesAccepted {
			return cond.Status == apiextensionsv1.ConditionTrue
		}
	}
	return false
}
