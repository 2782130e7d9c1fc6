package orchestrator

import (
	"fmt"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/cluster"
)

// Action selects what a Request does.
type Action string

const (
	ActionApply    Action = "apply"
	ActionTeardown Action = "teardown"
)

// Request is a validated deployment request.
type Request struct {
	Identity cluster.Identity
	Spec     h2ov1.H2OSpec
	Action   Action
}

// NewApplyRequest validates spec and builds an apply request. An empty name
// is replaced by one from gen, which is called at most once.
func NewApplyRequest(gen cluster.NameGenerator, name, namespace, defaultNamespace string, spec h2ov1.H2OSpec) (Request, error) {
	if name == "" {
		if gen == nil {
			return Request{}, fmt.Errorf("cluster name is required")
		}
		name = gen()
	}
	id, err := cluster.NewIdentity(name, namespace, defaultNamespace)
	if err != nil {
		return Request{}, err
	}
	if err := spec.Validate(); err != nil {
		return Request{}, err
	}
	return Request{Identity: id, Spec: spec, Action: ActionApply}, nil
}

// NewTeardownRequest builds a teardown request. No spec is needed.
func NewTeardownRequest(id cluster.Identity) Request {
	return Request{Identity: id, Action: ActionTeardown}
}
