// Package cluster holds the identity of an H2O cluster deployment: its name,
// the namespace it lives in and how a name is generated when the user does
// not provide one.
package cluster

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/validation"
)

const (
	// namePrefix is prepended to generated cluster names.
	namePrefix = "h2o-"

	// MaxNameLength keeps derived names such as the StatefulSet revision
	// label within the 63 character limit.
	MaxNameLength = 40
)

// Identity names one H2O cluster. Every object generated for the cluster is
// derived from it.
type Identity struct {
	Name      string
	Namespace string
}

// NewIdentity validates name and returns an Identity. An empty namespace is
// replaced by defaultNamespace, usually the namespace configured for the client.
func NewIdentity(name, namespace, defaultNamespace string) (Identity, error) {
	if errs := validation.IsDNS1035Label(name); len(errs) > 0 {
		return Identity{}, fmt.Errorf("invalid cluster name %q: %s", name, strings.Join(errs, "; "))
	}
	if len(name) > MaxNameLength {
		return Identity{}, fmt.Errorf("invalid cluster name %q: must be no more than %d characters", name, MaxNameLength)
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	if errs := validation.IsDNS1123Label(namespace); len(errs) > 0 {
		return Identity{}, fmt.Errorf("invalid namespace %q: %s", namespace, strings.Join(errs, "; "))
	}
	return Identity{Name: name, Namespace: namespace}, nil
}

// Key returns the namespaced name of the H2O resource.
func (i Identity) Key() types.NamespacedName {
	return types.NamespacedName{Namespace: i.Namespace, Name: i.Name}
}

func (i Identity) String() string {
	return i.Namespace + "/" + i.Name
}

// NameGenerator produces a fresh cluster name. It is called once when a
// deployment request is built.
type NameGenerator func() string

// RandomName returns names such as "h2o-3f9c2a1b".
func RandomName() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return namePrefix + id[:8]
}
