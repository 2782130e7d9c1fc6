package platform

import (
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// Error is a fault reported by the Kubernetes API or the connection to it.
type Error struct {
	Op   string // get, create, replace, delete, watch
	Kind string
	Name string
	Err  error
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s %q: %v", e.Op, e.Kind, e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err says the object does not exist.
func IsNotFound(err error) bool {
	return apierrors.IsNotFound(err)
}

// IsAlreadyExists reports whether err says the object already exists.
func IsAlreadyExists(err error) bool {
	return apierrors.IsAlreadyExists(err)
}

// IsPlatformError reports whether err originates from the transport.
func IsPlatformError(err error) bool {
	var pErr *Error
	return errors.As(err, &pErr)
}
