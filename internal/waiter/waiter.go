// Package waiter blocks until a Kubernetes object satisfies a condition.
//
// A waiter first reads the object once, which returns immediately when the
// condition already holds, and otherwise opens a watch restricted to the
// object's name. The watch carries both a server-side timeout and a
// context deadline, so the wait ends on time even if the server never
// closes the stream.
package waiter

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/watch"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/h2oai/h2o-kubernetes/internal/platform"
)

// TimeoutError is returned when the condition did not hold in time.
type TimeoutError struct {
	Resource string
	Elapsed  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s", e.Elapsed.Round(time.Millisecond), e.Resource)
}

// Condition reports whether obj is in the desired state.
type Condition[T client.Object] func(obj T) bool

// For waits until the object named by obj satisfies cond or timeout
// elapses. list must be the list type matching obj; it scopes the watch.
// On success obj holds the latest observed state.
func For[T client.Object](ctx context.Context, c *platform.Client, obj T, list client.ObjectList, cond Condition[T], timeout time.Duration) error {
	resource := describe(c, obj)
	logger := log.FromContext(ctx).WithValues("resource", resource)
	start := time.Now()

	found, err := c.Get(ctx, obj)
	if err != nil {
		return err
	}
	if found && cond(obj) {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	seconds := serverTimeout(timeout)
	opts := []client.ListOption{
		client.MatchingFields{"metadata.name": obj.GetName()},
		&client.ListOptions{Raw: &metav1.ListOptions{TimeoutSeconds: &seconds}},
	}
	if ns := obj.GetNamespace(); ns != "" {
		opts = append(opts, client.InNamespace(ns))
	}

	w, err := c.Watch(ctx, list, opts...)
	if err != nil {
		return err
	}
	defer w.Stop()

	logger.V(1).Info("waiting", "timeout", timeout)

	// The object may have changed between the read and the watch.
	if found, err := c.Get(ctx, obj); err == nil && found && cond(obj) {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return &TimeoutError{Resource: resource, Elapsed: time.Since(start)}
			}
			return ctx.Err()
		case ev, ok := <-w.ResultChan():
			if !ok {
				if err := ctx.Err(); err != nil && err != context.DeadlineExceeded {
					return err
				}
				return &TimeoutError{Resource: resource, Elapsed: time.Since(start)}
			}
			switch ev.Type {
			case watch.Error:
				return &platform.Error{
					Op:   "watch",
					Kind: c.KindOf(obj),
					Name: obj.GetName(),
					Err:  apierrors.FromObject(ev.Object),
				}
			case watch.Added, watch.Modified:
				got, ok := ev.Object.(T)
				if !ok || got.GetName() != obj.GetName() {
					continue
				}
				if cond(got) {
					copyInto(obj, got)
					return nil
				}
			case watch.Deleted:
				logger.V(1).Info("object deleted while waiting")
			}
		}
	}
}

// serverTimeout converts timeout to whole seconds for the watch request,
// rounding up so the server never closes the stream before the deadline.
func serverTimeout(timeout time.Duration) int64 {
	seconds := int64(math.Ceil(timeout.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

func describe(c *platform.Client, obj client.Object) string {
	name := obj.GetName()
	if ns := obj.GetNamespace(); ns != "" {
		name = ns + "/" + name
	}
	return c.KindOf(obj) + " " + name
}

// copyInto overwrites *dst with *src. Both are pointers to the same struct type.
func copyInto[T client.Object](dst, src T) {
	reflect.ValueOf(dst).Elem().Set(reflect.ValueOf(src).Elem())
}
