package platform

import (
	"context"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"

	"github.com/h2oai/h2o-kubernetes/internal/config"
)

// owner marks every write as made by h2o-kubernetes.
var owner = client.FieldOwner(config.FieldManager)

// Client performs get/create/replace/delete/watch against the API server.
// It holds no cache: every call is a round trip.
type Client struct {
	kube      client.WithWatch
	namespace string
}

// NewClient wraps an existing controller-runtime client. namespace is the
// namespace used when a cluster identity does not name one.
func NewClient(kube client.WithWatch, namespace string) *Client {
	if namespace == "" {
		namespace = "default"
	}
	return &Client{kube: kube, namespace: namespace}
}

// Namespace returns the configured default namespace.
func (c *Client) Namespace() string {
	return c.namespace
}

// Scheme returns the scheme used to encode and decode objects.
func (c *Client) Scheme() *runtime.Scheme {
	return c.kube.Scheme()
}

// Get reads the object identified by obj's name and namespace into obj.
// A missing object is reported as found=false with a nil error.
func (c *Client) Get(ctx context.Context, obj client.Object) (bool, error) {
	if err := c.kube.Get(ctx, client.ObjectKeyFromObject(obj), obj); err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, c.wrap("get", obj, err)
	}
	return true, nil
}

// Create submits a new object.
func (c *Client) Create(ctx context.Context, obj client.Object) error {
	if err := c.kube.Create(ctx, obj, owner); err != nil {
		return c.wrap("create", obj, err)
	}
	return nil
}

// Replace overwrites the stored object with obj. obj must carry the
// resourceVersion of the object it replaces.
func (c *Client) Replace(ctx context.Context, obj client.Object) error {
	if err := c.kube.Update(ctx, obj, owner); err != nil {
		return c.wrap("replace", obj, err)
	}
	return nil
}

// UpdateStatus writes the status subresource of obj.
func (c *Client) UpdateStatus(ctx context.Context, obj client.Object) error {
	if err := c.kube.Status().Update(ctx, obj, owner); err != nil {
		return c.wrap("update status of", obj, err)
	}
	return nil
}

// Delete removes obj with background propagation. Use IsNotFound on the
// returned error to detect objects that were already gone.
func (c *Client) Delete(ctx context.Context, obj client.Object) error {
	if err := c.kube.Delete(ctx, obj, client.PropagationPolicy("Background")); err != nil {
		return c.wrap("delete", obj, err)
	}
	return nil
}

// Watch opens a change-notification stream for the objects matched by opts.
func (c *Client) Watch(ctx context.Context, list client.ObjectList, opts ...client.ListOption) (watch.Interface, error) {
	w, err := c.kube.Watch(ctx, list, opts...)
	if err != nil {
		return nil, c.wrap("watch", list, err)
	}
	return w, nil
}

func (c *Client) wrap(op string, obj runtime.Object, err error) error {
	name := ""
	if o, ok := obj.(client.Object); ok {
		name = o.GetName()
		if ns := o.GetNamespace(); ns != "" && name != "" {
			name = ns + "/" + name
		}
	}
	return &Error{Op: op, Kind: c.KindOf(obj), Name: name, Err: err}
}

// KindOf returns the kind registered for obj, or its Go type when the
// scheme does not know it. List kinds are reported as their item kind.
func (c *Client) KindOf(obj runtime.Object) string {
	gvk, err := apiutil.GVKForObject(obj, c.kube.Scheme())
	if err != nil {
		return fmt.Sprintf("%T", obj)
	}
	return strings.TrimSuffix(gvk.Kind, "List")
}
