// Package v1 contains API Schema definitions for the h2o.ai v1 API group
// +kubebuilder:object:generate=true
// +groupName=h2o.ai
package v1

import (
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/scheme"
)

var (
	// GroupVersion is group version used to register these objects
	GroupVersion = schema.GroupVersion{Group: "h2o.ai", Version: "v1"}

	// SchemeBuilder is used to add go types to the GroupVersionKind scheme
	SchemeBuilder = &scheme.Builder{GroupVersion: GroupVersion}

	// AddToScheme adds the types in this group-version to the given scheme
	AddToScheme = SchemeBuilder.AddToScheme

	// Scheme is the runtime scheme containing the registered types
	Scheme = runtime.NewScheme()
)

const (
	// Kind is the kind of the H2O custom resource.
	Kind = "H2O"
	// Plural is the resource name used in API paths.
	Plural = "h2os"
	// Singular is the singular resource name.
	Singular = "h2o"
	// ShortName is the kubectl short name.
	ShortName = "h2o"
)

// ResourceName is the name of the CustomResourceDefinition for H2O clusters.
var ResourceName = Plural + "." + GroupVersion.Group

func init() {
	SchemeBuilder.Register(&H2O{}, &H2OList{})

	// Add core Kubernetes types to the Scheme (for StatefulSet, Service, Ingress)
	_ = clientgoscheme.AddToScheme(Scheme)

	// CustomResourceDefinitions, so the H2O schema can be registered with the same client
	_ = apiextensionsv1.AddToScheme(Scheme)

	_ = AddToScheme(Scheme)
}
