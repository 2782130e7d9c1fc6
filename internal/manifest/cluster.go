package manifest

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/cluster"
	"github.com/h2oai/h2o-kubernetes/internal/util/labels"
	"github.com/h2oai/h2o-kubernetes/internal/util/naming"
)

// BuildCluster returns the H2O resource holding spec.
func BuildCluster(id cluster.Identity, spec h2ov1.H2OSpec, managedBy string) *h2ov1.H2O {
	return &h2ov1.H2O{
		TypeMeta: metav1.TypeMeta{
			APIVersion: h2ov1.GroupVersion.String(),
			Kind:       h2ov1.Kind,
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      id.Name,
			Namespace: id.Namespace,
			Labels:    labels.NewLabelBuilder(id.Name).WithManagedBy(managedBy).Build(),
		},
		Spec: *spec.DeepCopy(),
	}
}

// Dependents returns the generated objects of a cluster, in submission order.
func Dependents(id cluster.Identity, spec h2ov1.H2OSpec) []client.Object {
	return []client.Object{
		BuildService(id),
		BuildStatefulSet(id, spec),
		BuildIngress(id),
	}
}

// DependentKeys returns empty objects naming every generated object of a
// cluster, in teardown order. They are enough to delete the objects without
// knowing the cluster's H2OSpec.
func DependentKeys(id cluster.Identity) []client.Object {
	meta := func(name string) metav1.ObjectMeta {
		return metav1.ObjectMeta{Name: name, Namespace: id.Namespace}
	}
	return []client.Object{
		&networkingv1.Ingress{ObjectMeta: meta(naming.Ingress(id.Name))},
		&appsv1.StatefulSet{ObjectMeta: meta(naming.StatefulSet(id.Name))},
		&corev1.Service{ObjectMeta: meta(naming.Service(id.Name))},
	}
}
