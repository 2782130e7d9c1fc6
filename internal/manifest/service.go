package manifest

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/h2oai/h2o-kubernetes/internal/cluster"
	"github.com/h2oai/h2o-kubernetes/internal/config"
	"github.com/h2oai/h2o-kubernetes/internal/util/labels"
	"github.com/h2oai/h2o-kubernetes/internal/util/naming"
)

// BuildService returns the headless Service H2O nodes use for discovery.
// It also backs the ingress.
func BuildService(id cluster.Identity) *corev1.Service {
	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.Service(id.Name),
			Namespace: id.Namespace,
			Labels: labels.NewLabelBuilder(id.Name).
				WithComponent(labels.ComponentService).
				Build(),
		},
		Spec: corev1.ServiceSpec{
			Type:      corev1.ServiceTypeClusterIP,
			ClusterIP: corev1.ClusterIPNone,
			Selector:  labels.Selector(id.Name),
			Ports: []corev1.ServicePort{{
				Protocol:   corev1.ProtocolTCP,
				Port:       config.IngressServicePort,
				TargetPort: intstr.FromInt32(config.H2OPort),
			}},
		},
	}
}
