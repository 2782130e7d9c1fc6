package manifest

import (
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/h2oai/h2o-kubernetes/internal/cluster"
	"github.com/h2oai/h2o-kubernetes/internal/config"
	"github.com/h2oai/h2o-kubernetes/internal/util/labels"
	"github.com/h2oai/h2o-kubernetes/internal/util/naming"
)

// Rewrite annotations understood by the NGINX and Traefik ingress controllers.
const (
	AnnotationNginxRewriteTarget = "nginx.ingress.kubernetes.io/rewrite-target"
	AnnotationTraefikRuleType    = "traefik.frontend.rule.type"
)

// BuildIngress returns an Ingress exposing the cluster on /<name>. The path
// is rewritten to the root before it reaches H2O.
func BuildIngress(id cluster.Identity) *networkingv1.Ingress {
	return &networkingv1.Ingress{
		TypeMeta: metav1.TypeMeta{APIVersion: "networking.k8s.io/v1", Kind: "Ingress"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.Ingress(id.Name),
			Namespace: id.Namespace,
			Labels: labels.NewLabelBuilder(id.Name).
				WithComponent(labels.ComponentIngress).
				Build(),
			Annotations: map[string]string{
				AnnotationNginxRewriteTarget: "/",
				AnnotationTraefikRuleType:    "PathPrefixStrip",
			},
		},
		Spec: networkingv1.IngressSpec{
			Rules: []networkingv1.IngressRule{{
				IngressRuleValue: networkingv1.IngressRuleValue{
					HTTP: &networkingv1.HTTPIngressRuleValue{
						Paths: []networkingv1.HTTPIngressPath{{
							Path:     naming.IngressPath(id.Name),
							PathType: ptr.To(networkingv1.PathTypeExact),
							Backend: networkingv1.IngressBackend{
								Service: &networkingv1.IngressServiceBackend{
									Name: naming.Service(id.Name),
									Port: networkingv1.ServiceBackendPort{Number: config.IngressServicePort},
								},
							},
						}},
					},
				},
			}},
		},
	}
}

// AnyIP returns the last load-balancer IP published for ing, if any.
func AnyIP(ing *networkingv1.Ingress) (string, bool) {
	lbs := ing.Status.LoadBalancer.Ingress
	for i := len(lbs) - 1; i >= 0; i-- {
		if lbs[i].IP != "" {
			return lbs[i].IP, true
		}
	}
	return "", false
}

// AnyPath returns the last HTTP path routed by ing, if any.
func AnyPath(ing *networkingv1.Ingress) (string, bool) {
	rules := ing.Spec.Rules
	if len(rules) == 0 {
		return "", false
	}
	http := rules[len(rules)-1].HTTP
	if http == nil || len(http.Paths) == 0 {
		return "", false
	}
	return http.Paths[len(http.Paths)-1].Path, true
}
