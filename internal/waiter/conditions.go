package waiter

import (
	appsv1 "k8s.io/api/apps/v1"
	networkingv1 "k8s.io/api/networking/v1"
)

// StatefulSetReady holds once every desired replica reports ready and the
// controller has observed the latest generation.
func StatefulSetReady(sts *appsv1.StatefulSet) bool {
	if sts.Status.ObservedGeneration < sts.Generation {
		return false
	}
	want := int32(1)
	if sts.Spec.Replicas != nil {
		want = *sts.Spec.Replicas
	}
	return sts.Status.ReadyReplicas >= want
}

// IngressHasAddress holds once the ingress controller published at least
// one load-balancer address.
func IngressHasAddress(ing *networkingv1.Ingress) bool {
	for _, lb := range ing.Status.LoadBalancer.Ingress {
		if lb.IP != "" || lb.Hostname != "" {
			return true
		}
	}
	return false
}
