package naming

import "fmt"

func StatefulSet(cluster string) string {
	return fmt.Sprintf("%s-stateful-set", cluster)
}

func Service(cluster string) string {
	return fmt.Sprintf("%s-service", cluster)
}

func Ingress(cluster string) string {
	return fmt.Sprintf("%s-ingress", cluster)
}

// ServiceDNS is the in-cluster DNS name H2O nodes resolve to find their peers.
func ServiceDNS(cluster, namespace string) string {
	return fmt.Sprintf("%s.%s.svc.cluster.local", Service(cluster), namespace)
}

// IngressPath is the path the cluster is reachable on through the ingress.
func IngressPath(cluster string) string {
	return "/" + cluster
}
