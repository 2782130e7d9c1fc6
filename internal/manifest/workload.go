package manifest

import (
	"fmt"
	"strconv"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/cluster"
	"github.com/h2oai/h2o-kubernetes/internal/config"
	"github.com/h2oai/h2o-kubernetes/internal/util/labels"
	"github.com/h2oai/h2o-kubernetes/internal/util/naming"
)

// Environment variables read by the H2O Kubernetes extension.
const (
	EnvServiceDNS        = "H2O_KUBERNETES_SERVICE_DNS"
	EnvNodeLookupTimeout = "H2O_NODE_LOOKUP_TIMEOUT"
	EnvNodeExpectedCount = "H2O_NODE_EXPECTED_COUNT"
	EnvKubernetesAPIPort = "H2O_KUBERNETES_API_PORT"
)

const readinessPath = "/kubernetes/isLeaderNode"

// BuildStatefulSet returns the StatefulSet running one H2O node per pod.
func BuildStatefulSet(id cluster.Identity, spec h2ov1.H2OSpec) *appsv1.StatefulSet {
	selector := labels.Selector(id.Name)
	objectLabels := labels.NewLabelBuilder(id.Name).
		WithComponent(labels.ComponentWorkload).
		Merge(selector).
		Build()

	return &appsv1.StatefulSet{
		TypeMeta: metav1.TypeMeta{APIVersion: "apps/v1", Kind: "StatefulSet"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.StatefulSet(id.Name),
			Namespace: id.Namespace,
			Labels:    objectLabels,
		},
		Spec: appsv1.StatefulSetSpec{
			ServiceName:         naming.Service(id.Name),
			PodManagementPolicy: appsv1.ParallelPodManagement,
			Replicas:            ptr.To(spec.Nodes),
			Selector:            &metav1.LabelSelector{MatchLabels: selector},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: objectLabels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{h2oContainer(id, spec)},
				},
			},
		},
	}
}

func h2oContainer(id cluster.Identity, spec h2ov1.H2OSpec) corev1.Container {
	image, command := imageAndCommand(spec)
	return corev1.Container{
		Name:    id.Name,
		Image:   image,
		Command: command,
		Ports: []corev1.ContainerPort{{
			ContainerPort: config.H2OPort,
			Protocol:      corev1.ProtocolTCP,
		}},
		ReadinessProbe: &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				HTTPGet: &corev1.HTTPGetAction{
					Path: readinessPath,
					Port: intstr.FromInt32(config.KubernetesAPIPort),
				},
			},
			InitialDelaySeconds: 5,
			PeriodSeconds:       5,
			FailureThreshold:    1,
		},
		Resources: resourceRequirements(spec.Resources),
		Env: []corev1.EnvVar{
			{Name: EnvServiceDNS, Value: naming.ServiceDNS(id.Name, id.Namespace)},
			{Name: EnvNodeLookupTimeout, Value: strconv.Itoa(config.NodeLookupTimeoutSeconds)},
			{Name: EnvNodeExpectedCount, Value: strconv.Itoa(int(spec.Nodes))},
			{Name: EnvKubernetesAPIPort, Value: strconv.Itoa(config.KubernetesAPIPort)},
		},
	}
}

// resourceRequirements sets limits and requests to the same quantities.
func resourceRequirements(res h2ov1.Resources) corev1.ResourceRequirements {
	list := func() corev1.ResourceList {
		return corev1.ResourceList{
			corev1.ResourceCPU:    *resource.NewQuantity(int64(res.CPU), resource.DecimalSI),
			corev1.ResourceMemory: resource.MustParse(res.Memory),
		}
	}
	return corev1.ResourceRequirements{Limits: list(), Requests: list()}
}

func imageAndCommand(spec h2ov1.H2OSpec) (string, []string) {
	if spec.CustomImage != nil {
		if spec.CustomImage.Command == "" {
			return spec.CustomImage.Image, nil
		}
		return spec.CustomImage.Image, []string{"/bin/bash", "-c", spec.CustomImage.Command}
	}

	percentage := int32(config.DefaultMemoryPercentage)
	if spec.Resources.MemoryPercentage != nil {
		percentage = *spec.Resources.MemoryPercentage
	}
	java := fmt.Sprintf("java -XX:+UseContainerSupport -XX:MaxRAMPercentage=%d -jar /opt/h2oai/h2o-3/h2o.jar", percentage)
	return config.ImageRepository + ":" + spec.Version, []string{"/bin/bash", "-c", java}
}
