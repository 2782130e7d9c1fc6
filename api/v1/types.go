package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// H2OSpec defines the desired state of an H2O cluster: its size, the per-node
// resources and the image every node runs.
type H2OSpec struct {
	// Nodes is the number of H2O nodes. There is exactly one H2O node per pod.
	// +kubebuilder:validation:Minimum=1
	Nodes int32 `json:"nodes"`

	// Version is the tag of the official H2O image. Mutually exclusive with CustomImage.
	// +optional
	Version string `json:"version,omitempty"`

	// Resources allocated to every H2O pod
	Resources Resources `json:"resources"`

	// CustomImage replaces the official image. The user is responsible for the image contents.
	// +optional
	CustomImage *CustomImage `json:"customImage,omitempty"`
}

// Resources allocated by each H2O pod.
// Limits and requests are always set to the same value so that H2O runs are reproducible.
type Resources struct {
	// CPU is the number of virtual CPUs per pod
	// +kubebuilder:validation:Minimum=1
	CPU int32 `json:"cpu"`

	// Memory is a Kubernetes quantity, e.g. 4Gi
	// +kubebuilder:validation:Pattern=`^([+-]?[0-9.]+)([eEinumkKMGTP]*[-+]?[0-9]*)$`
	Memory string `json:"memory"`

	// MemoryPercentage of the container memory the H2O JVM may use. The rest is left
	// for processes such as XGBoost.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=100
	// +optional
	MemoryPercentage *int32 `json:"memoryPercentage,omitempty"`
}

// CustomImage describes a user-provided image with H2O inside.
type CustomImage struct {
	// Image is the full image reference including registry, name and tag
	Image string `json:"image"`

	// Command is run with /bin/bash -c when the container starts. When empty, the
	// image entrypoint is used.
	// +optional
	Command string `json:"command,omitempty"`
}

// ClusterPhase is the overall state of an H2O cluster.
type ClusterPhase string

const (
	// ClusterPhasePending means manifests were submitted but not all nodes are ready
	ClusterPhasePending ClusterPhase = "Pending"
	// ClusterPhaseRunning means every node is ready
	ClusterPhaseRunning ClusterPhase = "Running"
	// ClusterPhaseTerminating means teardown is in progress
	ClusterPhaseTerminating ClusterPhase = "Terminating"
)

// ConditionReady indicates all H2O nodes are ready.
const ConditionReady = "Ready"

// H2OStatus defines the observed state of an H2O cluster.
type H2OStatus struct {
	// Phase is the overall cluster phase
	// +optional
	Phase ClusterPhase `json:"phase,omitempty"`

	// ReadyNodes is the number of H2O pods passing their readiness probe
	// +optional
	ReadyNodes int32 `json:"readyNodes,omitempty"`

	// Conditions represent the latest available observations
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// ObservedGeneration is the last generation the operator acted on
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=h2o
// +kubebuilder:printcolumn:name="Nodes",type=integer,JSONPath=`.spec.nodes`
// +kubebuilder:printcolumn:name="Ready",type=integer,JSONPath=`.status.readyNodes`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// H2O is the Schema for the h2os API.
type H2O struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   H2OSpec   `json:"spec,omitempty"`
	Status H2OStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// H2OList contains a list of H2O.
type H2OList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []H2O `json:"items"`
}
