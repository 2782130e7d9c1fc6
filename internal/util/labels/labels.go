package labels

// Standard label keys.
const (
	// KeyApp selects the pods of one H2O cluster
	KeyApp = "app"

	// KeyCluster identifies which H2O cluster an object belongs to
	KeyCluster = "h2o.ai/cluster"

	// KeyComponent distinguishes the generated objects of one cluster
	KeyComponent = "app.kubernetes.io/component"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "app.kubernetes.io/managed-by"
)

// Component values
const (
	ComponentWorkload = "workload"
	ComponentService  = "service"
	ComponentIngress  = "ingress"
)

// ManagedBy values
const (
	ManagedByCLI      = "h2ok"
	ManagedByOperator = "h2o-operator"
)

// LabelBuilder provides a fluent interface for building object labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the cluster name pre-set.
func NewLabelBuilder(clusterName string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyCluster:   clusterName,
			KeyManagedBy: ManagedByCLI,
		},
	}
}

// WithComponent adds a component label (e.g., "workload", "ingress").
func (lb *LabelBuilder) WithComponent(component string) *LabelBuilder {
	lb.labels[KeyComponent] = component
	return lb
}

// WithManagedBy sets who manages this object.
func (lb *LabelBuilder) WithManagedBy(manager string) *LabelBuilder {
	lb.labels[KeyManagedBy] = manager
	return lb
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// Selector returns the pod selector for a cluster.
func Selector(clusterName string) map[string]string {
	return map[string]string{KeyApp: clusterName}
}

// SelectorForCluster returns a label selector string for all objects of a cluster.
func SelectorForCluster(clusterName string) string {
	return KeyCluster + "=" + clusterName
}
