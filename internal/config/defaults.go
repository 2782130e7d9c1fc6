package config

// Deployment defaults used when the user does not override them.
const (
	DefaultMemory           = "1Gi"
	DefaultCPUs             = 1
	DefaultMemoryPercentage = 50
	DefaultNodes            = 1
	DefaultVersion          = "latest"
)

// H2O runtime constants baked into every generated workload.
const (
	// ImageRepository hosts the official H2O images, tagged by H2O version.
	ImageRepository = "h2oai/h2o-open-source-k8s"

	// H2OPort is the port H2O serves its REST API and Flow UI on.
	H2OPort = 54321

	// KubernetesAPIPort is the port of the embedded leader-election API.
	KubernetesAPIPort = 8081

	// NodeLookupTimeoutSeconds bounds how long H2O nodes search for peers
	// before forming the cluster.
	NodeLookupTimeoutSeconds = 180

	// IngressServicePort is the service port the ingress routes to.
	IngressServicePort = 80
)

// FieldManager identifies h2ok and the operator as the writer of every object.
const FieldManager = "h2o-kubernetes"
