package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	// Reconciliation metrics
	reconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "h2o",
			Subsystem: "operator",
			Name:      "reconcile_total",
			Help:      "Total number of reconciliations by result",
		},
		[]string{"cluster", "result"},
	)

	reconcileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "h2o",
			Subsystem: "operator",
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of reconciliation in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		},
		[]string{"cluster"},
	)

	// Node metrics
	nodesDesired = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "h2o",
			Subsystem: "cluster",
			Name:      "nodes_desired",
			Help:      "Desired number of H2O nodes",
		},
		[]string{"cluster"},
	)

	nodesReady = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "h2o",
			Subsystem: "cluster",
			Name:      "nodes_ready",
			Help:      "Number of H2O nodes passing their readiness probe",
		},
		[]string{"cluster"},
	)

	teardownsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "h2o",
			Subsystem: "cluster",
			Name:      "teardowns_total",
			Help:      "Total number of completed cluster teardowns",
		},
		[]string{"cluster"},
	)
)

func init() {
	// Register metrics with controller-runtime's registry
	metrics.Registry.MustRegister(
		reconcileTotal,
		reconcileDuration,
		nodesDesired,
		nodesReady,
		teardownsTotal,
	)
}

// recordReconcileMetric records a reconciliation result.
func recordReconcileMetric(cluster string, result string, duration float64) {
	reconcileTotal.WithLabelValues(cluster, result).Inc()
	reconcileDuration.WithLabelValues(cluster).Observe(duration)
}

// recordNodeCountsMetric records the node counts for a cluster.
func recordNodeCountsMetric(cluster string, desired, ready int32) {
	nodesDesired.WithLabelValues(cluster).Set(float64(desired))
	nodesReady.WithLabelValues(cluster).Set(float64(ready))
}

// clearNodeCountsMetric drops the gauges of a deleted cluster.
func clearNodeCountsMetric(cluster string) {
	nodesDesired.DeleteLabelValues(cluster)
	nodesReady.DeleteLabelValues(cluster)
}

// recordTeardownMetric records a completed teardown.
func recordTeardownMetric(cluster string) {
	teardownsTotal.WithLabelValues(cluster).Inc()
}

// Metrics helper methods that check enableMetrics before recording.

func (r *H2OReconciler) recordReconcile(cluster, result string, duration float64) {
	if r.enableMetrics {
		recordReconcileMetric(cluster, result, duration)
	}
}

func (r *H2OReconciler) recordNodeCounts(cluster string, desired, ready int32) {
	if r.enableMetrics {
		recordNodeCountsMetric(cluster, desired, ready)
	}
}

func (r *H2OReconciler) clearNodeCounts(cluster string) {
	if r.enableMetrics {
		clearNodeCountsMetric(cluster)
	}
}

func (r *H2OReconciler) recordTeardown(cluster string) {
	if r.enableMetrics {
		recordTeardownMetric(cluster)
	}
}
