package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	SchemaReady       time.Duration // Wait for the H2O CRD names to be accepted
	ClusterReady      time.Duration // Wait for every H2O node to pass its readiness probe
	IngressReady      time.Duration // Wait for the ingress to receive an address
	RetryMaxAttempts  int           // Maximum number of attempts for a reconciliation pass
	RetryInitialDelay time.Duration // Initial delay between attempts
	RequeueInterval   time.Duration // Operator resync interval for healthy clusters
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - H2OK_TIMEOUT_SCHEMA_READY (default: 30s)
//   - H2OK_TIMEOUT_CLUSTER_READY (default: 10m)
//   - H2OK_TIMEOUT_INGRESS_READY (default: 5m)
//   - H2OK_RETRY_MAX_ATTEMPTS (default: 3)
//   - H2OK_RETRY_INITIAL_DELAY (default: 1s)
//   - H2OK_REQUEUE_INTERVAL (default: 30s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		SchemaReady:       parseDuration("H2OK_TIMEOUT_SCHEMA_READY", 30*time.Second),
		ClusterReady:      parseDuration("H2OK_TIMEOUT_CLUSTER_READY", 10*time.Minute),
		IngressReady:      parseDuration("H2OK_TIMEOUT_INGRESS_READY", 5*time.Minute),
		RetryMaxAttempts:  parseInt("H2OK_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay: parseDuration("H2OK_RETRY_INITIAL_DELAY", 1*time.Second),
		RequeueInterval:   parseDuration("H2OK_REQUEUE_INTERVAL", 30*time.Second),
	}
}

// parseDuration parses a positive duration from an environment variable.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}

// parseInt parses a positive integer from an environment variable.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i <= 0 {
		return defaultVal
	}

	return i
}
