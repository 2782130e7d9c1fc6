// Package naming provides consistent naming functions for the objects
// generated for an H2O cluster.
//
// Every object name is derived from the cluster name with a fixed suffix:
// {cluster}-stateful-set, {cluster}-service and {cluster}-ingress. Nothing
// else is needed to find the objects again during teardown.
package naming
