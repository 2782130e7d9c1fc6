// Package controller implements the Kubernetes controller for H2O custom
// resources.
//
// Every reconcile runs one orchestrator pass: a resource being deleted has
// its StatefulSet, Service and Ingress removed before the finalizer is
// released; any other resource gets its generated objects submitted again.
// The controller then reports the number of ready H2O nodes in the status.
package controller
