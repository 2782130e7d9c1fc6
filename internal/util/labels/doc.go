// Package labels provides consistent labeling for the objects generated for
// an H2O cluster.
//
// The "app" label doubles as the pod selector of the StatefulSet and the
// Service, so it must never change for an existing cluster.
package labels
