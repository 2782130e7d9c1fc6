// Package manifest builds the Kubernetes objects that make up an H2O
// cluster.
//
// Every builder is a pure function of the cluster identity and its
// specification: the same input always yields the same object, and the
// objects are submitted whole, never patched. Builders expect a spec that
// passed [v1.H2OSpec.Validate].
package manifest
