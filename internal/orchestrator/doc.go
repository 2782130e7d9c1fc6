// Package orchestrator drives H2O clusters towards the state their H2O
// resource describes.
//
// One pass reads the H2O resource, asks the lifecycle guard whether the
// cluster is being deleted and then either submits the generated objects or
// removes them and releases the finalizer. The API server is the only source
// of truth: nothing is cached between passes, so passes for different
// clusters can run concurrently.
package orchestrator
