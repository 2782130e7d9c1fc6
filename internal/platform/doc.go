// Package platform is the transport between h2o-kubernetes and the
// Kubernetes API server.
//
// [Client] offers the handful of operations the reconciliation core needs
// (get, create, replace, delete and watch) on top of a controller-runtime
// client. Every fault coming back from the API server is wrapped in an
// [*Error] so callers can tell transport failures apart from validation
// errors and timeouts. Retrying is left to the caller.
package platform
