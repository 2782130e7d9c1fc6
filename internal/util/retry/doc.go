// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] re-runs a whole operation, such as one
// deployment pass, while it fails with retryable errors. Errors wrapped with
// [Fatal] stop the loop at once: invalid specifications and timeouts are
// never retried by h2ok.
package retry
