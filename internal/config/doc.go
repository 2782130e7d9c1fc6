// Package config holds the tunable settings shared by the h2ok CLI and the
// operator: wait timeouts, retry settings and deployment defaults.
//
// Timeouts are read from H2OK_* environment variables by [LoadTimeouts];
// invalid or missing values fall back to the defaults.
package config
