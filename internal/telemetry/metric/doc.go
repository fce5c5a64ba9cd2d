// Package metric provides Prometheus metrics for devserve.
//
// Metrics are optional and off by default. When enabled they are served
// from a reserved path on the same listener as the static content:
//
//   - prometheus.go: registry, request and TLS metrics, HTTP handler
package metric
