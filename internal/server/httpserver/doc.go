// Package httpserver serves the content directory over HTTP or HTTPS.
//
// The server itself is protocol-agnostic: it serves on whatever listener it
// is given, so the caller decides between TLS and plaintext.
//
// Every response passes through the middleware chain built by NewRouter:
//
//   - Recover: panics become 500 responses
//   - StaticHeaders: CORS and browser hardening headers
//   - RequestID: X-Request-ID (ULID) in the response and the log context
//   - AccessLog: one log line per request
//   - Metrics: Prometheus request counters (optional)
//   - RateLimit: per-IP token bucket (optional)
//   - MethodGuard: OPTIONS preflight and 405 for unsupported methods
package httpserver
