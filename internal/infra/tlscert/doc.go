// Package tlscert manages the self-signed development certificate.
//
//   - provider.go: the Provider capability and the openssl implementation
//   - ensure.go: reuse existing files or generate a new pair
//   - keypair.go: key pair loading, inspection, server tls.Config
//   - watcher.go: certificate hot reload via fsnotify
//
// Existing files are always reused as they are. Only a missing certificate
// or key triggers generation; an expired certificate is reported, not replaced.
package tlscert
