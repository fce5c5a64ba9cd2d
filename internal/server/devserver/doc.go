// Package devserver bootstraps the local development server.
//
// A run goes through the states
//
//	Init -> CertReady | CertUnavailable -> ServingTLS | ServingPlain -> Stopped
//
// Only a missing content directory and a failed bind stop the run. Every
// certificate or TLS problem degrades to plaintext HTTP with a warning, and a
// browser that cannot be opened is reported with the URL to open by hand.
//
// Side effects sit behind tlscert.Provider and browser.Opener so tests can
// replace them.
package devserver

//go:generate mockgen -destination mock/provider.go -package mock_devserver github.com/yndnr/devserve/internal/infra/tlscert Provider
//go:generate mockgen -destination mock/opener.go -package mock_devserver github.com/yndnr/devserve/internal/infra/browser Opener
