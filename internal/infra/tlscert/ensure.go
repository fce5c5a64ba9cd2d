package tlscert

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrDisabled is the reason reported when TLS is turned off in configuration.
var ErrDisabled = errors.New("tlscert: tls disabled by configuration")

// Status is the outcome of Ensure.
type Status int

const (
	// StatusExisting means both files were already present and were reused.
	StatusExisting Status = iota
	// StatusGenerated means a new pair was written by the provider.
	StatusGenerated
	// StatusUnavailable means no usable pair exists; serve plaintext.
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusExisting:
		return "existing"
	case StatusGenerated:
		return "generated"
	default:
		return "unavailable"
	}
}

// Result reports whether a certificate pair is ready and, if not, why.
type Result struct {
	Status Status
	Reason error
}

// Ready reports whether a certificate pair is present on disk.
func (r Result) Ready() bool {
	return r.Status != StatusUnavailable
}

// Unavailable builds a Result for a pair that cannot be used.
func Unavailable(reason error) Result {
	return Result{Status: StatusUnavailable, Reason: reason}
}

// Ensure makes sure a certificate and key exist.
//
// Existing files are reused without any validation. Otherwise the provider
// is probed and asked to generate a pair. Provider failures are returned in
// Result.Reason; Ensure never fails hard.
func Ensure(ctx context.Context, p Provider, req Request) Result {
	if exists(req.CertFile) && exists(req.KeyFile) {
		return Result{Status: StatusExisting}
	}

	if err := p.Probe(ctx); err != nil {
		return Unavailable(err)
	}

	if err := p.Generate(ctx, req); err != nil {
		return Unavailable(err)
	}

	if !exists(req.CertFile) || !exists(req.KeyFile) {
		return Unavailable(fmt.Errorf("%w: %s or %s not written", ErrGenerateFailed, req.CertFile, req.KeyFile))
	}

	return Result{Status: StatusGenerated}
}

// InstallHints returns operator instructions for installing openssl.
func InstallHints() []string {
	return []string{
		"To enable HTTPS, install OpenSSL first:",
		"  Windows: download from https://slproweb.com/products/Win32OpenSSL.html",
		"  Linux:   sudo apt-get install openssl or sudo yum install openssl",
		"  macOS:   brew install openssl",
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
