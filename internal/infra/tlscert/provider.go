package tlscert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
)

var (
	// ErrToolUnavailable is returned when the certificate tool cannot be run.
	ErrToolUnavailable = errors.New("tlscert: certificate tool unavailable")

	// ErrGenerateFailed is returned when the tool ran but did not produce a pair.
	ErrGenerateFailed = errors.New("tlscert: certificate generation failed")
)

// Request describes the certificate to generate.
type Request struct {
	CertFile string
	KeyFile  string
	Subject  string
	KeyBits  int
	Days     int
}

// Provider generates self-signed certificates.
type Provider interface {
	// Probe reports whether the provider can generate certificates.
	Probe(ctx context.Context) error

	// Generate writes a new certificate and unencrypted key to the
	// files named in req.
	Generate(ctx context.Context, req Request) error
}

// OpenSSL generates certificates by running an openssl-compatible binary.
// Success and failure are judged by exit status only; output is discarded
// unless Stdout or Stderr are set.
type OpenSSL struct {
	Path   string
	Stdout io.Writer
	Stderr io.Writer
}

// NewOpenSSL returns a provider running the binary at path ("openssl" when empty).
func NewOpenSSL(path string) *OpenSSL {
	if path == "" {
		path = "openssl"
	}
	return &OpenSSL{Path: path}
}

// Probe runs "openssl version".
func (o *OpenSSL) Probe(ctx context.Context) error {
	if err := o.command(ctx, "version").Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrToolUnavailable, o.Path, err)
	}
	return nil
}

// Generate runs "openssl req -x509" with the arguments from Args.
func (o *OpenSSL) Generate(ctx context.Context, req Request) error {
	if err := o.command(ctx, Args(req)...).Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrGenerateFailed, o.Path, err)
	}
	return nil
}

func (o *OpenSSL) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, o.Path, args...)
	cmd.Stdout = o.Stdout
	cmd.Stderr = o.Stderr
	return cmd
}

// Args returns the openssl arguments for a self-signed RSA certificate
// without a passphrase.
func Args(req Request) []string {
	return []string{
		"req", "-x509",
		"-newkey", "rsa:" + strconv.Itoa(req.KeyBits),
		"-keyout", req.KeyFile,
		"-out", req.CertFile,
		"-days", strconv.Itoa(req.Days),
		"-nodes",
		"-subj", req.Subject,
	}
}
