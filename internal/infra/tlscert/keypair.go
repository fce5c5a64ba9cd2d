package tlscert

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrNoCertFound is returned when a PEM file holds no CERTIFICATE block.
var ErrNoCertFound = errors.New("tlscert: no certificate found in PEM file")

// LoadKeyPair loads a PEM certificate and key.
func LoadKeyPair(certFile, keyFile string) (*tls.Certificate, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("tlscert: load key pair: %w", err)
	}
	return &cert, nil
}

// Inspect parses the first certificate in a PEM file.
func Inspect(certFile string) (*x509.Certificate, error) {
	data, err := os.ReadFile(certFile)
	if err != nil {
		return nil, fmt.Errorf("tlscert: read cert file %s: %w", certFile, err)
	}

	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("tlscert: parse certificate: %w", err)
		}
		return cert, nil
	}

	return nil, ErrNoCertFound
}

// Expired reports whether cert is outside its validity window at now.
func Expired(cert *x509.Certificate, now time.Time) bool {
	return now.Before(cert.NotBefore) || now.After(cert.NotAfter)
}

// ServerConfig returns a server TLS config that asks getCert for the
// certificate on every handshake.
func ServerConfig(getCert func(*tls.ClientHelloInfo) (*tls.Certificate, error)) *tls.Config {
	return &tls.Config{
		GetCertificate: getCert,
		MinVersion:     tls.VersionTLS12,
	}
}

// StaticConfig returns a server TLS config for a fixed certificate.
func StaticConfig(cert *tls.Certificate) *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{*cert},
		MinVersion:   tls.VersionTLS12,
	}
}
