package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every error returned from Verify.
var ErrInvalidConfig = errors.New("invalid configuration")

// Verify validates the configuration.
//
// It only checks values, not the filesystem: a missing content directory is
// reported by the bootstrapper so that it is classified with its own error.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyTLS(&cfg.TLS); err != nil {
		return err
	}
	if err := verifyMetrics(&cfg.Metrics); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return invalid("server.port %d out of range 0-65535", cfg.Port)
	}
	if strings.TrimSpace(cfg.Root) == "" {
		return invalid("server.root is required")
	}
	if cfg.RateLimit < 0 {
		return invalid("server.rate_limit must not be negative")
	}
	if cfg.ShutdownTimeout < 0 {
		return invalid("server.shutdown_timeout must not be negative")
	}
	return nil
}

func verifyTLS(cfg *TLSSection) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.CertFile == "" || cfg.KeyFile == "" {
		return invalid("tls.cert_file and tls.key_file are both required when tls is enabled")
	}
	if cfg.CertFile == cfg.KeyFile {
		return invalid("tls.cert_file and tls.key_file must differ")
	}
	if cfg.Tool == "" {
		return invalid("tls.tool is required when tls is enabled")
	}
	if cfg.KeyBits <= 0 {
		return invalid("tls.key_bits must be positive")
	}
	if cfg.Days <= 0 {
		return invalid("tls.days must be positive")
	}
	return nil
}

func verifyMetrics(cfg *MetricsSection) error {
	if cfg.Enabled && !strings.HasPrefix(cfg.Path, "/") {
		return invalid("metrics.path %q must start with /", cfg.Path)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Format) {
	case "", "text", "console", "json":
		return nil
	default:
		return invalid("log.format %q must be text or json", cfg.Format)
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
