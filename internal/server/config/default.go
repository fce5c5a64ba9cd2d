package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default configuration values. DefaultRoot, DefaultCertFile and
// DefaultKeyFile are relative to the install directory (see DefaultAt).
const (
	DefaultPort              = 8443
	DefaultRoot              = "web"
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second

	DefaultCertFile = "cert.pem"
	DefaultKeyFile  = "key.pem"
	DefaultTool     = "openssl"
	DefaultKeyBits  = 4096
	DefaultDays     = 365
	DefaultSubject  = "/C=TW/ST=Taiwan/L=Taipei/O=Web-DYUSBKVM/CN=localhost"

	DefaultMetricsPath = "/_devserve/metrics"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default configuration with unanchored paths.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Port:              DefaultPort,
			Root:              DefaultRoot,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			ShutdownTimeout:   DefaultShutdownTimeout,
		},
		TLS: TLSSection{
			Enabled:  true,
			CertFile: DefaultCertFile,
			KeyFile:  DefaultKeyFile,
			Tool:     DefaultTool,
			KeyBits:  DefaultKeyBits,
			Days:     DefaultDays,
			Subject:  DefaultSubject,
			Reload:   true,
		},
		Browser: BrowserSection{
			Open: true,
		},
		Metrics: MetricsSection{
			Path: DefaultMetricsPath,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultAt returns the default configuration with the content directory
// and the certificate pair placed under dir.
func DefaultAt(dir string) *ServerConfig {
	cfg := Default()
	cfg.Server.Root = filepath.Join(dir, DefaultRoot)
	cfg.TLS.CertFile = filepath.Join(dir, DefaultCertFile)
	cfg.TLS.KeyFile = filepath.Join(dir, DefaultKeyFile)
	return cfg
}

// InstallDir returns the directory holding the running executable, with
// symlinks resolved.
func InstallDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
