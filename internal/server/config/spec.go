package config

import "time"

// ServerConfig is the root configuration for devserve.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	TLS     TLSSection     `koanf:"tls"`
	Browser BrowserSection `koanf:"browser"`
	Metrics MetricsSection `koanf:"metrics"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the listener and the content root.
type ServerSection struct {
	// Host is the bind host. Empty binds all interfaces.
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// Root is the content directory served as static files.
	Root string `koanf:"root"`

	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`

	// RateLimit is the per-client request rate (requests/second). 0 disables it.
	RateLimit int `koanf:"rate_limit"`
}

// TLSSection configures the self-signed certificate and the TLS upgrade.
type TLSSection struct {
	Enabled  bool   `koanf:"enabled"`
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`

	// Tool is the certificate generation command (openssl compatible).
	Tool    string `koanf:"tool"`
	KeyBits int    `koanf:"key_bits"`
	Days    int    `koanf:"days"`
	Subject string `koanf:"subject"`

	// Reload watches the cert/key files and swaps the served certificate on change.
	Reload bool `koanf:"reload"`
}

// BrowserSection configures the browser launch after startup.
type BrowserSection struct {
	Open bool `koanf:"open"`
}

// MetricsSection configures the optional Prometheus endpoint.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
