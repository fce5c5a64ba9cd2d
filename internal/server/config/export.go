package config

// Map returns the configuration as nested maps keyed like a config file.
// Durations are rendered as strings ("5s") so the result parses back.
func (c *ServerConfig) Map() map[string]any {
	return map[string]any{
		"server": map[string]any{
			"host":                c.Server.Host,
			"port":                c.Server.Port,
			"root":                c.Server.Root,
			"read_header_timeout": c.Server.ReadHeaderTimeout.String(),
			"shutdown_timeout":    c.Server.ShutdownTimeout.String(),
			"rate_limit":          c.Server.RateLimit,
		},
		"tls": map[string]any{
			"enabled":   c.TLS.Enabled,
			"cert_file": c.TLS.CertFile,
			"key_file":  c.TLS.KeyFile,
			"tool":      c.TLS.Tool,
			"key_bits":  c.TLS.KeyBits,
			"days":      c.TLS.Days,
			"subject":   c.TLS.Subject,
			"reload":    c.TLS.Reload,
		},
		"browser": map[string]any{
			"open": c.Browser.Open,
		},
		"metrics": map[string]any{
			"enabled": c.Metrics.Enabled,
			"path":    c.Metrics.Path,
		},
		"log": map[string]any{
			"level":  c.Log.Level,
			"format": c.Log.Format,
		},
	}
}
