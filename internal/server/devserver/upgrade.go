package devserver

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/yndnr/devserve/internal/infra/tlscert"
)

// Upgrade is the outcome of the protocol decision. Listener is always
// usable; Reason explains a plaintext outcome.
type Upgrade struct {
	Listener net.Listener
	Mode     Mode
	Reason   error

	watcher *tlscert.Watcher
}

// upgradeListener wraps ln with TLS when the certificate is ready and loads.
// It never fails: any problem yields ln unchanged in ModePlain.
func (b *Bootstrapper) upgradeListener(ln net.Listener, cert tlscert.Result) Upgrade {
	if !cert.Ready() {
		return Upgrade{Listener: ln, Mode: ModePlain, Reason: cert.Reason}
	}

	tlsCfg, watcher, err := b.serverTLSConfig()
	if err != nil {
		b.log.Warn("HTTPS startup failed, switching to HTTP", "error", err)
		return Upgrade{Listener: ln, Mode: ModePlain, Reason: err}
	}

	return Upgrade{
		Listener: tls.NewListener(ln, tlsCfg),
		Mode:     ModeTLS,
		watcher:  watcher,
	}
}

func (b *Bootstrapper) serverTLSConfig() (*tls.Config, *tlscert.Watcher, error) {
	t := b.cfg.TLS

	if !t.Reload {
		cert, err := tlscert.LoadKeyPair(t.CertFile, t.KeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("devserver: load certificate: %w", err)
		}
		return tlscert.StaticConfig(cert), nil, nil
	}

	opts := []tlscert.WatcherOption{tlscert.WithLogger(b.log)}
	if b.metrics != nil {
		opts = append(opts, tlscert.WithReloadHook(b.metrics.RecordCertReload))
	}

	w, err := tlscert.NewWatcher(t.CertFile, t.KeyFile, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("devserver: load certificate: %w", err)
	}
	return tlscert.ServerConfig(w.GetCertificate), w, nil
}
