package devserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/yndnr/devserve/internal/infra/browser"
	"github.com/yndnr/devserve/internal/infra/tlscert"
	"github.com/yndnr/devserve/internal/server/config"
	"github.com/yndnr/devserve/internal/server/httpserver"
	"github.com/yndnr/devserve/internal/telemetry/logger"
	"github.com/yndnr/devserve/internal/telemetry/metric"
)

// Bootstrapper brings the development server up and serves until stopped.
type Bootstrapper struct {
	cfg *config.ServerConfig

	certs   tlscert.Provider
	opener  browser.Opener
	out     io.Writer
	log     logger.Logger
	metrics *metric.Registry
	now     func() time.Time

	state atomic.Int32
}

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithCertProvider sets the certificate generator.
func WithCertProvider(p tlscert.Provider) Option {
	return func(b *Bootstrapper) {
		b.certs = p
	}
}

// WithOpener sets the browser opener.
func WithOpener(o browser.Opener) Option {
	return func(b *Bootstrapper) {
		b.opener = o
	}
}

// WithOutput sets where the operator banner is printed.
func WithOutput(w io.Writer) Option {
	return func(b *Bootstrapper) {
		b.out = w
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Bootstrapper) {
		b.log = l
	}
}

// WithMetrics sets the metrics registry. Without it a registry is created
// only when metrics are enabled in the configuration.
func WithMetrics(r *metric.Registry) Option {
	return func(b *Bootstrapper) {
		b.metrics = r
	}
}

// New creates a bootstrapper for cfg. The configuration is expected to have
// passed config.Verify.
func New(cfg *config.ServerConfig, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		cfg: cfg,
		out: os.Stdout,
		log: logger.Default(),
		now: time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.certs == nil {
		b.certs = tlscert.NewOpenSSL(cfg.TLS.Tool)
	}
	if b.opener == nil {
		b.opener = browser.NewSystem()
	}
	if b.metrics == nil && cfg.Metrics.Enabled {
		b.metrics = metric.NewRegistry()
	}

	return b
}

// State returns the current lifecycle state.
func (b *Bootstrapper) State() State {
	return State(b.state.Load())
}

func (b *Bootstrapper) setState(s State) {
	b.state.Store(int32(s))
	b.log.Debug("state changed", "state", s.String())
}

// Run starts the server and blocks until ctx is cancelled or serving fails.
// Cancellation is a normal stop and returns nil.
func (b *Bootstrapper) Run(ctx context.Context) error {
	sess, err := b.Start(ctx)
	if err != nil {
		return err
	}
	return sess.Wait(ctx)
}

// Start verifies the content directory, prepares the certificate, binds the
// listener, decides the protocol, prints the banner, opens the browser and
// starts serving in the background.
func (b *Bootstrapper) Start(ctx context.Context) (*Session, error) {
	b.setState(StateInit)

	root, err := b.contentRoot()
	if err != nil {
		return nil, err
	}

	cert := b.ensureCertificate(ctx)

	ln, err := b.listen(ctx)
	if err != nil {
		return nil, err
	}

	up := b.upgradeListener(ln, cert)
	if up.Mode == ModeTLS {
		b.setState(StateServingTLS)
	} else {
		b.setState(StateServingPlain)
	}
	if b.metrics != nil {
		b.metrics.SetTLS(up.Mode == ModeTLS)
	}

	url := b.url(up.Mode, ln.Addr())
	writeBanner(b.out, up.Mode, url, root)

	b.openBrowser(ctx, url)

	handler := httpserver.NewRouter(&httpserver.RouterConfig{
		Root:        root,
		Logger:      b.log,
		Metrics:     b.metrics,
		MetricsPath: b.cfg.Metrics.Path,
		RateLimit:   b.cfg.Server.RateLimit,
	})
	srv := httpserver.New(handler,
		httpserver.WithReadHeaderTimeout(b.cfg.Server.ReadHeaderTimeout),
		httpserver.WithErrorLog(b.log),
	)

	sess := newSession(b, srv, up, url)
	go func() {
		sess.errCh <- srv.Serve(up.Listener)
	}()
	if up.watcher != nil {
		up.watcher.StartAsync()
	}

	b.log.Info("server started",
		"mode", up.Mode.String(),
		"addr", ln.Addr().String(),
		"root", root,
	)

	return sess, nil
}

func (b *Bootstrapper) contentRoot() (string, error) {
	root, err := filepath.Abs(b.cfg.Server.Root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrContentDirMissing, b.cfg.Server.Root, err)
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrContentDirMissing, root)
	}
	return root, nil
}

func (b *Bootstrapper) ensureCertificate(ctx context.Context) tlscert.Result {
	t := b.cfg.TLS

	var res tlscert.Result
	if t.Enabled {
		res = tlscert.Ensure(ctx, b.certs, tlscert.Request{
			CertFile: t.CertFile,
			KeyFile:  t.KeyFile,
			Subject:  t.Subject,
			KeyBits:  t.KeyBits,
			Days:     t.Days,
		})
	} else {
		res = tlscert.Unavailable(tlscert.ErrDisabled)
	}

	switch res.Status {
	case tlscert.StatusExisting:
		b.log.Info("SSL certificate found", "cert_file", t.CertFile)
		b.warnIfExpired(t.CertFile)
	case tlscert.StatusGenerated:
		b.log.Info("SSL certificate generated", "cert_file", t.CertFile, "key_file", t.KeyFile)
	default:
		if errors.Is(res.Reason, tlscert.ErrDisabled) {
			b.log.Info("TLS disabled, using HTTP")
		} else {
			b.log.Warn("SSL certificate unavailable, using HTTP", "reason", res.Reason)
		}
		if errors.Is(res.Reason, tlscert.ErrToolUnavailable) {
			writeInstallHints(b.out, tlscert.InstallHints())
		}
	}

	if res.Ready() {
		b.setState(StateCertReady)
	} else {
		b.setState(StateCertUnavailable)
	}
	return res
}

// warnIfExpired reports an expired certificate. The file is still used.
func (b *Bootstrapper) warnIfExpired(certFile string) {
	cert, err := tlscert.Inspect(certFile)
	if err != nil {
		b.log.Debug("cannot inspect certificate", "cert_file", certFile, "error", err)
		return
	}
	if tlscert.Expired(cert, b.now()) {
		b.log.Warn("SSL certificate is outside its validity period; delete it to regenerate",
			"cert_file", certFile,
			"not_after", cert.NotAfter,
		)
	}
}

func (b *Bootstrapper) listen(ctx context.Context) (net.Listener, error) {
	addr := net.JoinHostPort(b.cfg.Server.Host, strconv.Itoa(b.cfg.Server.Port))

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, newBindError(addr, err)
	}
	return ln, nil
}

func (b *Bootstrapper) openBrowser(ctx context.Context, url string) {
	if !b.cfg.Browser.Open {
		return
	}

	fmt.Fprintf(b.out, "Opening browser: %s\n", url)
	if err := b.opener.Open(ctx, url); err != nil {
		b.log.Warn("cannot open browser automatically", "error", err)
		fmt.Fprintf(b.out, "Please open your browser and visit: %s\n", url)
	}
}

// url builds the address shown to the operator. Wildcard hosts are shown
// as localhost and the port is the one actually bound.
func (b *Bootstrapper) url(mode Mode, addr net.Addr) string {
	host := b.cfg.Server.Host
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}

	port := strconv.Itoa(b.cfg.Server.Port)
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = strconv.Itoa(tcp.Port)
	}

	return mode.Scheme() + "://" + net.JoinHostPort(host, port)
}
