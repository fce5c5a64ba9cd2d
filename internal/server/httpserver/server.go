package httpserver

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/yndnr/devserve/internal/telemetry/logger"
)

// DefaultReadHeaderTimeout bounds how long a client may take to send headers.
const DefaultReadHeaderTimeout = 10 * time.Second

// Server wraps an http.Server that serves on a caller-provided listener.
type Server struct {
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*http.Server)

// WithReadHeaderTimeout sets the header read timeout.
func WithReadHeaderTimeout(d time.Duration) Option {
	return func(s *http.Server) {
		s.ReadHeaderTimeout = d
	}
}

// WithErrorLog routes the server's internal errors, such as TLS handshake
// failures from browsers rejecting a self-signed certificate, to l at warn
// level.
func WithErrorLog(l logger.Logger) Option {
	return func(s *http.Server) {
		s.ErrorLog = logger.NewStdLogger(l, slog.LevelWarn)
	}
}

// New creates a server for handler.
func New(handler http.Handler, opts ...Option) *Server {
	hs := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
	}
	for _, opt := range opts {
		opt(hs)
	}

	return &Server{httpServer: hs}
}

// Serve accepts connections on ln until Shutdown or Close. A listener
// wrapped by tls.NewListener yields HTTPS. It always returns a non-nil
// error; http.ErrServerClosed after Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown stops accepting connections and waits for active requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Close closes the listener and all connections immediately.
func (s *Server) Close() error {
	return s.httpServer.Close()
}
