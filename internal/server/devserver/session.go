package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/yndnr/devserve/internal/infra/shutdown"
	"github.com/yndnr/devserve/internal/server/httpserver"
)

// Session is a running server started by Bootstrapper.Start.
type Session struct {
	b      *Bootstrapper
	server *httpserver.Server
	up     Upgrade
	url    string

	shutdown *shutdown.Handler
	errCh    chan error
}

func newSession(b *Bootstrapper, srv *httpserver.Server, up Upgrade, url string) *Session {
	s := &Session{
		b:        b,
		server:   srv,
		up:       up,
		url:      url,
		shutdown: shutdown.NewHandler(b.cfg.Server.ShutdownTimeout),
		errCh:    make(chan error, 1),
	}

	// Hooks run in reverse: drain the server, then stop the watcher.
	if up.watcher != nil {
		s.shutdown.OnShutdown(func(context.Context) error {
			up.watcher.Stop()
			return nil
		})
	}
	s.shutdown.OnShutdown(func(ctx context.Context) error {
		if err := srv.Shutdown(ctx); err != nil {
			b.log.Warn("graceful shutdown incomplete, closing connections", "error", err)
			return srv.Close()
		}
		return nil
	})

	return s
}

// Mode returns the protocol being served.
func (s *Session) Mode() Mode { return s.up.Mode }

// Reason explains why the session serves plaintext. It is nil in ModeTLS.
func (s *Session) Reason() error { return s.up.Reason }

// URL returns the address printed to the operator.
func (s *Session) URL() string { return s.url }

// Addr returns the bound listener address.
func (s *Session) Addr() net.Addr { return s.up.Listener.Addr() }

// Wait blocks until ctx is cancelled or the server stops on its own.
// Cancellation drains the server, prints the stop notice and returns nil.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		err := s.Close()
		fmt.Fprintln(s.b.out)
		fmt.Fprintln(s.b.out, "Server stopped")
		return err

	case err := <-s.errCh:
		if cerr := s.Close(); cerr != nil {
			s.b.log.Warn("cleanup after serve error failed", "error", cerr)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("devserver: serve: %w", err)
	}
}

// Close stops the server and the certificate watcher. It is safe to call
// more than once.
func (s *Session) Close() error {
	err := s.shutdown.Shutdown()
	s.b.setState(StateStopped)
	if err != nil {
		return fmt.Errorf("devserver: shutdown: %w", err)
	}
	return nil
}
