package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// WithSignals returns a context cancelled on SIGINT or SIGTERM.
// The returned stop function releases the signal registration.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Hook is a cleanup function run during shutdown.
type Hook func(context.Context) error

// Handler runs registered hooks once, in reverse order of registration.
type Handler struct {
	timeout time.Duration
	hooks   []Hook
	mu      sync.Mutex
	once    sync.Once
	err     error
}

// NewHandler creates a new shutdown handler. Hooks share one context
// bounded by timeout.
func NewHandler(timeout time.Duration) *Handler {
	return &Handler{timeout: timeout}
}

// OnShutdown registers a shutdown hook.
func (h *Handler) OnShutdown(hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// Shutdown runs the hooks and returns the last hook error. Calling it more
// than once runs the hooks only the first time and returns the same result.
func (h *Handler) Shutdown() error {
	h.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		h.mu.Lock()
		hooks := make([]Hook, len(h.hooks))
		copy(hooks, h.hooks)
		h.mu.Unlock()

		for i := len(hooks) - 1; i >= 0; i-- {
			if err := hooks[i](ctx); err != nil {
				h.err = err
			}
		}
	})
	return h.err
}
