package tlscert

import (
	"crypto/tls"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/devserve/internal/telemetry/logger"
)

// DefaultDebounce is the quiet period before a changed pair is reloaded.
const DefaultDebounce = 500 * time.Millisecond

// Watcher serves the current key pair and reloads it when the files change.
type Watcher struct {
	certFile string
	keyFile  string

	mu   sync.RWMutex
	cert *tls.Certificate

	log      logger.Logger
	debounce time.Duration
	onReload func(error)

	started  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the logger for the watcher.
func WithLogger(l logger.Logger) WatcherOption {
	return func(w *Watcher) {
		w.log = l
	}
}

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithReloadHook registers fn to be called after every reload attempt
// with its result.
func WithReloadHook(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher loads the key pair and returns a watcher for it.
// The watcher does not observe the files until Start is called.
func NewWatcher(certFile, keyFile string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		certFile: certFile,
		keyFile:  keyFile,
		log:      logger.Default(),
		debounce: DefaultDebounce,
		started:  make(chan struct{}),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	if err := w.reload(); err != nil {
		return nil, fmt.Errorf("tlscert: initial load: %w", err)
	}

	return w, nil
}

// Start watches the directories holding the pair. It blocks until Stop.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tlscert: create watcher: %w", err)
	}
	defer fw.Close()

	// Directories, not files: editors replace files by rename.
	certDir := filepath.Dir(w.certFile)
	keyDir := filepath.Dir(w.keyFile)

	if err := fw.Add(certDir); err != nil {
		return fmt.Errorf("tlscert: watch cert dir %s: %w", certDir, err)
	}
	if keyDir != certDir {
		if err := fw.Add(keyDir); err != nil {
			return fmt.Errorf("tlscert: watch key dir %s: %w", keyDir, err)
		}
	}

	w.log.Debug("certificate watcher started",
		"cert_file", w.certFile,
		"key_file", w.keyFile,
	)
	close(w.started)

	certPath := filepath.Clean(w.certFile)
	keyPath := filepath.Clean(w.keyFile)
	debounced := debounce.New(w.debounce)

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}

			name := filepath.Clean(event.Name)
			if name != certPath && name != keyPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			w.log.Debug("certificate file changed",
				"file", event.Name,
				"op", event.Op.String(),
			)
			debounced(w.reloadAndReport)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("certificate watcher error", "error", err)

		case <-w.done:
			return nil
		}
	}
}

// StartAsync runs Start in a goroutine.
func (w *Watcher) StartAsync() {
	go func() {
		if err := w.Start(); err != nil {
			w.log.Warn("certificate watcher stopped", "error", err)
		}
	}()
}

// Started is closed once the watcher observes the certificate directories.
func (w *Watcher) Started() <-chan struct{} {
	return w.started
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
}

// GetCertificate returns the current certificate.
// It implements tls.Config.GetCertificate.
func (w *Watcher) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cert, nil
}

func (w *Watcher) reloadAndReport() {
	select {
	case <-w.done:
		return
	default:
	}

	err := w.reload()
	if err != nil {
		// The previous pair stays in service.
		w.log.Warn("certificate reload failed",
			"error", err,
			"cert_file", w.certFile,
			"key_file", w.keyFile,
		)
	} else {
		w.log.Info("certificate reloaded", "cert_file", w.certFile)
	}

	if w.onReload != nil {
		w.onReload(err)
	}
}

func (w *Watcher) reload() error {
	cert, err := LoadKeyPair(w.certFile, w.keyFile)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.cert = cert
	w.mu.Unlock()
	return nil
}
