package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// LevelAccess is the level of access lines. It sits above slog.LevelError,
// so access lines pass any configured level.
const LevelAccess = slog.LevelError + 4

// Logger is the console logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// Access writes one access line whatever the configured level.
	Access(msg string, args ...any)

	With(args ...any) Logger
	Handler() slog.Handler
}

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level for diagnostics (debug, info, warn, error).
	Level string
	// Format is text or json. Empty means text.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

type slogLogger struct {
	logger *slog.Logger
}

// New creates a logger for cfg.
func New(cfg Config) (Logger, error) {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(cfg.Level),
		ReplaceAttr: renameAccessLevel,
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		handler = slog.NewTextHandler(output, opts)
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}

	return &slogLogger{logger: slog.New(handler)}, nil
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return &slogLogger{logger: slog.New(slog.DiscardHandler)}
}

// NewStdLogger bridges l to a *log.Logger writing at level, for APIs such
// as http.Server.ErrorLog.
func NewStdLogger(l Logger, level slog.Level) *log.Logger {
	return slog.NewLogLogger(l.Handler(), level)
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *slogLogger) Access(msg string, args ...any) {
	l.logger.Log(context.Background(), LevelAccess, msg, args...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

func (l *slogLogger) Handler() slog.Handler {
	return l.logger.Handler()
}

func renameAccessLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelAccess {
		a.Value = slog.StringValue("ACCESS")
	}
	return a
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var defaultLogger atomic.Pointer[slogLogger]

func init() {
	l, _ := New(Config{})
	defaultLogger.Store(l.(*slogLogger))
}

// SetDefault replaces the logger returned by Default.
func SetDefault(l Logger) {
	if sl, ok := l.(*slogLogger); ok {
		defaultLogger.Store(sl)
	}
}

// Default returns the process-wide logger.
func Default() Logger {
	return defaultLogger.Load()
}
