package httpserver

import (
	"net/http"

	"github.com/yndnr/devserve/internal/telemetry/logger"
	"github.com/yndnr/devserve/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Root is the directory served at "/".
	Root string

	// Logger receives access and panic logs.
	Logger logger.Logger

	// Metrics enables request metrics and the metrics endpoint when non-nil.
	Metrics *metric.Registry

	// MetricsPath is where the metrics endpoint is mounted.
	MetricsPath string

	// RateLimit is the per-IP request rate (requests/second). Zero disables it.
	RateLimit int
}

// NewRouter returns the static file handler wrapped in the middleware chain.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(cfg.Root)))

	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		mux.Handle(cfg.MetricsPath, cfg.Metrics.Handler())
	}

	// Order: Recover -> StaticHeaders -> RequestID -> AccessLog -> Metrics -> RateLimit -> MethodGuard
	middlewares := []Middleware{
		Recover(log),
		StaticHeaders(),
		RequestID(),
		AccessLog(log),
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, Metrics(cfg.Metrics))
	}
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit))
	}
	middlewares = append(middlewares, MethodGuard(AllowedMethods...))

	return Chain(mux, middlewares...)
}
