package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "devserve"

// Registry holds all application metrics.
//
// Each Registry owns its own prometheus.Registry so that several servers
// (or tests) in one process never collide on registration.
type Registry struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseBytes   prometheus.Counter
	TLSEnabled      prometheus.Gauge
	CertReloads     *prometheus.CounterVec
}

// NewRegistry creates a registry with request metrics plus the Go and
// process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests served, by method and status code.",
		}, []string{"method", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		ResponseBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_response_bytes_total",
			Help:      "Total response body bytes written.",
		}),
		TLSEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tls_enabled",
			Help:      "1 when the listener serves TLS, 0 for plaintext.",
		}),
		CertReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cert_reloads_total",
			Help:      "Certificate reload attempts, by result.",
		}, []string{"result"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.RequestsTotal,
		r.RequestDuration,
		r.ResponseBytes,
		r.TLSEnabled,
		r.CertReloads,
	)

	return r
}

// RecordRequest records one completed request.
func (r *Registry) RecordRequest(method string, code int, d time.Duration, bytes int64) {
	r.RequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	r.RequestDuration.WithLabelValues(method).Observe(d.Seconds())
	if bytes > 0 {
		r.ResponseBytes.Add(float64(bytes))
	}
}

// SetTLS records the serving mode.
func (r *Registry) SetTLS(enabled bool) {
	if enabled {
		r.TLSEnabled.Set(1)
		return
	}
	r.TLSEnabled.Set(0)
}

// RecordCertReload records a certificate reload outcome.
func (r *Registry) RecordCertReload(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.CertReloads.WithLabelValues(result).Inc()
}

// Handler returns the HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
