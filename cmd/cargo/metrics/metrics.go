// Package metrics exposes Prometheus counters and histograms for the
// `cargo serve` HTTP server, following the counter-vec-plus-histogram-vec
// shape the rest of the example corpus's observability code uses.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registry = prometheus.NewRegistry()
	once     sync.Once
	instance *Metrics
)

// Metrics holds the server's operation counters, latency histograms, and
// the available-space gauge.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	BytesRead       prometheus.Counter
	BytesWritten    prometheus.Counter
	AvailableSpace  prometheus.Gauge
}

// Get returns the process-wide Metrics instance, creating it on first call.
func Get() *Metrics {
	once.Do(func() {
		instance = newMetrics(registry)
	})
	return instance
}

// Registry returns the registry the /metrics endpoint should serve.
func Registry() *prometheus.Registry {
	return registry
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "cargo_http_requests_total",
				Help: "Total number of cargo HTTP requests, by route and status.",
			},
			[]string{"route", "method", "status"},
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cargo_http_request_duration_seconds",
				Help:    "cargo HTTP request duration in seconds, by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		BytesRead: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "cargo_record_bytes_read_total",
			Help: "Total record content bytes served by readFile/openReadChannel.",
		}),
		BytesWritten: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "cargo_record_bytes_written_total",
			Help: "Total record content bytes accepted by overwriteFile and WebSocket uploads.",
		}),
		AvailableSpace: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "cargo_available_space_bytes",
			Help: "Bytes remaining in the container's record area as of the last availableSpace call.",
		}),
	}
}

// Observe records one completed HTTP request.
func (m *Metrics) Observe(route, method, status string, seconds float64) {
	m.RequestsTotal.WithLabelValues(route, method, status).Inc()
	m.RequestDuration.WithLabelValues(route, method).Observe(seconds)
}
