package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Import outcomes.
const (
	OutcomeFetched = "fetched"
	OutcomeCached  = "cached"
	OutcomeFailed  = "failed"
)

// Metrics holds the Prometheus collectors of the service on its own registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	ImportsTotal     *prometheus.CounterVec
	ImportedVideos   prometheus.Counter
	UpstreamDuration *prometheus.HistogramVec
	RateLimitErrors  prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ytinsights_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds, by route, method and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ytinsights_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		}),
		ImportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytinsights_imports_total",
				Help: "Channel imports, by outcome.",
			},
			[]string{"outcome"},
		),
		ImportedVideos: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ytinsights_imported_videos_total",
			Help: "Videos written by fetched imports.",
		}),
		UpstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ytinsights_youtube_call_duration_seconds",
				Help:    "YouTube Data API call duration, by call and outcome.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"call", "outcome"},
		),
		RateLimitErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ytinsights_rate_limit_store_errors_total",
			Help: "Rate-limit store failures that were recovered by failing open.",
		}),
	}
	m.registry.MustRegister(
		m.RequestDuration,
		m.RequestsInFlight,
		m.ImportsTotal,
		m.ImportedVideos,
		m.UpstreamDuration,
		m.RateLimitErrors,
	)
	return m
}

// RegisterDB exposes connection pool gauges for db.
func (m *Metrics) RegisterDB(db *sql.DB) {
	if m == nil || db == nil {
		return
	}
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "ytinsights_db_connections_in_use",
			Help: "Number of database connections currently in use.",
		}, func() float64 { return float64(db.Stats().InUse) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "ytinsights_db_connections_idle",
			Help: "Number of idle database connections.",
		}, func() float64 { return float64(db.Stats().Idle) }),
	)
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route, method, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, status).Observe(elapsed.Seconds())
}

func (m *Metrics) RequestStarted() {
	if m != nil {
		m.RequestsInFlight.Inc()
	}
}

func (m *Metrics) RequestFinished() {
	if m != nil {
		m.RequestsInFlight.Dec()
	}
}

func (m *Metrics) ObserveImport(outcome string, videos int) {
	if m == nil {
		return
	}
	m.ImportsTotal.WithLabelValues(outcome).Inc()
	if videos > 0 {
		m.ImportedVideos.Add(float64(videos))
	}
}

func (m *Metrics) ObserveUpstream(call string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.UpstreamDuration.WithLabelValues(call, outcome).Observe(time.Since(start).Seconds())
}

func (m *Metrics) RateLimitStoreError() {
	if m != nil {
		m.RateLimitErrors.Inc()
	}
}
