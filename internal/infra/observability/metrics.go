package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the app core.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics debug endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	uploads         *prometheus.CounterVec
}

// Snapshot is an aggregate view of the counters, served by the debug
// listener for quick inspection without scraping.
type Snapshot struct {
	AddressCacheHitRate float64 `json:"address_cache_hit_rate"`
	UploadsOK           int64   `json:"uploads_ok"`
	UploadsFailed       int64   `json:"uploads_failed"`
	ErrorToasts         int64   `json:"error_toasts"`
	SuccessToasts       int64   `json:"success_toasts"`
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "unibus_request_duration_seconds",
				Help:    "Duration of screen operations by name.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unibus_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unibus_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unibus_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unibus_notifications_total",
				Help: "Total transient notifications shown, by severity.",
			},
			[]string{"severity"},
		),
		uploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unibus_uploads_total",
				Help: "Total profile image uploads, by outcome.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of a screen operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrNotification increments the notification counter for a severity.
func (m *Metrics) IncrNotification(severity string) {
	m.notifications.WithLabelValues(severity).Inc()
}

// IncrUpload increments the upload counter with an outcome label.
func (m *Metrics) IncrUpload(status string) {
	m.uploads.WithLabelValues(status).Inc()
}

// GetSnapshot aggregates the current counter values.
func (m *Metrics) GetSnapshot() *Snapshot {
	hits := getCounterValue(m.cacheHits, "viacep")
	misses := getCounterValue(m.cacheMisses, "viacep")

	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &Snapshot{
		AddressCacheHitRate: hitRate,
		UploadsOK:           int64(getCounterValue(m.uploads, "ok")),
		UploadsFailed:       int64(getCounterValue(m.uploads, "failed")),
		ErrorToasts:         int64(getCounterValue(m.notifications, "error")),
		SuccessToasts:       int64(getCounterValue(m.notifications, "success")),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
