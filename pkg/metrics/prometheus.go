// Package metrics provides Prometheus metrics for the Rendezvous festival service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Posters
	postersRendered     *prometheus.CounterVec
	posterCacheHits     prometheus.Counter
	posterRenderLatency prometheus.Histogram
	posterRenderErrors  *prometheus.CounterVec

	// Poster pre-render queue and workers
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueEnqueued     prometheus.Counter
	queueBackpressure prometheus.Counter
	workerCount       prometheus.Gauge
	workerErrors      prometheus.Counter

	// Standings
	standingsParticipants prometheus.Gauge
	standingsResults      prometheus.Gauge
	standingsLeaderPoints prometheus.Gauge
	standingsRefreshes    prometheus.Counter

	// Admin
	loginAttempts  *prometheus.CounterVec
	idempotentHits prometheus.Counter
	blobBytes      *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // avoids default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init rebuilds the global manager on a fresh registry with opts applied.
// Call it once at startup, before recorders are used or GetRegistry is served.
func Init(opts ...Option) *Manager {
	registry := prometheus.NewRegistry()
	customRegistry = registry
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	return globalManager
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rendezvous",
		subsystem:        "festival",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		Buckets: m.histogramBuckets,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.httpErrors = m.counterVec("http_errors_total",
		"HTTP responses with status >= 400 by endpoint and error type", "endpoint", "error_type")

	m.postersRendered = m.counterVec("posters_rendered_total",
		"Posters rasterised, by template", "template")
	m.posterCacheHits = m.counter("poster_cache_hits_total",
		"Poster requests served from the poster bucket")
	m.posterRenderLatency = m.histogram("poster_render_latency_milliseconds",
		"Time spent rasterising and encoding one poster")
	m.posterRenderErrors = m.counterVec("poster_render_errors_total",
		"Poster render failures by reason", "reason")

	m.queueSize = m.gauge("poster_queue_size", "Current number of queued poster jobs")
	m.queueCapacity = m.gauge("poster_queue_capacity", "Maximum number of queued poster jobs")
	m.queueEnqueued = m.counter("poster_queue_enqueued_total", "Poster jobs accepted by the queue")
	m.queueBackpressure = m.counter("poster_queue_backpressure_total",
		"Poster jobs rejected because the queue was full or closed")
	m.workerCount = m.gauge("poster_worker_count", "Number of poster workers")
	m.workerErrors = m.counter("poster_worker_errors_total", "Poster jobs that failed in a worker")

	m.standingsParticipants = m.gauge("standings_participants", "Participants on the leaderboard")
	m.standingsResults = m.gauge("standings_results", "Results feeding the leaderboard")
	m.standingsLeaderPoints = m.gauge("standings_leader_points", "Total points of the rank-1 participant")
	m.standingsRefreshes = m.counter("standings_refreshes_total", "Scheduled leaderboard recomputations")

	m.loginAttempts = m.counterVec("login_attempts_total", "Admin login attempts by outcome", "outcome")
	m.idempotentHits = m.counter("idempotent_replays_total",
		"Admin create requests answered from the idempotency cache")
	m.blobBytes = m.counterVec("blob_bytes_stored_total", "Bytes written to blob storage by bucket", "bucket")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordHTTPRequest records an HTTP request with its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an error response.
func RecordHTTPError(endpoint, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, errorType).Inc()
}

// RecordPosterRendered counts one rasterised poster and its latency.
func RecordPosterRendered(template string, latencyMs float64) {
	globalManager.postersRendered.WithLabelValues(template).Inc()
	globalManager.posterRenderLatency.Observe(latencyMs)
}

// RecordPosterCacheHit counts a poster served from storage.
func RecordPosterCacheHit() {
	globalManager.posterCacheHits.Inc()
}

// RecordPosterRenderError counts a failed render.
func RecordPosterRenderError(reason string) {
	globalManager.posterRenderErrors.WithLabelValues(reason).Inc()
}

// UpdateQueueSize sets the current poster queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the poster queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an accepted poster job.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueBackpressure counts a rejected poster job.
func RecordQueueBackpressure() {
	globalManager.queueBackpressure.Inc()
}

// UpdateWorkerCount sets the number of poster workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerError counts a failed poster job.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// UpdateStandings publishes the latest leaderboard aggregates.
func UpdateStandings(participants, results, leaderPoints int) {
	globalManager.standingsParticipants.Set(float64(participants))
	globalManager.standingsResults.Set(float64(results))
	globalManager.standingsLeaderPoints.Set(float64(leaderPoints))
	globalManager.standingsRefreshes.Inc()
}

// RecordLoginAttempt counts a login attempt; outcome is success, rejected or throttled.
func RecordLoginAttempt(outcome string) {
	globalManager.loginAttempts.WithLabelValues(outcome).Inc()
}

// RecordIdempotentReplay counts a replayed admin create.
func RecordIdempotentReplay() {
	globalManager.idempotentHits.Inc()
}

// RecordBlobBytes adds n bytes written to bucket.
func RecordBlobBytes(bucket string, n int) {
	globalManager.blobBytes.WithLabelValues(bucket).Add(float64(n))
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
