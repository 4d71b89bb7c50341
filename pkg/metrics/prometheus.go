// Package metrics provides Prometheus metrics for the aspect matching service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Dataset metrics
	datasetPlacements prometheus.Gauge
	datasetSamples    prometheus.Gauge
	datasetSubjects   prometheus.Gauge
	datasetLoadedAt   prometheus.Gauge
	ingestDropped     *prometheus.CounterVec

	// Query metrics
	queries       *prometheus.CounterVec
	queryLatency  prometheus.Histogram
	eventsMatched prometheus.Counter
	episodes      *prometheus.CounterVec
	scoresByTier  *prometheus.CounterVec

	// Reload metrics
	reloads        *prometheus.CounterVec
	reloadDuration prometheus.Histogram

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueue       prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	queueDequeue       prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "astro",
		subsystem:        "engine",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	// Dataset
	m.datasetPlacements = auto.NewGauge(m.gauge("dataset_placements", "Natal placements in the active dataset"))
	m.datasetSamples = auto.NewGauge(m.gauge("dataset_samples", "Transit samples in the active dataset"))
	m.datasetSubjects = auto.NewGauge(m.gauge("dataset_subjects", "Distinct subjects in the active dataset"))
	m.datasetLoadedAt = auto.NewGauge(m.gauge("dataset_loaded_timestamp_seconds", "Unix time the active dataset was installed"))
	m.ingestDropped = auto.NewCounterVec(
		m.counter("ingest_rows_dropped_total", "Workbook rows skipped during ingestion"),
		[]string{"kind"},
	)

	// Query
	m.queries = auto.NewCounterVec(
		m.counter("queries_total", "Subject/day queries by outcome"),
		[]string{"outcome"},
	)
	m.queryLatency = auto.NewHistogram(m.histogram("query_duration_milliseconds", "Time to answer one subject/day query", m.histogramBuckets))
	m.eventsMatched = auto.NewCounter(m.counter("events_matched_total", "Aspect events produced by the matcher"))
	m.episodes = auto.NewCounterVec(
		m.counter("episodes_total", "Episodes produced by aggregation"),
		[]string{"continuous"},
	)
	m.scoresByTier = auto.NewCounterVec(
		m.counter("scores_total", "Scored reports by tier"),
		[]string{"tier"},
	)

	// Reload
	m.reloads = auto.NewCounterVec(
		m.counter("reloads_total", "Dataset reloads by source and result"),
		[]string{"source", "result"},
	)
	m.reloadDuration = auto.NewHistogram(m.histogram("reload_duration_milliseconds", "Time to read both workbooks and swap the dataset", m.histogramBuckets))

	// Queue
	m.queueSize = auto.NewGauge(m.gauge("queue_size", "Pending reload requests"))
	m.queueCapacity = auto.NewGauge(m.gauge("queue_capacity", "Reload queue capacity"))
	m.queueEnqueue = auto.NewCounter(m.counter("queue_enqueue_total", "Reload requests accepted by the queue"))
	m.queueEnqueueErrors = auto.NewCounter(m.counter("queue_enqueue_errors_total", "Reload requests rejected by the queue"))
	m.queueDequeue = auto.NewCounter(m.counter("queue_dequeue_total", "Reload requests taken by the worker"))

	// HTTP
	m.httpRequests = auto.NewCounterVec(
		m.counter("http_requests_total", "HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogram("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	// Errors
	m.errorRateByComponent = auto.NewCounterVec(
		m.counter("errors_by_component_total", "Errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counter("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counter("errors_by_endpoint_total", "Errors by HTTP endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogram("error_latency_milliseconds", "Latency of failed operations", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	// System
	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_bytes", "Heap bytes in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutines", "Current number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogram("system_gc_pause_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// UpdateDatasetPlacements sets the number of natal placements loaded.
func UpdateDatasetPlacements(n int) {
	globalManager.datasetPlacements.Set(float64(n))
}

// UpdateDatasetSamples sets the number of transit samples loaded.
func UpdateDatasetSamples(n int) {
	globalManager.datasetSamples.Set(float64(n))
}

// UpdateDatasetSubjects sets the number of distinct subjects loaded.
func UpdateDatasetSubjects(n int) {
	globalManager.datasetSubjects.Set(float64(n))
}

// UpdateDatasetLoadedAt records when the active dataset was installed.
func UpdateDatasetLoadedAt(t time.Time) {
	globalManager.datasetLoadedAt.Set(float64(t.Unix()))
}

// RecordIngestDropped adds n skipped rows of the given kind ("placement" or "sample").
func RecordIngestDropped(kind string, n int) {
	if n <= 0 {
		return
	}
	globalManager.ingestDropped.WithLabelValues(kind).Add(float64(n))
}

// RecordQuery counts a query by outcome ("active", "quiet", "error").
func RecordQuery(outcome string) {
	globalManager.queries.WithLabelValues(outcome).Inc()
}

// RecordQueryLatency records query latency in milliseconds.
func RecordQueryLatency(latencyMs float64) {
	globalManager.queryLatency.Observe(latencyMs)
}

// RecordEventsMatched adds n matched aspect events.
func RecordEventsMatched(n int) {
	if n <= 0 {
		return
	}
	globalManager.eventsMatched.Add(float64(n))
}

// RecordEpisode counts one aggregated episode.
func RecordEpisode(continuous bool) {
	globalManager.episodes.WithLabelValues(strconv.FormatBool(continuous)).Inc()
}

// RecordScoreTier counts one scored report.
func RecordScoreTier(tier string) {
	globalManager.scoresByTier.WithLabelValues(tier).Inc()
}

// RecordReload counts a reload attempt by source and result ("ok", "failed").
func RecordReload(source, result string) {
	globalManager.reloads.WithLabelValues(source, result).Inc()
}

// RecordReloadDuration records reload duration in milliseconds.
func RecordReloadDuration(latencyMs float64) {
	globalManager.reloadDuration.Observe(latencyMs)
}

// UpdateQueueSize sets the current reload queue depth.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the reload queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an accepted reload request.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueEnqueueError counts a rejected reload request.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueDequeue counts a reload request taken by the worker.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error attributed to a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of a failed operation.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets heap bytes in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
