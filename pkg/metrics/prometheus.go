// Package metrics provides Prometheus metrics for the instock pipeline and query service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exposed by the process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Build pipeline
	pagesFetched      prometheus.Counter
	pageFetchLatency  prometheus.Histogram
	productsFetched   prometheus.Counter
	productsDuplicate prometheus.Counter
	productsMalformed prometheus.Counter
	rowsBuilt         prometheus.Counter
	buildDuration     prometheus.Histogram
	infoProbes        *prometheus.CounterVec

	// Query service
	catalogRows       prometheus.Gauge
	catalogTalents    prometheus.Gauge
	catalogBuiltAt    prometheus.Gauge
	reloads           *prometheus.CounterVec
	reloadsCoalesced  prometheus.Counter
	artifactsDegraded *prometheus.CounterVec
	queryLatency      prometheus.Histogram
	queryResultRows   prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide collectors

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "instock",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(subsystem, name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.sub(subsystem), Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.sub(subsystem), Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(subsystem, name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.sub(subsystem), Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(subsystem, name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.sub(subsystem), Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels,
	})
}

// sub prefers the configured subsystem over the per-metric default.
func (m *Manager) sub(def string) string {
	if m.subsystem != "" {
		return m.subsystem
	}
	return def
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	m.pagesFetched = m.counter("source", "pages_fetched_total", "Catalog pages fetched from the remote API")
	m.pageFetchLatency = m.histogram("source", "page_fetch_latency_milliseconds", "Latency of a single catalog page fetch",
		prometheus.ExponentialBuckets(25, 2, 10))
	m.productsFetched = m.counter("source", "products_fetched_total", "Products received from the catalog source")
	m.productsDuplicate = m.counter("source", "products_duplicate_total", "Products dropped because the id was already seen")
	m.productsMalformed = m.counter("build", "products_malformed_total", "Products rejected at the ingestion boundary")
	m.rowsBuilt = m.counter("build", "rows_built_total", "Variant rows emitted by the row builder")
	m.buildDuration = m.histogram("build", "duration_seconds", "Wall time of a full build run",
		prometheus.ExponentialBuckets(0.5, 2, 10))
	m.infoProbes = m.counterVec("source", "info_probes_total", "Physical-only info endpoint probes by outcome", "outcome")

	m.catalogRows = m.gauge("catalog", "rows", "Rows in the currently loaded catalog snapshot")
	m.catalogTalents = m.gauge("catalog", "talents", "Distinct talents in the currently loaded snapshot")
	m.catalogBuiltAt = m.gauge("catalog", "built_at_unix", "Build timestamp of the loaded snapshot")
	m.reloads = m.counterVec("catalog", "reloads_total", "Catalog reloads by outcome", "outcome")
	m.reloadsCoalesced = m.counter("catalog", "reloads_coalesced_total", "Reload requests superseded before firing")
	m.artifactsDegraded = m.counterVec("catalog", "artifacts_degraded_total", "Auxiliary artifacts that failed to load", "artifact")
	m.queryLatency = m.histogram("query", "latency_milliseconds", "Filter and sort evaluation latency",
		[]float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50})
	m.queryResultRows = m.histogram("query", "result_rows", "Rows returned per evaluation",
		prometheus.ExponentialBuckets(1, 4, 8))

	m.httpRequests = m.counterVec("http", "requests_total", "HTTP requests by endpoint, method and status",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.sub("http"), Name: "request_duration_milliseconds",
		Help: "HTTP request duration in milliseconds", Buckets: m.histogramBuckets, ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.httpErrors = m.counterVec("http", "errors_total", "HTTP error responses by endpoint and type",
		"endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system", "memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system", "goroutines", "Number of goroutines")
}

// Build pipeline recorders.

func RecordPageFetched(latencyMs float64) {
	globalManager.pagesFetched.Inc()
	globalManager.pageFetchLatency.Observe(latencyMs)
}

func RecordProductsFetched(n int) { globalManager.productsFetched.Add(float64(n)) }

func RecordProductDuplicate() { globalManager.productsDuplicate.Inc() }

func RecordProductMalformed() { globalManager.productsMalformed.Inc() }

func RecordRowsBuilt(n int) { globalManager.rowsBuilt.Add(float64(n)) }

func RecordBuildDuration(seconds float64) { globalManager.buildDuration.Observe(seconds) }

func RecordInfoProbe(outcome string) { globalManager.infoProbes.WithLabelValues(outcome).Inc() }

// Query service recorders.

func UpdateCatalogSize(rows, talents int) {
	globalManager.catalogRows.Set(float64(rows))
	globalManager.catalogTalents.Set(float64(talents))
}

func UpdateCatalogBuiltAt(unix int64) { globalManager.catalogBuiltAt.Set(float64(unix)) }

func RecordReload(outcome string) { globalManager.reloads.WithLabelValues(outcome).Inc() }

func RecordReloadCoalesced() { globalManager.reloadsCoalesced.Inc() }

func RecordArtifactDegraded(artifact string) {
	globalManager.artifactsDegraded.WithLabelValues(artifact).Inc()
}

func RecordQuery(latencyMs float64, rows int) {
	globalManager.queryLatency.Observe(latencyMs)
	globalManager.queryResultRows.Observe(float64(rows))
}

// HTTP recorders.

func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// System recorders.

func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
