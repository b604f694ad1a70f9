// Package metrics provides Prometheus metrics for the fplsquad planner service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes used as the "outcome" label.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// Manager manages all Prometheus metrics for the planner service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Pipeline Metrics - one observation per planning run
	runs             *prometheus.CounterVec
	runDuration      prometheus.Histogram
	poolSize         prometheus.Gauge
	exclusions       *prometheus.CounterVec
	rejections       *prometheus.CounterVec
	shortfalls       *prometheus.CounterVec
	rosterCost       prometheus.Gauge
	rosterProjection prometheus.Gauge
	lastRunUnix      prometheus.Gauge

	// Upstream Metrics - data source health
	fetchErrors   *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec

	// Ledger Metrics - history persistence
	ledgerAppends prometheus.Counter
	ledgerRows    prometheus.Counter
	ledgerErrors  prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegisterer(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fplsquad",
		subsystem:        "planner",
		histogramBuckets: DefaultLatencyBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.runs = auto.NewCounterVec(m.counterOpts("runs_total", "Total planning runs by outcome"), []string{"outcome"})
	m.runDuration = auto.NewHistogram(m.histogramOpts("run_duration_milliseconds", "Planning run duration in milliseconds, fetch included"))
	m.poolSize = auto.NewGauge(m.gaugeOpts("pool_size", "Players eligible for selection in the last run"))
	m.exclusions = auto.NewCounterVec(m.counterOpts("exclusions_total", "Players left out of the pool by reason"), []string{"reason"})
	m.rejections = auto.NewCounterVec(m.counterOpts("rejections_total", "Selector rejections by constraint"), []string{"reason"})
	m.shortfalls = auto.NewCounterVec(m.counterOpts("quota_shortfalls_total", "Unfilled position quotas in degraded runs"), []string{"position"})
	m.rosterCost = auto.NewGauge(m.gaugeOpts("roster_cost", "Total cost of the last selected roster"))
	m.rosterProjection = auto.NewGauge(m.gaugeOpts("roster_projection", "One-period projected score of the last roster"))
	m.lastRunUnix = auto.NewGauge(m.gaugeOpts("last_run_unix", "Unix timestamp of the last published plan"))

	m.fetchErrors = auto.NewCounterVec(m.counterOpts("upstream_fetch_errors_total", "Upstream fetch failures by resource"), []string{"resource"})
	m.fetchDuration = auto.NewHistogramVec(m.histogramOpts("upstream_fetch_duration_milliseconds", "Upstream fetch duration by resource"), []string{"resource"})

	m.ledgerAppends = auto.NewCounter(m.counterOpts("ledger_appends_total", "History ledger append operations"))
	m.ledgerRows = auto.NewCounter(m.counterOpts("ledger_rows_total", "Rows written to the history ledger"))
	m.ledgerErrors = auto.NewCounter(m.counterOpts("ledger_errors_total", "Failed history ledger appends"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
}

// RecordRun counts a finished run with its outcome and duration.
func RecordRun(outcome string, durationMs float64) {
	globalManager.runs.WithLabelValues(outcome).Inc()
	globalManager.runDuration.Observe(durationMs)
}

// UpdatePoolSize sets the eligible pool size.
func UpdatePoolSize(size int) {
	globalManager.poolSize.Set(float64(size))
}

// RecordExclusion counts a player left out of the pool.
func RecordExclusion(reason string) {
	globalManager.exclusions.WithLabelValues(reason).Inc()
}

// RecordRejections adds selector rejections for reason.
func RecordRejections(reason string, n int) {
	globalManager.rejections.WithLabelValues(reason).Add(float64(n))
}

// RecordShortfall counts an unmet position quota.
func RecordShortfall(position string) {
	globalManager.shortfalls.WithLabelValues(position).Inc()
}

// UpdateRoster sets the last roster's cost and projection.
func UpdateRoster(cost, projection float64) {
	globalManager.rosterCost.Set(cost)
	globalManager.rosterProjection.Set(projection)
}

// UpdateLastRun sets the publish time of the latest plan.
func UpdateLastRun(unix int64) {
	globalManager.lastRunUnix.Set(float64(unix))
}

// RecordFetch observes one upstream request; failed requests are also counted.
func RecordFetch(resource string, durationMs float64, failed bool) {
	globalManager.fetchDuration.WithLabelValues(resource).Observe(durationMs)
	if failed {
		globalManager.fetchErrors.WithLabelValues(resource).Inc()
	}
}

// RecordLedgerAppend counts an append of rows ledger rows.
func RecordLedgerAppend(rows int) {
	globalManager.ledgerAppends.Inc()
	globalManager.ledgerRows.Add(float64(rows))
}

// RecordLedgerError counts a failed append.
func RecordLedgerError() {
	globalManager.ledgerErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
