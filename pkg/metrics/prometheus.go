// Package metrics provides Prometheus metrics for the Vantage client and console.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Session check outcomes.
const (
	OutcomeValid    = "valid"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Manager owns every metric exported by the process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Backend traffic
	backendRequests        *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec
	backendNetworkErrors   *prometheus.CounterVec

	// Session and diagnostics
	sessionChecks          *prometheus.CounterVec
	diagnosticsSuperseded  *prometheus.CounterVec
	diagnosticsSubmissions *prometheus.CounterVec

	// Console HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	visitors            prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "vantage",
		subsystem:        "client",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string { return m.metricPrefix + n }

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.backendRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("backend_requests_total"),
		Help:        "Requests sent to the Vantage backend by endpoint, method and status code",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.backendRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("backend_request_duration_milliseconds"),
		Help:        "Backend round-trip latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method"})

	m.backendNetworkErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("backend_network_errors_total"),
		Help:        "Backend requests that failed before a response arrived",
		ConstLabels: constLabels,
	}, []string{"endpoint"})

	m.sessionChecks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("session_checks_total"),
		Help:        "Session checks by outcome (valid, rejected, failed)",
		ConstLabels: constLabels,
	}, []string{"outcome"})

	m.diagnosticsSubmissions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("diagnostic_submissions_total"),
		Help:        "Diagnostic submissions by tool",
		ConstLabels: constLabels,
	}, []string{"tool"})

	m.diagnosticsSuperseded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("diagnostic_superseded_total"),
		Help:        "Diagnostic responses discarded because a newer submission exists",
		ConstLabels: constLabels,
	}, []string{"tool"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "console",
		Name:        m.name("http_requests_total"),
		Help:        "Console HTTP requests by endpoint, method and status code",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "console",
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "Console HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "console",
		Name:        m.name("errors_by_type_total"),
		Help:        "Console errors by type and severity",
		ConstLabels: constLabels,
	}, []string{"error_type", "severity"})

	m.visitors = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "console",
		Name:        m.name("visitors"),
		Help:        "Visitors with a cached backend session",
		ConstLabels: constLabels,
	})
}

// RecordBackendRequest records a completed backend round trip.
func (m *Manager) RecordBackendRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.backendRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.backendRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// RecordBackendNetworkError records a transport failure.
func (m *Manager) RecordBackendNetworkError(endpoint string) {
	if !m.enabled {
		return
	}
	m.backendNetworkErrors.WithLabelValues(endpoint).Inc()
}

// RecordSessionCheck records a session check outcome.
func (m *Manager) RecordSessionCheck(outcome string) {
	if !m.enabled {
		return
	}
	m.sessionChecks.WithLabelValues(outcome).Inc()
}

// RecordDiagnosticSubmission counts a diagnostic submission.
func (m *Manager) RecordDiagnosticSubmission(tool string) {
	if !m.enabled {
		return
	}
	m.diagnosticsSubmissions.WithLabelValues(tool).Inc()
}

// RecordDiagnosticSuperseded counts a discarded stale diagnostic response.
func (m *Manager) RecordDiagnosticSuperseded(tool string) {
	if !m.enabled {
		return
	}
	m.diagnosticsSuperseded.WithLabelValues(tool).Inc()
}

// RecordHTTPRequest records a console request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByType records a console error.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateVisitors sets the cached visitor count.
func (m *Manager) UpdateVisitors(n int) {
	if !m.enabled {
		return
	}
	m.visitors.Set(float64(n))
}

// Package-level helpers delegate to the global manager.

func RecordBackendRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordBackendRequest(endpoint, method, statusCode, durationMs)
}

func RecordBackendNetworkError(endpoint string) { globalManager.RecordBackendNetworkError(endpoint) }

func RecordSessionCheck(outcome string) { globalManager.RecordSessionCheck(outcome) }

func RecordDiagnosticSubmission(tool string) { globalManager.RecordDiagnosticSubmission(tool) }

func RecordDiagnosticSuperseded(tool string) { globalManager.RecordDiagnosticSuperseded(tool) }

func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

func RecordErrorByType(errorType, severity string) {
	globalManager.RecordErrorByType(errorType, severity)
}

func UpdateVisitors(n int) { globalManager.UpdateVisitors(n) }

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
