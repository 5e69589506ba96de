// Package metrics provides Prometheus metrics for the cricxi service.
package metrics

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

var scoreBuckets = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Resolution
	linesClassified *prometheus.CounterVec
	resolutions     *prometheus.CounterVec
	unmatched       *prometheus.CounterVec
	resolveLatency  prometheus.Histogram
	registryPlayers prometheus.Gauge

	// Validation
	rostersValidated  *prometheus.CounterVec
	ruleFailures      *prometheus.CounterVec
	validationLatency prometheus.Histogram
	rosterScore       prometheus.Histogram
	batchSize         prometheus.Histogram
	workerCount       prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
	lastGCPauseNs        atomic.Uint64
}

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

var globalManager atomic.Pointer[Manager]

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager.Store(NewManager(WithPrometheusRegistry(customRegistry)))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "cricxi",
		subsystem:        "roster",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// SetDefault replaces the manager used by the package-level Record helpers.
func SetDefault(m *Manager) error {
	if m == nil {
		return ErrNotInitialized
	}
	globalManager.Store(m)
	return nil
}

// Default returns the manager used by the package-level Record helpers.
func Default() *Manager { return globalManager.Load() }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.linesClassified = auto.NewCounterVec(
		m.counterOpts("lines_classified_total", "OCR lines seen by the resolver, by classifier verdict"),
		[]string{"verdict"},
	)
	m.resolutions = auto.NewCounterVec(
		m.counterOpts("resolutions_total", "Name resolutions by outcome and matching strategy"),
		[]string{"outcome", "strategy"},
	)
	m.unmatched = auto.NewCounterVec(
		m.counterOpts("unmatched_total", "Unmatched lines by reason"),
		[]string{"reason"},
	)
	m.resolveLatency = auto.NewHistogram(
		m.histogramOpts("resolve_latency_milliseconds", "Latency of one resolve batch in milliseconds", m.histogramBuckets),
	)
	m.registryPlayers = auto.NewGauge(
		m.gaugeOpts("registry_players", "Players in the loaded registry"),
	)

	m.rostersValidated = auto.NewCounterVec(
		m.counterOpts("rosters_validated_total", "Rosters validated, by verdict"),
		[]string{"verdict"},
	)
	m.ruleFailures = auto.NewCounterVec(
		m.counterOpts("rule_failures_total", "Rule failures by rule id"),
		[]string{"rule"},
	)
	m.validationLatency = auto.NewHistogram(
		m.histogramOpts("validation_latency_milliseconds", "Latency of one validation request in milliseconds", m.histogramBuckets),
	)
	m.rosterScore = auto.NewHistogram(
		m.histogramOpts("roster_score", "Distribution of roster strength scores", scoreBuckets),
	)
	m.batchSize = auto.NewHistogram(
		m.histogramOpts("batch_size", "Rosters per batch validation request", prometheus.ExponentialBuckets(1, 4, 6)),
	)
	m.workerCount = auto.NewGauge(
		m.gaugeOpts("worker_count", "Workers available for batch validation"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// Enabled reports whether the manager records anything.
func (m *Manager) Enabled() bool { return m.enabled }

// RecordLines counts n OCR lines classified with verdict.
func (m *Manager) RecordLines(verdict string, n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.linesClassified.WithLabelValues(verdict).Add(float64(n))
}

// RecordResolution counts one resolved or unmatched line. Reason is only used
// for unmatched lines.
func (m *Manager) RecordResolution(matched bool, strategy, reason string) {
	if !m.enabled {
		return
	}
	if matched {
		m.resolutions.WithLabelValues("matched", strategy).Inc()
		return
	}
	m.resolutions.WithLabelValues("unmatched", "none").Inc()
	m.unmatched.WithLabelValues(reason).Inc()
}

// RecordResolveLatency records the latency of one resolve batch.
func (m *Manager) RecordResolveLatency(latencyMs float64) {
	if !m.enabled {
		return
	}
	m.resolveLatency.Observe(latencyMs)
}

// UpdateRegistryPlayers sets the registry size.
func (m *Manager) UpdateRegistryPlayers(count int) {
	if !m.enabled {
		return
	}
	m.registryPlayers.Set(float64(count))
}

// RecordValidation counts one validated roster and its failed rules.
func (m *Manager) RecordValidation(valid bool, failedRules []string) {
	if !m.enabled {
		return
	}
	verdict := "invalid"
	if valid {
		verdict = "valid"
	}
	m.rostersValidated.WithLabelValues(verdict).Inc()
	for _, id := range failedRules {
		m.ruleFailures.WithLabelValues(id).Inc()
	}
}

// RecordValidationLatency records the latency of one validation request.
func (m *Manager) RecordValidationLatency(latencyMs float64) {
	if !m.enabled {
		return
	}
	m.validationLatency.Observe(latencyMs)
}

// RecordScore records a roster strength score.
func (m *Manager) RecordScore(score float64) {
	if !m.enabled {
		return
	}
	m.rosterScore.Observe(score)
}

// RecordBatchSize records the number of rosters in one batch request.
func (m *Manager) RecordBatchSize(n int) {
	if !m.enabled {
		return
	}
	m.batchSize.Observe(float64(n))
}

// UpdateWorkerCount sets the batch worker count.
func (m *Manager) UpdateWorkerCount(count int) {
	if !m.enabled {
		return
	}
	m.workerCount.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if !m.enabled {
		return
	}
	m.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// CollectSystem samples memory, goroutine and GC pause figures once.
func (m *Manager) CollectSystem() {
	if !m.enabled {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.systemMemoryUsage.Set(float64(ms.HeapInuse))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
	if ms.NumGC > 0 {
		last := ms.PauseNs[(ms.NumGC+255)%256]
		if m.lastGCPauseNs.Swap(last) != last {
			m.systemGCPauseTime.Observe(float64(last) / float64(time.Millisecond))
		}
	}
}

// RunSystemCollector samples system figures every refresh interval until ctx
// is done.
func (m *Manager) RunSystemCollector(ctx context.Context) {
	ticker := time.NewTicker(m.refreshInterval)
	defer ticker.Stop()
	m.CollectSystem()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CollectSystem()
		}
	}
}

// Package-level helpers record on the default manager.

// RecordLines counts n OCR lines classified with verdict.
func RecordLines(verdict string, n int) { Default().RecordLines(verdict, n) }

// RecordResolution counts one resolved or unmatched line.
func RecordResolution(matched bool, strategy, reason string) {
	Default().RecordResolution(matched, strategy, reason)
}

// RecordResolveLatency records the latency of one resolve batch.
func RecordResolveLatency(latencyMs float64) { Default().RecordResolveLatency(latencyMs) }

// UpdateRegistryPlayers sets the registry size.
func UpdateRegistryPlayers(count int) { Default().UpdateRegistryPlayers(count) }

// RecordValidation counts one validated roster and its failed rules.
func RecordValidation(valid bool, failedRules []string) {
	Default().RecordValidation(valid, failedRules)
}

// RecordValidationLatency records the latency of one validation request.
func RecordValidationLatency(latencyMs float64) { Default().RecordValidationLatency(latencyMs) }

// RecordScore records a roster strength score.
func RecordScore(score float64) { Default().RecordScore(score) }

// RecordBatchSize records the number of rosters in one batch request.
func RecordBatchSize(n int) { Default().RecordBatchSize(n) }

// UpdateWorkerCount sets the batch worker count.
func UpdateWorkerCount(count int) { Default().UpdateWorkerCount(count) }

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	Default().RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	Default().RecordErrorByComponent(component, errorType)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
