package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the dashboard
type Metrics struct {
	// Aggregation metrics
	AggregationTotal    *prometheus.CounterVec
	AggregationDuration *prometheus.HistogramVec
	RecordsDropped      *prometheus.CounterVec
	SnapshotWritesTotal prometheus.Counter

	// External API metrics
	ExternalAPIRequestsTotal *prometheus.CounterVec
	ExternalAPIErrorsTotal   *prometheus.CounterVec
	ExternalAPIDuration      *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// globalMetrics is the global metrics instance
var globalMetrics *Metrics

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	m := &Metrics{
		AggregationTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "helens_dashboard",
				Subsystem: "aggregation",
				Name:      "runs_total",
				Help:      "Total number of aggregation passes by kind and source tier",
			},
			[]string{"kind", "source"},
		),
		AggregationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "helens_dashboard",
				Subsystem: "aggregation",
				Name:      "duration_seconds",
				Help:      "Duration of aggregation passes in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"kind"},
		),
		RecordsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "helens_dashboard",
				Subsystem: "aggregation",
				Name:      "records_dropped_total",
				Help:      "Total number of quote records skipped during enrichment",
			},
			[]string{"kind"},
		),
		SnapshotWritesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "helens_dashboard",
				Subsystem: "aggregation",
				Name:      "snapshot_writes_total",
				Help:      "Total number of movers snapshots persisted for the cached tier",
			},
		),

		ExternalAPIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "helens_dashboard",
				Subsystem: "external_api",
				Name:      "requests_total",
				Help:      "Total number of external API requests",
			},
			[]string{"service", "operation"},
		),
		ExternalAPIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "helens_dashboard",
				Subsystem: "external_api",
				Name:      "errors_total",
				Help:      "Total number of external API errors",
			},
			[]string{"service", "operation", "error_type"},
		),
		ExternalAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "helens_dashboard",
				Subsystem: "external_api",
				Name:      "duration_seconds",
				Help:      "Duration of external API calls in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"service", "operation"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "helens_dashboard",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "helens_dashboard",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),

		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "helens_dashboard",
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"endpoint"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "helens_dashboard",
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Total number of circuit breaker trips",
			},
			[]string{"endpoint"},
		),
	}

	return m
}

// InitMetrics initializes the global metrics instance
func InitMetrics() *Metrics {
	globalMetrics = NewMetrics(nil)
	return globalMetrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		return InitMetrics()
	}
	return globalMetrics
}

// RecordAggregation records an aggregation pass and its source tier
func (m *Metrics) RecordAggregation(kind, source string) {
	m.AggregationTotal.WithLabelValues(kind, source).Inc()
}

// RecordDroppedRecords records quote records skipped during enrichment
func (m *Metrics) RecordDroppedRecords(kind string, n int) {
	if n > 0 {
		m.RecordsDropped.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordSnapshotWrite records a persisted movers snapshot
func (m *Metrics) RecordSnapshotWrite() {
	m.SnapshotWritesTotal.Inc()
}

// RecordExternalAPIRequest records an external API request
func (m *Metrics) RecordExternalAPIRequest(service, operation string) {
	m.ExternalAPIRequestsTotal.WithLabelValues(service, operation).Inc()
}

// RecordExternalAPIError records an external API error
func (m *Metrics) RecordExternalAPIError(service, operation, errorType string) {
	m.ExternalAPIErrorsTotal.WithLabelValues(service, operation, errorType).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetCircuitBreakerState sets the current state of a circuit breaker
func (m *Metrics) SetCircuitBreakerState(endpoint string, state int) {
	m.CircuitBreakerState.WithLabelValues(endpoint).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(endpoint string) {
	m.CircuitBreakerTrips.WithLabelValues(endpoint).Inc()
}

// Timer is a helper for timing operations
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer creates a new timer
func (m *Metrics) NewTimer() *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
	}
}

// ObserveAggregation records the aggregation duration
func (t *Timer) ObserveAggregation(kind string) {
	t.metrics.AggregationDuration.WithLabelValues(kind).Observe(time.Since(t.start).Seconds())
}

// ObserveExternalAPI records the external API duration
func (t *Timer) ObserveExternalAPI(service, operation string) {
	t.metrics.ExternalAPIDuration.WithLabelValues(service, operation).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
