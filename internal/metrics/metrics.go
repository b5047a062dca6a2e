package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder defines the interface for recording gateway metrics.
// Implementations are Metrics (Prometheus-based) and NoopMetrics.
type Recorder interface {
	// Token operations
	RecordLogin(success bool, duration time.Duration)
	RecordLogout(status int)
	RecordTokenCheck(status int, duration time.Duration)

	// User operations
	RecordUserOperation(operation string, status int, duration time.Duration)

	// Local validation
	RecordValidationFailure(rule string)

	// Backend transport failures
	RecordBackendError(operation string)
}

// Ensure Metrics implements Recorder at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the gateway
type Metrics struct {
	LoginTotal    *prometheus.CounterVec
	LoginDuration prometheus.Histogram

	LogoutTotal *prometheus.CounterVec

	TokenCheckTotal    *prometheus.CounterVec
	TokenCheckDuration prometheus.Histogram

	UserOperationsTotal   *prometheus.CounterVec
	UserOperationDuration *prometheus.HistogramVec

	ValidationFailuresTotal *prometheus.CounterVec

	BackendErrorsTotal *prometheus.CounterVec

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init returns Prometheus-based metrics when enabled, NoopMetrics
// otherwise. Prometheus collectors are only registered once per process.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

func initMetrics() *Metrics {
	return &Metrics{
		LoginTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authfront_login_total",
				Help: "Total number of login attempts forwarded to the identity backend",
			},
			[]string{"result"}, // success, failure
		),
		LoginDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "authfront_login_duration_seconds",
				Help:    "Time taken to complete a login round-trip",
				Buckets: prometheus.DefBuckets,
			},
		),

		LogoutTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authfront_logout_total",
				Help: "Total number of logout calls by backend status class",
			},
			[]string{"status_class"}, // 2xx, 4xx, 5xx
		),

		TokenCheckTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authfront_token_check_total",
				Help: "Total number of token validation calls by backend status class",
			},
			[]string{"status_class"},
		),
		TokenCheckDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "authfront_token_check_duration_seconds",
				Help:    "Time taken to validate a token against the backend",
				Buckets: prometheus.DefBuckets,
			},
		),

		UserOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authfront_user_operations_total",
				Help: "Total number of user operations by backend status class",
			},
			[]string{"operation", "status_class"},
		),
		UserOperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authfront_user_operation_duration_seconds",
				Help:    "Backend round-trip time per user operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		ValidationFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authfront_validation_failures_total",
				Help: "Total number of local credential rule violations",
			},
			[]string{"rule"},
		),

		BackendErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authfront_backend_errors_total",
				Help: "Total number of identity backend transport failures",
			},
			[]string{"operation"},
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.001, 0.005, 0.010, 0.025, 0.050,
					0.100, 0.250, 0.500, 1.0, 2.5, 5.0, 10.0,
				},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),
	}
}

func (m *Metrics) RecordLogin(success bool, duration time.Duration) {
	result := resultFailure
	if success {
		result = resultSuccess
	}
	m.LoginTotal.WithLabelValues(result).Inc()
	m.LoginDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordLogout(status int) {
	m.LogoutTotal.WithLabelValues(statusClass(status)).Inc()
}

func (m *Metrics) RecordTokenCheck(status int, duration time.Duration) {
	m.TokenCheckTotal.WithLabelValues(statusClass(status)).Inc()
	m.TokenCheckDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordUserOperation(operation string, status int, duration time.Duration) {
	m.UserOperationsTotal.WithLabelValues(operation, statusClass(status)).Inc()
	m.UserOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *Metrics) RecordValidationFailure(rule string) {
	m.ValidationFailuresTotal.WithLabelValues(rule).Inc()
}

func (m *Metrics) RecordBackendError(operation string) {
	m.BackendErrorsTotal.WithLabelValues(operation).Inc()
}

// statusClass buckets a status code into 2xx/3xx/4xx/5xx for low-cardinality labels.
func statusClass(status int) string {
	switch {
	case status >= 200 && status <= 299:
		return "2xx"
	case status >= 300 && status <= 399:
		return "3xx"
	case status >= 400 && status <= 499:
		return "4xx"
	case status >= 500 && status <= 599:
		return "5xx"
	default:
		return "other"
	}
}
