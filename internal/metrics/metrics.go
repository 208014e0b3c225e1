package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "phishlens"

// Metrics holds all Prometheus metrics for the application. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	AssessmentsTotal    *prometheus.CounterVec
	ExtractionFallbacks prometheus.Counter
	ScorerFallbacks     *prometheus.CounterVec
	ScorerLatency       prometheus.Histogram
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HistoryWriteErrors  prometheus.Counter
}

// NewMetrics registers every collector on a fresh registry, so several instances
// (one per test, for example) never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AssessmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "URLs assessed, by prediction and probability source.",
		}, []string{"prediction", "source"}),
		ExtractionFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_fallbacks_total",
			Help:      "Extractions that fell back to the all-zero vector.",
		}),
		ScorerFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scorer_fallbacks_total",
			Help:      "Assessments that used the default prior, by reason.",
		}, []string{"reason"}), // 'unavailable', 'error'
		ScorerLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scorer_latency_seconds",
			Help:      "Time spent obtaining the raw probability.",
			Buckets:   prometheus.DefBuckets,
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		HistoryWriteErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_write_errors_total",
			Help:      "Scan results that could not be persisted.",
		}),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) IncAssessment(prediction, source string) {
	if m == nil {
		return
	}
	m.AssessmentsTotal.WithLabelValues(prediction, source).Inc()
}

func (m *Metrics) IncExtractionFallback() {
	if m == nil {
		return
	}
	m.ExtractionFallbacks.Inc()
}

func (m *Metrics) IncScorerFallback(reason string) {
	if m == nil {
		return
	}
	m.ScorerFallbacks.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveScorerLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.ScorerLatency.Observe(d.Seconds())
}

func (m *Metrics) ObserveHTTPRequest(route, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func (m *Metrics) IncHistoryWriteError() {
	if m == nil {
		return
	}
	m.HistoryWriteErrors.Inc()
}
