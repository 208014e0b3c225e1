package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.IncAssessment("phishing", "model")
	m.IncAssessment("phishing", "model")
	m.IncAssessment("suspicious", "prior")
	m.IncExtractionFallback()
	m.IncScorerFallback("unavailable")
	m.IncHistoryWriteError()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AssessmentsTotal.WithLabelValues("phishing", "model")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AssessmentsTotal.WithLabelValues("suspicious", "prior")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionFallbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScorerFallbacks.WithLabelValues("unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HistoryWriteErrors))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.IncExtractionFallback()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.ExtractionFallbacks))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ExtractionFallbacks))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncAssessment("phishing", "model")
		m.IncExtractionFallback()
		m.IncScorerFallback("error")
		m.ObserveScorerLatency(time.Millisecond)
		m.ObserveHTTPRequest("/health", "GET", 200, time.Millisecond)
		m.IncHistoryWriteError()
	})
	assert.Nil(t, m.Registry())
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveHTTPRequest("/predict", "POST", 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `phishlens_http_requests_total{code="200",method="POST",route="/predict"} 1`)
}
