package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, c.Write(&pb))
	return pb.GetCounter().GetValue()
}

func TestObserveHelpers(t *testing.T) {
	m := New()

	m.ObservePrediction("Apple healthy")
	m.ObservePrediction("Apple healthy")
	m.ObserveInference(10*time.Millisecond, nil)
	m.ObserveInference(10*time.Millisecond, errors.New("boom"))
	m.ObserveCacheHit()

	assert.InDelta(t, 2, counterValue(t, m.predictions.WithLabelValues("Apple healthy")), 0)
	assert.InDelta(t, 1, counterValue(t, m.inferenceErrors), 0)
	assert.InDelta(t, 1, counterValue(t, m.cacheHits), 0)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObservePrediction("x")
		m.ObserveInference(time.Second, nil)
		m.ObserveCacheHit()
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.InDelta(t, 1, counterValue(t, m.requestCount.WithLabelValues("/healthz", "GET", "200")), 0)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "leafcheck_http_requests_total")
}
