// Package metrics exposes prometheus collectors for the http server and the classifier.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors of the service.
type Metrics struct {
	registry *prometheus.Registry

	requestCount      *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	predictions       *prometheus.CounterVec
	inferenceDuration prometheus.Histogram
	inferenceErrors   prometheus.Counter
	cacheHits         prometheus.Counter
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leafcheck",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			}, []string{"path", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "leafcheck",
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			}, []string{"path"},
		),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leafcheck",
				Name:      "predictions_total",
				Help:      "Number of classifications by predicted label",
			}, []string{"label"},
		),
		inferenceDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "leafcheck",
				Name:      "inference_duration_seconds",
				Help:      "Duration of model server calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		inferenceErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "leafcheck",
				Name:      "inference_errors_total",
				Help:      "Number of failed model server calls",
			},
		),
		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "leafcheck",
				Name:      "prediction_cache_hits_total",
				Help:      "Number of predictions served from the cache",
			},
		),
	}

	m.registry.MustRegister(
		m.requestCount,
		m.requestDuration,
		m.predictions,
		m.inferenceDuration,
		m.inferenceErrors,
		m.cacheHits,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records count and duration of every request, keyed by route pattern.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requestCount.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}
}

// ObservePrediction counts a classification result.
func (m *Metrics) ObservePrediction(label string) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(label).Inc()
}

// ObserveInference records the duration of a model call and whether it failed.
func (m *Metrics) ObserveInference(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.inferenceDuration.Observe(d.Seconds())
	if err != nil {
		m.inferenceErrors.Inc()
	}
}

// ObserveCacheHit counts a prediction served from the cache.
func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}
