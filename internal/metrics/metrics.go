package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics of the predictor
type Registry struct {
	registry *prometheus.Registry

	PredictionsTotal   *prometheus.CounterVec
	PredictionErrors   *prometheus.CounterVec
	PredictionDuration prometheus.Histogram
	UpstreamFallbacks  *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New creates a registry with every metric registered, plus Go runtime collectors
func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		PredictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whalepredictor_predictions_total",
				Help: "Predictions produced by recommendation, timeframe and price data source",
			},
			[]string{"recommendation", "timeframe", "source"},
		),

		PredictionErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whalepredictor_prediction_errors_total",
				Help: "Failed predictions and non-fatal prediction side effects by stage",
			},
			[]string{"stage"},
		),

		PredictionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "whalepredictor_prediction_duration_seconds",
				Help:    "Wall time of a full prediction including input gathering",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),

		UpstreamFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whalepredictor_upstream_fallbacks_total",
				Help: "Times an input source failed and a fallback value was used",
			},
			[]string{"source"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whalepredictor_http_requests_total",
				Help: "HTTP API requests by route and status",
			},
			[]string{"method", "route", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "whalepredictor_http_request_duration_seconds",
				Help:    "HTTP API request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.PredictionsTotal,
		r.PredictionErrors,
		r.PredictionDuration,
		r.UpstreamFallbacks,
		r.HTTPRequests,
		r.HTTPDuration,
	)

	return r
}

// Gatherer exposes the underlying registry for tests
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
