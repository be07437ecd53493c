// Package metrics provides Prometheus metrics collection for the air
// quality service. Metrics cover prediction throughput, failures, latency,
// the distribution of predicted CO concentrations, and per-level severity
// counts, all exposed via the Prometheus metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	Predictions        prometheus.Counter   // Total number of successful predictions
	PredictionFailures prometheus.Counter   // Total number of failed analysis runs
	ModelUnavailable   prometheus.Counter   // Predictions rejected because the model never loaded
	PredictionLatency  prometheus.Histogram // End-to-end analysis latency in seconds
	PredictionValues   prometheus.Histogram // Distribution of predicted CO concentrations
	ModelAge           prometheus.Gauge     // Age of the loaded model artifact in seconds
	Severity           *prometheus.CounterVec // Analyses by severity level
	AnalysesStored     prometheus.Counter   // Analysis records persisted to the history store
}

// New creates and registers all Prometheus metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		Predictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of successful CO concentration predictions",
		}),
		PredictionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "prediction_failures_total",
			Help: "Total number of failed analysis runs",
		}),
		ModelUnavailable: factory.NewCounter(prometheus.CounterOpts{
			Name: "model_unavailable_total",
			Help: "Predictions rejected because the model artifact never loaded",
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_latency_seconds",
			Help:    "End-to-end analysis latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),
		PredictionValues: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "co_prediction_values",
			Help:    "Distribution of predicted CO concentrations in mg/m3",
			Buckets: prometheus.LinearBuckets(0, 1.5, 11),
		}),
		ModelAge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "model_age_seconds",
			Help: "Age of the loaded model artifact in seconds",
		}),
		Severity: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "severity_total",
			Help: "Completed analyses by severity level",
		}, []string{"level"}),
		AnalysesStored: factory.NewCounter(prometheus.CounterOpts{
			Name: "analyses_stored_total",
			Help: "Analysis records persisted to the history store",
		}),
	}
}
