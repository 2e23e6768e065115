// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of predictions served, by source (model or fallback)",
		},
		[]string{"source"},
	)

	RemotePredictionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_prediction_failures_total",
			Help: "Total number of failed calls to the scoring backend",
		},
		[]string{"reason"},
	)

	ExtractionAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_attempts_total",
			Help: "Total number of voice extraction attempts, by outcome",
		},
		[]string{"outcome"},
	)

	ExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "extraction_duration_seconds",
			Help:    "Duration of a full voice extraction including retries",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)

	ModelInferenceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_inference_duration_seconds",
			Help:    "Duration of a single model inference",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_cache_lookups_total",
			Help: "Prediction cache lookups, by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
