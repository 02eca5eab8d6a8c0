// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prediction outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadtime_api_predictions_total",
		Help: "Prediction requests by outcome.",
	}, []string{"outcome"})

	ScoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "leadtime_api_scoring_duration_seconds",
		Help:    "Time spent resolving features and scoring the model.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	CatalogRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "leadtime_api_catalog_records",
		Help: "Records loaded per reference catalog.",
	}, []string{"entity"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadtime_api_cache_lookups_total",
		Help: "Prediction cache lookups by result.",
	}, []string{"result"})

	EventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leadtime_api_events_published_total",
		Help: "Prediction events published to Redis.",
	})
)

// RecordCatalogCounts sets the catalog gauge from entity -> count.
func RecordCatalogCounts(counts map[string]int) {
	for entity, n := range counts {
		CatalogRecords.WithLabelValues(entity).Set(float64(n))
	}
}
