// Package metrics defines the Prometheus collectors for the predictor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Catalog lookup outcomes.
const (
	OutcomeFound       = "found"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
	OutcomeUnavailable = "unavailable" // Short-circuited by the breaker
)

var (
	// Predictions counts completed predictions by popularity class.
	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "song_popularity_predictions_total",
			Help: "Completed predictions by popularity class.",
		},
		[]string{"class"},
	)

	// CatalogLookups counts catalog lookups by outcome.
	CatalogLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "song_popularity_catalog_lookups_total",
			Help: "Catalog lookups by outcome.",
		},
		[]string{"outcome"},
	)

	// CatalogLatency observes catalog lookup duration in seconds.
	CatalogLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "song_popularity_catalog_lookup_duration_seconds",
			Help:    "Catalog lookup latency.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// BreakerState is 0 when closed, 1 when half-open and 2 when open.
	BreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "song_popularity_catalog_breaker_state",
			Help: "Catalog circuit breaker state (0 closed, 1 half-open, 2 open).",
		},
	)
)
