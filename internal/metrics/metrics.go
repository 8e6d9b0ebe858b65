// Package metrics exposes Prometheus instrumentation for the engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SourceFetches counts adapter calls by game type and outcome (ok, error)
	SourceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "theraplay_source_fetches_total",
		Help: "Session fetches against upstream game services.",
	}, []string{"game_type", "outcome"})

	// SourceFetchDuration observes adapter call latency per game type
	SourceFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "theraplay_source_fetch_duration_seconds",
		Help:    "Latency of session fetches against upstream game services.",
		Buckets: prometheus.DefBuckets,
	}, []string{"game_type"})

	// ReportsCreated counts performance reports persisted
	ReportsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "theraplay_reports_created_total",
		Help: "Performance reports created.",
	})

	// ReportsReviewed counts successful review transitions
	ReportsReviewed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "theraplay_reports_reviewed_total",
		Help: "Performance reports reviewed by a clinician.",
	})
)

// Handler serves the Prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
