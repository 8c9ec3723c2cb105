package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the search API.
var (
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shirabe",
			Name:      "searches_total",
			Help:      "Total number of search requests",
		},
		[]string{"kind"},
	)

	searchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shirabe",
			Name:      "search_duration_seconds",
			Help:      "Search request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind"},
	)

	indexSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shirabe",
			Name:      "index_size",
			Help:      "Number of items currently in the index",
		},
	)

	analyticsEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shirabe",
			Name:      "analytics_events_total",
			Help:      "Total analytics events recorded",
		},
	)
)
