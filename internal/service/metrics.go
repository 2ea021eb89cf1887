package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total number of executed searches",
		},
		[]string{"has_query"},
	)

	searchResultCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_result_count",
			Help:    "Distribution of pre-pagination result counts",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
	)

	cacheEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_cache_events_total",
			Help: "Read-side cache hits and misses",
		},
		[]string{"op", "result"},
	)
)
