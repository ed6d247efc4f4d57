package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Requests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "valuation_requests_total",
			Help: "Total number of valuation core requests by operation and outcome code",
		},
		[]string{"operation", "code"},
	)

	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "valuation_ranking_duration_seconds",
			Help:    "Duration of an all-locations ranking in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)

	RankingCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "valuation_ranking_cache_hits_total",
			Help: "Total number of rankings served from the ranking cache",
		},
	)

	ModelAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "valuation_model_available",
			Help: "1 when the price model is loaded, 0 when the service is degraded",
		},
	)
)
