package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olas_predict_cache_hits_total",
		Help: "Total number of cache hits by key namespace",
	}, []string{"namespace"})

	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olas_predict_cache_misses_total",
		Help: "Total number of cache misses by key namespace",
	}, []string{"namespace"})

	CacheSetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olas_predict_cache_sets_total",
		Help: "Total number of admitted cache sets by key namespace",
	}, []string{"namespace"})

	CacheRejectedSetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olas_predict_cache_rejected_sets_total",
		Help: "Total number of cache sets dropped by admission",
	}, []string{"namespace"})
)
