package bets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolvedTotal counts bet resolutions by model and result status.
	ResolvedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olas_predict_bets_resolved_total",
		Help: "Total number of bet resolutions by model and status",
	}, []string{"model", "status"})

	// ResolveDurationSeconds tracks end-to-end bet resolution latency.
	ResolveDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "olas_predict_bets_resolve_duration_seconds",
		Help:    "Duration of bet resolution including upstream fetches",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})
)
