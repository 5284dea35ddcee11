package liveagents

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AverageGauge is the last successfully computed 7-day average.
	AverageGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "olas_predict_live_agents_7d_average",
		Help: "Floored 7-day average of daily active predict agents",
	})

	// FetchesTotal counts average computations by result status.
	FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olas_predict_live_agents_fetches_total",
		Help: "Total number of live agents computations by status",
	}, []string{"status"})

	// FetchDurationSeconds tracks the registry query plus aggregation time.
	FetchDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "olas_predict_live_agents_fetch_duration_seconds",
		Help:    "Duration of live agents computations",
		Buckets: prometheus.DefBuckets,
	})
)
