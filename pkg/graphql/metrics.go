package graphql

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDurationSeconds tracks subgraph query latency.
	RequestDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "olas_predict_graphql_request_duration_seconds",
		Help:    "Duration of GraphQL requests by operation",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// RequestErrorsTotal tracks failed subgraph queries.
	RequestErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olas_predict_graphql_request_errors_total",
		Help: "Total number of failed GraphQL requests by operation",
	}, []string{"operation"})
)
