package achievements

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LookupErrorsTotal counts failed lookup file loads during og-image resolution.
	LookupErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "olas_predict_achievements_lookup_errors_total",
		Help: "Total number of failed achievement lookup file loads",
	})

	// PagesWarmedTotal counts warmed achievement pages by outcome.
	PagesWarmedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olas_predict_achievements_pages_warmed_total",
		Help: "Total number of achievement pages requested by the warmer",
	}, []string{"outcome"})
)
