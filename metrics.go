package arbiter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// resolutions counts layers successfully resolved from a space.
	resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbiter_resolutions_total",
			Help: "The total number of layer configurations resolved from a layer space",
		},
		[]string{"layer"},
	)

	resolveErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbiter_resolve_errors_total",
			Help: "The total number of failed layer space resolutions",
		},
		[]string{"layer"},
	)

	memoHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbiter_memo_hits_total",
		Help: "The total number of resolutions served from a memo",
	})

	memoMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbiter_memo_misses_total",
		Help: "The total number of resolutions a memo had to compute",
	})
)
