package mapper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	itemCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "packster",
			Subsystem: "mapper",
			Name:      "items_total",
			Help:      "Total number of packages mapped, labeled by decision.",
		},
		[]string{"decision"},
	)
	mapDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "packster",
			Subsystem: "mapper",
			Name:      "map_duration_seconds",
			Help:      "The duration of mapping a single package, including validation.",
		},
	)
)
