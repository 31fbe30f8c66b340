package brew

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var checkCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "packster",
		Subsystem: "brew",
		Name:      "existence_checks_total",
		Help:      "Total number of candidate existence checks, labeled by outcome.",
	},
	[]string{"outcome"},
)
