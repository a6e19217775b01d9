package cart

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "Total number of applied cart mutations",
		},
		[]string{"op"},
	)

	commitFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cart_commit_failures_total",
			Help: "Total number of cart snapshots that failed to persist",
		},
	)

	activeCarts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cart_active_stores",
			Help: "Number of cart stores held in memory",
		},
	)
)

func init() {
	prometheus.MustRegister(
		operationsTotal,
		commitFailuresTotal,
		activeCarts,
	)
}
