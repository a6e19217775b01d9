package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusOK      = "ok"
	statusFailed  = "failed"
	statusSkipped = "skipped"
)

var (
	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_events_published_total",
			Help: "Cart events written to Kafka",
		},
		[]string{"type", "status"},
	)

	eventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_events_consumed_total",
			Help: "Cart events read from Kafka",
		},
		[]string{"type", "status"},
	)
)

func init() {
	prometheus.MustRegister(eventsPublished, eventsConsumed)
}
