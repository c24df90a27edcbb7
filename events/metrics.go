package events

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var lifecycleEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mentorship_events_total",
		Help: "Domain events by type",
	},
	[]string{"type"},
)

// Metrics counts published events per type.
type Metrics struct{}

func (Metrics) Publish(_ context.Context, event Event) error {
	lifecycleEvents.WithLabelValues(string(event.Type)).Inc()
	return nil
}
