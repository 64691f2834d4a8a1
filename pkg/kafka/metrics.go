package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Audit publishing is best effort, so these are the only place a lost event
// becomes visible.
var (
	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "counterdesk_audit_events_published_total",
			Help: "Audit events written to Kafka",
		},
		[]string{"topic"},
	)

	eventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "counterdesk_audit_events_failed_total",
			Help: "Audit events the Kafka writer rejected",
		},
		[]string{"topic"},
	)

	publishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "counterdesk_audit_publish_duration_seconds",
			Help:    "Time spent writing one audit event",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"topic"},
	)
)
