package workspace

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	staleSuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "counterdesk_stale_suggestions_total",
			Help: "Search responses dropped because a newer search was issued",
		},
		[]string{"target"},
	)

	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "counterdesk_sessions_active",
			Help: "Current number of operator workspaces",
		},
	)

	sessionsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "counterdesk_sessions_expired_total",
			Help: "Total number of workspaces dropped after idling past their TTL",
		},
	)

	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "counterdesk_submissions_total",
			Help: "Total number of order submissions by target and result",
		},
		[]string{"target", "result"},
	)
)
