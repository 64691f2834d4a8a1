package backend

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/utafrali/counterdesk/pkg/errors"
)

var (
	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "counterdesk_backend_requests_total",
			Help: "Total number of caixa backend calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "counterdesk_backend_request_duration_seconds",
			Help:    "Duration of caixa backend calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func observe(op string, start time.Time, err error) {
	backendRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	backendRequestsTotal.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrBackendRejected):
		return "rejected"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrServiceUnavail):
		return "unavailable"
	case errors.Is(err, apperrors.ErrTransport):
		return "transport"
	default:
		return "error"
	}
}
