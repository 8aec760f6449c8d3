package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReconcileRuns counts reconciliation passes by outcome (ok, schema_drift, error, locked).
	ReconcileRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "airline",
			Subsystem: "cancellation",
			Name:      "reconcile_runs_total",
			Help:      "The total number of cancellation reconciliation passes",
		},
		[]string{"outcome"},
	)

	// RefundsCompleted counts bookings moved from pending_cancellation to cancelled.
	RefundsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "airline",
			Subsystem: "cancellation",
			Name:      "refunds_completed_total",
			Help:      "The total number of bookings whose refund was completed",
		},
	)

	// ReconcileFailures counts bookings that could not be advanced during a pass.
	ReconcileFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "airline",
			Subsystem: "cancellation",
			Name:      "reconcile_failures_total",
			Help:      "The total number of bookings that failed to persist during reconciliation",
		},
	)

	// CancellationsRequested counts accepted cancellation requests.
	CancellationsRequested = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "airline",
			Subsystem: "cancellation",
			Name:      "requested_total",
			Help:      "The total number of accepted cancellation requests",
		},
	)

	// ReconcileDuration tracks how long a reconciliation pass takes.
	ReconcileDuration = promauto.NewSummary(
		prometheus.SummaryOpts{
			Namespace:  "airline",
			Subsystem:  "cancellation",
			Name:       "reconcile_duration_seconds",
			Help:       "Time spent in a cancellation reconciliation pass",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
	)
)
