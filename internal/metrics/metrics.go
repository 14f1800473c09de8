// Package metrics exposes Prometheus counters for the gesture pipeline.
// They are served on /metrics by the internal/server package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// FramesProcessed counts camera frames run through the pipeline.
	FramesProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mudra_frames_processed_total",
			Help: "Total number of camera frames processed",
		},
	)

	// Readings counts finger-count readings by observed count.
	Readings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mudra_readings_total",
			Help: "Total number of finger-count readings",
		},
		[]string{"count"},
	)

	// TriggersAccepted counts triggers that passed debounce and cooldown.
	TriggersAccepted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mudra_triggers_accepted_total",
			Help: "Total number of accepted triggers",
		},
		[]string{"action"},
	)

	// TriggersSuppressed counts triggers swallowed by the cooldown gate.
	TriggersSuppressed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mudra_triggers_suppressed_total",
			Help: "Total number of triggers suppressed by the cooldown gate",
		},
	)

	// InvocationOutcomes counts finished action workers by outcome.
	InvocationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mudra_invocations_total",
			Help: "Total number of finished action invocations",
		},
		[]string{"action", "outcome"},
	)

	// ActionDuration observes wall-clock runtime of action workers.
	ActionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "mudra_action_duration_seconds",
			Help: "Duration of action worker executions",
		},
		[]string{"action"},
	)
)

func init() {
	prometheus.MustRegister(
		FramesProcessed,
		Readings,
		TriggersAccepted,
		TriggersSuppressed,
		InvocationOutcomes,
		ActionDuration,
	)
}
