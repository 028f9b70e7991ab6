package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LifecycleMetrics counts state machine transitions and the conflicts they
// lose. Claim contention on shopping requests shows up here as the ratio of
// conflict to success for the claim transition.
type LifecycleMetrics struct {
	transitions *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
}

// NewLifecycleMetrics registers the lifecycle metrics on the provided registerer.
func NewLifecycleMetrics(reg prometheus.Registerer) *LifecycleMetrics {
	if reg == nil {
		return &LifecycleMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecycle_transitions_total",
		Help: "Successful record state transitions.",
	}, []string{"record", "transition"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecycle_conflicts_total",
		Help: "Transitions rejected because another actor moved the record first.",
	}, []string{"record", "transition"})
	reg.MustRegister(transitions, conflicts)
	return &LifecycleMetrics{
		transitions: transitions,
		conflicts:   conflicts,
	}
}

// IncTransition records a committed transition for the named record type.
func (l *LifecycleMetrics) IncTransition(record, transition string) {
	if l == nil || l.transitions == nil {
		return
	}
	l.transitions.WithLabelValues(normalizeLabel(record), normalizeLabel(transition)).Inc()
}

// IncConflict records a transition that lost to a concurrent actor.
func (l *LifecycleMetrics) IncConflict(record, transition string) {
	if l == nil || l.conflicts == nil {
		return
	}
	l.conflicts.WithLabelValues(normalizeLabel(record), normalizeLabel(transition)).Inc()
}
