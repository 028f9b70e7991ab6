package enums

import "fmt"

// AssignmentState tracks a shopping request from creation through delivery.
type AssignmentState string

const (
	AssignmentStatePending    AssignmentState = "pending"
	AssignmentStateInProgress AssignmentState = "in_progress"
	AssignmentStateDelivered  AssignmentState = "delivered"
	AssignmentStateConfirmed  AssignmentState = "confirmed"
	AssignmentStateDisputed   AssignmentState = "disputed"
	AssignmentStateCancelled  AssignmentState = "cancelled"
)

var validAssignmentStates = []AssignmentState{
	AssignmentStatePending,
	AssignmentStateInProgress,
	AssignmentStateDelivered,
	AssignmentStateConfirmed,
	AssignmentStateDisputed,
	AssignmentStateCancelled,
}

// String implements fmt.Stringer.
func (a AssignmentState) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AssignmentState.
func (a AssignmentState) IsValid() bool {
	for _, candidate := range validAssignmentStates {
		if candidate == a {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether target is a valid successor of the current state.
// Claiming collapses pending straight into in_progress; there is no
// intermediate accepted state.
func (a AssignmentState) CanTransitionTo(target AssignmentState) bool {
	switch a {
	case AssignmentStatePending:
		return target == AssignmentStateInProgress || target == AssignmentStateCancelled
	case AssignmentStateInProgress:
		return target == AssignmentStateDelivered
	case AssignmentStateDelivered:
		return target == AssignmentStateConfirmed || target == AssignmentStateDisputed
	default:
		return false
	}
}

// ParseAssignmentState converts raw input into an AssignmentState.
func ParseAssignmentState(value string) (AssignmentState, error) {
	for _, candidate := range validAssignmentStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assignment state %q", value)
}
