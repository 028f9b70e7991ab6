package enums

import "fmt"

// NegotiationState tracks the custom recipe quote lifecycle.
type NegotiationState string

const (
	NegotiationStatePendingQuote NegotiationState = "pending_quote"
	NegotiationStateQuoted       NegotiationState = "quoted"
	NegotiationStateAccepted     NegotiationState = "accepted"
	NegotiationStateRejected     NegotiationState = "rejected"
)

var validNegotiationStates = []NegotiationState{
	NegotiationStatePendingQuote,
	NegotiationStateQuoted,
	NegotiationStateAccepted,
	NegotiationStateRejected,
}

// String implements fmt.Stringer.
func (n NegotiationState) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NegotiationState.
func (n NegotiationState) IsValid() bool {
	for _, candidate := range validNegotiationStates {
		if candidate == n {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (n NegotiationState) IsTerminal() bool {
	return n == NegotiationStateAccepted || n == NegotiationStateRejected
}

// ParseNegotiationState converts raw input into a NegotiationState.
func ParseNegotiationState(value string) (NegotiationState, error) {
	for _, candidate := range validNegotiationStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid negotiation state %q", value)
}
