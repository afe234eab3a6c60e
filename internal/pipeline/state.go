// Package pipeline provides the selection and submission controller that
// drives one generation session: artifact selection, a single in-flight
// generation request, and the resulting trailer.
package pipeline

import (
	"errors"
	"slices"
)

// State represents the current phase of a pipeline session.
type State string

const (
	// StateIdle indicates no request has been issued; an artifact may be staged.
	StateIdle State = "IDLE"
	// StateProcessing indicates a generation request is in flight.
	StateProcessing State = "PROCESSING"
	// StateComplete indicates a trailer was received and normalized.
	StateComplete State = "COMPLETE"
	// StateFailed indicates the request failed. It is transient and always
	// collapses back to StateIdle with a surfaced notice.
	StateFailed State = "FAILED"
)

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("pipeline: invalid state transition")

// validTransitions defines which state transitions are allowed.
var validTransitions = map[State][]State{
	StateIdle:       {StateIdle, StateProcessing},
	StateProcessing: {StateComplete, StateFailed, StateIdle},
	StateComplete:   {StateIdle},
	StateFailed:     {StateIdle},
}

// canTransition checks if a transition from one state to another is valid.
func canTransition(from, to State) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	return slices.Contains(allowed, to)
}
