package workflow

import (
	"errors"
	"strings"
)

var (
	// ErrWorkflowNotFound is returned for unknown workflow ids.
	ErrWorkflowNotFound = errors.New("workflow not found")
	// ErrInvalidStateTransition is returned when a target state is not
	// adjacent to the current one, or when governance blocks the exit from
	// GOVERNANCE_PENDING.
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrDecisionAlreadyAttached is returned on a second governance decision.
	ErrDecisionAlreadyAttached = errors.New("governance decision already attached")
	// ErrTerminatorClaimed is returned when the termination capability has
	// already been handed out.
	ErrTerminatorClaimed = errors.New("terminator already claimed")
	// ErrValidation matches any *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
)

// ValidationError lists every problem found in a rejected input.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Messages, "; ")
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: messages}
}
