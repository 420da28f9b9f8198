package usage

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition matches every rejected transition via errors.Is.
var ErrInvalidTransition = errors.New("invalid transition")

// Reason classifies why a transition was rejected.
type Reason int

const (
	ReasonInvalidStatus Reason = iota + 1
	ReasonExhausted
)

// TransitionError describes a rejected status transition.
type TransitionError struct {
	From   Status
	To     Status
	Reason Reason
}

func (e *TransitionError) Error() string {
	if e.Reason == ReasonInvalidStatus {
		return fmt.Sprintf("invalid status: %q -> %q", e.From, e.To)
	}

	switch e.From {
	case StatusAvailable:
		if e.To == StatusDisabled {
			return "no more sections are available to disable"
		}
		return "no more sections are available"
	case StatusOccupied:
		if e.To == StatusDisabled {
			return "no more sections are occupied to disable"
		}
		return "no more sections are occupied"
	case StatusDisabled:
		if e.To == StatusOccupied {
			return "no more sections are disabled to occupy"
		}
		return "no more sections are disabled"
	}
	return fmt.Sprintf("no more sections are %s", e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
