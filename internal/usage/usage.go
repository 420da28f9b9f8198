package usage

import (
	"errors"
	"fmt"
)

// Status is the usage state of a single shower room inside a section.
type Status string

const (
	StatusAvailable Status = "available"
	StatusOccupied  Status = "occupied"
	StatusDisabled  Status = "disabled"
)

// Usage holds the three mutable room counters of a section.
type Usage struct {
	Available     int `json:"available"`
	Occupied      int `json:"occupied"`
	DisabledRooms int `json:"disabled_rooms"`
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusAvailable, StatusOccupied, StatusDisabled:
		return s, nil
	}
	return "", fmt.Errorf("unknown status %q", raw)
}

// counter returns a pointer to the counter that tracks rooms in status s.
func (u *Usage) counter(s Status) *int {
	switch s {
	case StatusAvailable:
		return &u.Available
	case StatusOccupied:
		return &u.Occupied
	case StatusDisabled:
		return &u.DisabledRooms
	}
	return nil
}

// Count returns the number of rooms currently in status s.
func (u Usage) Count(s Status) int {
	if c := u.counter(s); c != nil {
		return *c
	}
	return 0
}

// Total is the sum of all counters.
func (u Usage) Total() int {
	return u.Available + u.Occupied + u.DisabledRooms
}

// Switch moves one room from current to next and returns the new counters.
// It never modifies u. The transition is rejected when either status is
// unknown, when both are equal, or when no room is in the current status.
func Switch(current, next string, u Usage) (Usage, error) {
	from, to, err := validate(current, next)
	if err != nil {
		return u, err
	}

	if u.Count(from) <= 0 {
		return u, exhausted(from, to)
	}

	out := u
	*out.counter(from)--
	*out.counter(to)++
	return out, nil
}

// Columns returns the storage column names for a validated transition, in
// (decrement, increment) order.
func Columns(current, next string) (string, string, error) {
	from, to, err := validate(current, next)
	if err != nil {
		return "", "", err
	}
	return column(from), column(to), nil
}

func column(s Status) string {
	if s == StatusDisabled {
		return "disabled_rooms"
	}
	return string(s)
}

func validate(current, next string) (Status, Status, error) {
	from, errFrom := ParseStatus(current)
	to, errTo := ParseStatus(next)
	if errFrom != nil || errTo != nil || from == to {
		return "", "", &TransitionError{
			From:   Status(current),
			To:     Status(next),
			Reason: ReasonInvalidStatus,
		}
	}
	return from, to, nil
}

func exhausted(from, to Status) error {
	return &TransitionError{From: from, To: to, Reason: ReasonExhausted}
}

// IsExhausted reports whether err rejects a transition because the source
// counter was already zero.
func IsExhausted(err error) bool {
	var te *TransitionError
	return errors.As(err, &te) && te.Reason == ReasonExhausted
}
