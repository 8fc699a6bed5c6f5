package route

import (
	"errors"
	"fmt"
)

// ErrInvalidRouteTransition is returned when a route status change violates
// the lifecycle: open -> in_progress -> completed.
var ErrInvalidRouteTransition = errors.New("invalid route status transition")

// Status represents the lifecycle state of a courier route.
//
// Only open routes accept new orders (by the assignment pass) and only
// in_progress routes accept courier progress events, which keeps route
// capacity accounting and route execution from mutating the same route
// concurrently.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusOpen is a freshly formed route awaiting a courier.
	StatusOpen

	// StatusInProgress is a route claimed by a courier and being executed.
	StatusInProgress

	// StatusCompleted is terminal: every member order reached a terminal state.
	StatusCompleted
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "unknown",
		StatusOpen:       "open",
		StatusInProgress: "in_progress",
		StatusCompleted:  "completed",
	}
}

// Validate checks that the Status value is one of the defined states.
func (s Status) Validate() error {
	if s < StatusOpen || s > StatusCompleted {
		return fmt.Errorf("%w: %d is not a valid status", ErrInvalidRouteTransition, s)
	}
	return nil
}

// String returns the wire name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Start transitions open -> in_progress.
func (s Status) Start() (Status, error) {
	if s != StatusOpen {
		return StatusUnknown, fmt.Errorf("%w: %s -> %s", ErrInvalidRouteTransition, s, StatusInProgress)
	}
	return StatusInProgress, nil
}

// Complete transitions in_progress -> completed.
func (s Status) Complete() (Status, error) {
	if s != StatusInProgress {
		return StatusUnknown, fmt.Errorf("%w: %s -> %s", ErrInvalidRouteTransition, s, StatusCompleted)
	}
	return StatusCompleted, nil
}
