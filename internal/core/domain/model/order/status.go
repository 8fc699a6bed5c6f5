package order

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a status change violates the
// lifecycle table. An illegal transition indicates a programming or race
// defect; callers must log it with the order id and attempted transition and
// leave the order unchanged.
var ErrInvalidTransition = errors.New("invalid order status transition")

// Status represents the lifecycle state of an order.
// Transition validity is expressed as an explicit table checked before every
// mutation, so an order can never hold a status it did not legally reach.
//
// State transitions:
//
//	created ──> payment_pending ──> paid ──> ready_for_delivery ──> assigned_to_route ──> picked_up ──> delivered
//	   │               │              │               │                    │                  └──> failed_delivery
//	   ├──> expired <──┤              │               │                    │
//	   └──────────> cancelled <───────┴───────────────┴────────────────────┘
//
// delivered, failed_delivery, expired, and cancelled are terminal.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusCreated is the initial status assigned at checkout, while stock
	// is being reserved and the order is not yet payable.
	StatusCreated

	// StatusPaymentPending indicates stock is held and the order awaits the
	// payment gateway's asynchronous result.
	StatusPaymentPending

	// StatusPaid indicates payment succeeded and the stock hold has been
	// converted into a permanent decrement.
	StatusPaid

	// StatusReadyForDelivery places the order in the unassigned pool consumed
	// by the route assignment pass.
	StatusReadyForDelivery

	// StatusAssignedToRoute indicates the order belongs to an open route.
	// Only the route assignment pass performs this transition.
	StatusAssignedToRoute

	// StatusPickedUp indicates the courier collected the parcel.
	StatusPickedUp

	// StatusDelivered is terminal: the parcel reached the buyer.
	StatusDelivered

	// StatusExpired is terminal: the stock reservation lapsed before payment.
	StatusExpired

	// StatusCancelled is terminal: the order was explicitly cancelled before
	// pickup.
	StatusCancelled

	// StatusFailedDelivery is terminal: the courier reported a failed
	// delivery attempt.
	StatusFailedDelivery
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:          "unknown",
		StatusCreated:          "created",
		StatusPaymentPending:   "payment_pending",
		StatusPaid:             "paid",
		StatusReadyForDelivery: "ready_for_delivery",
		StatusAssignedToRoute:  "assigned_to_route",
		StatusPickedUp:         "picked_up",
		StatusDelivered:        "delivered",
		StatusExpired:          "expired",
		StatusCancelled:        "cancelled",
		StatusFailedDelivery:   "failed_delivery",
	}
}

// validTransitions is the single source of truth for the order lifecycle.
// Every forward transition requires its preceding state; no transition may
// skip states.
func validTransitions() map[Status][]Status {
	return map[Status][]Status{
		StatusCreated:          {StatusPaymentPending, StatusExpired, StatusCancelled},
		StatusPaymentPending:   {StatusPaid, StatusExpired, StatusCancelled},
		StatusPaid:             {StatusReadyForDelivery, StatusCancelled},
		StatusReadyForDelivery: {StatusAssignedToRoute, StatusCancelled},
		StatusAssignedToRoute:  {StatusPickedUp, StatusCancelled},
		StatusPickedUp:         {StatusDelivered, StatusFailedDelivery},
		StatusDelivered:        {},
		StatusExpired:          {},
		StatusCancelled:        {},
		StatusFailedDelivery:   {},
	}
}

// Validate checks that the Status value is one of the defined states.
func (s Status) Validate() error {
	if _, ok := validTransitions()[s]; !ok {
		return fmt.Errorf("%w: %d is not a valid status", ErrInvalidTransition, s)
	}
	return nil
}

// String returns the wire name of the status.
// Implements fmt.Stringer and is safe on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// CanTransitionTo reports whether the lifecycle table allows moving from the
// current status to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range validTransitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target if the transition is legal, or
// ErrInvalidTransition (annotated with both states) without any side effect.
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return StatusUnknown, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, target)
	}
	return target, nil
}

// IsTerminal reports whether no further fulfillment transitions exist.
func (s Status) IsTerminal() bool {
	return len(validTransitions()[s]) == 0 && s.Validate() == nil
}
