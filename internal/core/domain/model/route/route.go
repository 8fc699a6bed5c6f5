// Package route contains the Route aggregate: a bounded-capacity batch of
// deliveries assigned to one courier for one trip.
package route

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	// ErrRouteIsNotConstructed is returned when a Route was not created
	// through NewRoute or RestoreRoute.
	ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute or RestoreRoute constructor")

	// ErrRouteCapacityExceeded is returned when adding an order would push the
	// sum of size weights past the vehicle capacity. The order stays in the
	// pool; this is a backlog condition, not a caller-facing failure.
	ErrRouteCapacityExceeded = errors.New("route capacity exceeded")

	// ErrDeadlineIncompatible is returned when an order's delivery deadline
	// does not fit the route's deadline window.
	ErrDeadlineIncompatible = errors.New("order deadline incompatible with route deadline window")

	// ErrRouteIsEmpty is returned when accepting a route with no stops.
	ErrRouteIsEmpty = errors.New("route has no orders")
)

// Stop is one delivery inside a route: the order reference, the capacity
// weight it consumes, and its delivery deadline. Stops are kept in planned
// visiting order.
type Stop struct {
	OrderID  kernel.UUID
	Weight   int
	Deadline time.Time
}

// Route is a courier's batch of deliveries.
//
// Invariants:
//   - the sum of stop weights never exceeds the declared vehicle capacity
//   - every stop's deadline lies within deadlineSpread of the earliest
//     deadline in the route, so one trip can plausibly satisfy all of them
//   - stops are only added while the route is open; progress events only
//     apply while it is in progress
type Route struct {
	id             kernel.UUID
	courierID      *kernel.UUID
	capacity       int
	deadlineSpread time.Duration
	stops          []Stop
	status         Status
	createdAt      time.Time
	completedAt    *time.Time

	guard guard.ConstructorGuard
}

// NewRoute creates an empty open route with the given vehicle capacity and
// deadline-compatibility window.
func NewRoute(id kernel.UUID, capacity int, deadlineSpread time.Duration, now time.Time) (*Route, error) {
	r := &Route{
		status:    StatusOpen,
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setCapacity(capacity),
		r.setDeadlineSpread(deadlineSpread),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRouteParams carries the persisted state of a route back into the
// domain. Used only by persistence adapters.
type RestoreRouteParams struct {
	ID             kernel.UUID
	CourierID      *kernel.UUID
	Capacity       int
	DeadlineSpread time.Duration
	Stops          []Stop
	Status         Status
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// RestoreRoute reconstructs a route aggregate from persistent storage.
func RestoreRoute(params RestoreRouteParams) (*Route, error) {
	r := &Route{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(params.ID),
		r.setCapacity(params.Capacity),
		r.setDeadlineSpread(params.DeadlineSpread),
		r.setCourierID(params.CourierID),
		r.setStatus(params.Status),
	); err != nil {
		return nil, err
	}

	r.stops = params.Stops
	r.createdAt = params.CreatedAt
	r.completedAt = params.CompletedAt

	return r, nil
}

// Validate ensures the Route instance was properly constructed.
func (r *Route) Validate() error {
	if r == nil {
		return ErrRouteIsNotConstructed
	}
	return r.guard.Validate(ErrRouteIsNotConstructed)
}

// ID returns the route's unique identifier.
func (r *Route) ID() kernel.UUID {
	return r.id
}

// CourierID returns the courier executing the route, or nil while the route
// awaits acceptance.
func (r *Route) CourierID() *kernel.UUID {
	return r.courierID
}

// Capacity returns the vehicle capacity in size-weight units.
func (r *Route) Capacity() int {
	return r.capacity
}

// DeadlineSpread returns the allowed window between the earliest and latest
// stop deadline.
func (r *Route) DeadlineSpread() time.Duration {
	return r.deadlineSpread
}

// Stops returns the member deliveries in planned visiting order.
func (r *Route) Stops() []Stop {
	return r.stops
}

// Load returns the sum of stop weights.
func (r *Route) Load() int {
	load := 0
	for _, stop := range r.stops {
		load += stop.Weight
	}
	return load
}

// Status returns the route lifecycle status.
func (r *Route) Status() Status {
	return r.status
}

// CreatedAt returns when the assignment pass formed the route.
func (r *Route) CreatedAt() time.Time {
	return r.createdAt
}

// CompletedAt returns when the route finished, or nil.
func (r *Route) CompletedAt() *time.Time {
	return r.completedAt
}

// Contains reports whether the order is a member of the route.
func (r *Route) Contains(orderID kernel.UUID) bool {
	for _, stop := range r.stops {
		if stop.OrderID.IsEqual(orderID) {
			return true
		}
	}
	return false
}

// CanFit reports whether an order of the given weight and deadline could be
// added without violating capacity or the deadline window. No side effects.
func (r *Route) CanFit(weight int, deadline time.Time) bool {
	if r.status != StatusOpen || weight <= 0 {
		return false
	}
	if r.Load()+weight > r.capacity {
		return false
	}
	return r.deadlineFits(deadline)
}

// AddStop appends a delivery to the route.
//
// Fails with ErrRouteCapacityExceeded when the weight does not fit, with
// ErrDeadlineIncompatible when the deadline falls outside the route's window,
// and with ErrInvalidRouteTransition when the route is no longer open. The
// route is unchanged on failure.
func (r *Route) AddStop(orderID kernel.UUID, weight int, deadline time.Time) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	if r.status != StatusOpen {
		return fmt.Errorf("%w: cannot add orders to a %s route", ErrInvalidRouteTransition, r.status)
	}

	if weight <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weight",
			fmt.Errorf("%d is not greater than 0", weight))
	}

	if r.Load()+weight > r.capacity {
		return fmt.Errorf("%w: load %d + %d exceeds capacity %d",
			ErrRouteCapacityExceeded, r.Load(), weight, r.capacity)
	}

	if !r.deadlineFits(deadline) {
		return ErrDeadlineIncompatible
	}

	r.stops = append(r.stops, Stop{OrderID: orderID, Weight: weight, Deadline: deadline})
	return nil
}

// Accept assigns the route to a courier and starts execution.
// Requires at least one stop; after acceptance the route stops taking orders.
func (r *Route) Accept(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if len(r.stops) == 0 {
		return ErrRouteIsEmpty
	}

	newStatus, err := r.status.Start()
	if err != nil {
		return err
	}

	r.status = newStatus
	r.courierID = &courierID
	return nil
}

// Complete finishes the route once every member order is terminal.
func (r *Route) Complete(at time.Time) error {
	newStatus, err := r.status.Complete()
	if err != nil {
		return err
	}

	r.status = newStatus
	r.completedAt = &at
	return nil
}

// deadlineFits checks the candidate deadline against every existing stop:
// the spread between the earliest and latest deadline, candidate included,
// must not exceed the route's window.
func (r *Route) deadlineFits(deadline time.Time) bool {
	earliest, latest := deadline, deadline
	for _, stop := range r.stops {
		if stop.Deadline.Before(earliest) {
			earliest = stop.Deadline
		}
		if stop.Deadline.After(latest) {
			latest = stop.Deadline
		}
	}
	return latest.Sub(earliest) <= r.deadlineSpread
}

func (r *Route) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Route) setCourierID(courierID *kernel.UUID) error {
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return err
		}
	}
	r.courierID = courierID
	return nil
}

func (r *Route) setCapacity(capacity int) error {
	if capacity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("capacity",
			fmt.Errorf("%d is not greater than 0", capacity))
	}
	r.capacity = capacity
	return nil
}

func (r *Route) setDeadlineSpread(spread time.Duration) error {
	if spread <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("deadline spread",
			fmt.Errorf("%s is not greater than 0", spread))
	}
	r.deadlineSpread = spread
	return nil
}

func (r *Route) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	r.status = status
	return nil
}
