// Package stock contains the StockReservation aggregate: a short-lived hold
// of product quantity tied to one order item, released automatically on
// expiry or converted into a permanent decrement on payment confirmation.
package stock

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrReservationIsNotConstructed is returned when a Reservation was not
// created through NewReservation or RestoreReservation.
var ErrReservationIsNotConstructed = errors.New(
	"Reservation must be created via NewReservation or RestoreReservation constructor")

// ReservationStatus is the hold state of a reservation.
type ReservationStatus int

const (
	// ReservationUnknown represents an invalid or undefined status.
	ReservationUnknown ReservationStatus = iota

	// ReservationHeld is an active hold awaiting payment or expiry.
	ReservationHeld

	// ReservationConfirmed is a hold converted into a permanent stock decrement.
	ReservationConfirmed

	// ReservationReleased is a hold returned to available stock.
	ReservationReleased
)

func getReservationStatusStrings() map[ReservationStatus]string {
	return map[ReservationStatus]string{
		ReservationUnknown:   "unknown",
		ReservationHeld:      "held",
		ReservationConfirmed: "confirmed",
		ReservationReleased:  "released",
	}
}

// Validate checks that the status is one of the defined states.
func (s ReservationStatus) Validate() error {
	if s < ReservationHeld || s > ReservationReleased {
		return errs.NewValueIsInvalidErrorWithCause("reservation status",
			fmt.Errorf("%d is not a valid reservation status", s))
	}
	return nil
}

// String returns the wire name of the status.
func (s ReservationStatus) String() string {
	if str, ok := getReservationStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Reservation is a hold of quantity N of one product, tied 1:1 to one order
// item, with an expiry timestamp.
//
// Confirm and Release are idempotent with respect to each other and to
// repeated calls: a reservation that already left the held state reports no
// change instead of failing, because the expiry sweep and a concurrent
// payment confirmation can race on the same hold.
type Reservation struct {
	id        kernel.UUID
	orderID   kernel.UUID
	productID kernel.UUID
	quantity  int
	status    ReservationStatus
	createdAt time.Time
	expiresAt time.Time

	guard guard.ConstructorGuard
}

// NewReservation creates an active hold expiring after ttl.
func NewReservation(
	id kernel.UUID,
	orderID kernel.UUID,
	productID kernel.UUID,
	quantity int,
	now time.Time,
	ttl time.Duration,
) (*Reservation, error) {
	r := &Reservation{
		status:    ReservationHeld,
		createdAt: now,
		expiresAt: now.Add(ttl),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setOrderID(orderID),
		r.setProductID(productID),
		r.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreReservation reconstructs a reservation from persistent storage.
func RestoreReservation(
	id kernel.UUID,
	orderID kernel.UUID,
	productID kernel.UUID,
	quantity int,
	status ReservationStatus,
	createdAt time.Time,
	expiresAt time.Time,
) (*Reservation, error) {
	r := &Reservation{
		createdAt: createdAt,
		expiresAt: expiresAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setOrderID(orderID),
		r.setProductID(productID),
		r.setQuantity(quantity),
		r.setStatus(status),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate ensures the Reservation was properly constructed.
func (r *Reservation) Validate() error {
	if r == nil {
		return ErrReservationIsNotConstructed
	}
	return r.guard.Validate(ErrReservationIsNotConstructed)
}

// ID returns the reservation's unique identifier.
func (r *Reservation) ID() kernel.UUID {
	return r.id
}

// OrderID returns the order holding the stock.
func (r *Reservation) OrderID() kernel.UUID {
	return r.orderID
}

// ProductID returns the product whose stock is held.
func (r *Reservation) ProductID() kernel.UUID {
	return r.productID
}

// Quantity returns the held quantity.
func (r *Reservation) Quantity() int {
	return r.quantity
}

// Status returns the hold state.
func (r *Reservation) Status() ReservationStatus {
	return r.status
}

// CreatedAt returns when the hold was taken.
func (r *Reservation) CreatedAt() time.Time {
	return r.createdAt
}

// ExpiresAt returns when the hold lapses without payment.
func (r *Reservation) ExpiresAt() time.Time {
	return r.expiresAt
}

// IsExpired reports whether the hold has lapsed at the given instant while
// still held.
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.status == ReservationHeld && now.After(r.expiresAt)
}

// Confirm converts the hold into a permanent stock decrement.
// Returns true when the state changed; false for an idempotent no-op on a
// reservation that already left the held state.
func (r *Reservation) Confirm() bool {
	if r.status != ReservationHeld {
		return false
	}
	r.status = ReservationConfirmed
	return true
}

// Release returns the held quantity to available stock.
// Returns true when the state changed; false for an idempotent no-op. A
// confirmed reservation is never released: the decrement became permanent
// when payment was confirmed.
func (r *Reservation) Release() bool {
	if r.status != ReservationHeld {
		return false
	}
	r.status = ReservationReleased
	return true
}

func (r *Reservation) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Reservation) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	r.orderID = orderID
	return nil
}

func (r *Reservation) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	r.productID = productID
	return nil
}

func (r *Reservation) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	r.quantity = quantity
	return nil
}

func (r *Reservation) setStatus(status ReservationStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	r.status = status
	return nil
}
