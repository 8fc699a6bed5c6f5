package order

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrItemsAreRequired is returned when creating an order without items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// Order is the aggregate root for one checkout's worth of items destined for
// one delivery.
//
// Invariants:
//   - shippingPrice and distanceKm are computed exactly once, when the order
//     becomes payable (construction), and are immutable thereafter. Later
//     re-pricing would break buyer/seller trust and courier compensation.
//   - totalPrice = itemsPrice + shippingPrice.
//   - the order-level parcel size is the maximum size class across items.
//   - status changes go through the lifecycle table; illegal transitions fail
//     with ErrInvalidTransition and leave the order unchanged.
type Order struct {
	id      kernel.UUID
	buyerID *kernel.UUID // nil for guest checkout
	items   []Item

	itemsPrice    float64
	shippingPrice float64

	pickup     kernel.GeoPoint
	delivery   kernel.GeoPoint
	distanceKm float64
	size       kernel.ParcelSize

	createdAt            time.Time
	reservationExpiresAt time.Time
	deliveryDeadline     time.Time
	paidAt               *time.Time
	pickedUpAt           *time.Time
	deliveredAt          *time.Time

	status  Status
	routeID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewOrder creates an order at checkout time, in StatusCreated.
//
// shippingPrice and distanceKm come from the shipping price calculator and
// are frozen here; reservationTTL and deliverySLA are configuration values
// anchored to now. buyerID may be nil for guest checkout.
func NewOrder(
	id kernel.UUID,
	buyerID *kernel.UUID,
	items []Item,
	pickup kernel.GeoPoint,
	delivery kernel.GeoPoint,
	shippingPrice float64,
	distanceKm float64,
	now time.Time,
	reservationTTL time.Duration,
	deliverySLA time.Duration,
) (*Order, error) {
	o := &Order{
		status: StatusCreated,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setBuyerID(buyerID),
		o.setItems(items),
		o.setPickup(pickup),
		o.setDelivery(delivery),
		o.setShippingPrice(shippingPrice),
		o.setDistanceKm(distanceKm),
	); err != nil {
		return nil, err
	}

	o.createdAt = now
	o.reservationExpiresAt = now.Add(reservationTTL)
	o.deliveryDeadline = now.Add(deliverySLA)

	return o, nil
}

// RestoreOrderParams carries the persisted state of an order back into the
// domain. Used only by persistence adapters.
type RestoreOrderParams struct {
	ID                   kernel.UUID
	BuyerID              *kernel.UUID
	Items                []Item
	Pickup               kernel.GeoPoint
	Delivery             kernel.GeoPoint
	ShippingPrice        float64
	DistanceKm           float64
	CreatedAt            time.Time
	ReservationExpiresAt time.Time
	DeliveryDeadline     time.Time
	PaidAt               *time.Time
	PickedUpAt           *time.Time
	DeliveredAt          *time.Time
	Status               Status
	RouteID              *kernel.UUID
}

// RestoreOrder reconstructs an order aggregate from persistent storage,
// preserving its lifecycle state. The restored order behaves identically to
// one built through normal domain operations.
func RestoreOrder(params RestoreOrderParams) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(params.ID),
		o.setBuyerID(params.BuyerID),
		o.setItems(params.Items),
		o.setPickup(params.Pickup),
		o.setDelivery(params.Delivery),
		o.setShippingPrice(params.ShippingPrice),
		o.setDistanceKm(params.DistanceKm),
		o.setStatus(params.Status),
		o.setRouteID(params.RouteID),
	); err != nil {
		return nil, err
	}

	o.createdAt = params.CreatedAt
	o.reservationExpiresAt = params.ReservationExpiresAt
	o.deliveryDeadline = params.DeliveryDeadline
	o.paidAt = params.PaidAt
	o.pickedUpAt = params.PickedUpAt
	o.deliveredAt = params.DeliveredAt

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// BuyerID returns the owning buyer, or nil for a guest order.
func (o *Order) BuyerID() *kernel.UUID {
	return o.buyerID
}

// Items returns the order lines in checkout order.
func (o *Order) Items() []Item {
	return o.items
}

// ItemsPrice returns the sum of line totals.
func (o *Order) ItemsPrice() float64 {
	return o.itemsPrice
}

// ShippingPrice returns the delivery price frozen at creation.
func (o *Order) ShippingPrice() float64 {
	return o.shippingPrice
}

// TotalPrice returns itemsPrice + shippingPrice.
func (o *Order) TotalPrice() float64 {
	return o.itemsPrice + o.shippingPrice
}

// Pickup returns the store's registered coordinates.
func (o *Order) Pickup() kernel.GeoPoint {
	return o.pickup
}

// Delivery returns the buyer-supplied coordinates.
func (o *Order) Delivery() kernel.GeoPoint {
	return o.delivery
}

// DistanceKm returns the pickup-to-delivery great-circle distance frozen at creation.
func (o *Order) DistanceKm() float64 {
	return o.distanceKm
}

// Size returns the order-level parcel size (maximum across items).
func (o *Order) Size() kernel.ParcelSize {
	return o.size
}

// SizeWeight returns the route-capacity units the order consumes.
func (o *Order) SizeWeight() int {
	return o.size.Weight()
}

// CreatedAt returns the checkout timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// ReservationExpiresAt returns when the stock hold lapses without payment.
func (o *Order) ReservationExpiresAt() time.Time {
	return o.reservationExpiresAt
}

// DeliveryDeadline returns createdAt plus the delivery SLA window.
func (o *Order) DeliveryDeadline() time.Time {
	return o.deliveryDeadline
}

// PaidAt returns the payment confirmation time, or nil.
func (o *Order) PaidAt() *time.Time {
	return o.paidAt
}

// PickedUpAt returns the courier pickup time, or nil.
func (o *Order) PickedUpAt() *time.Time {
	return o.pickedUpAt
}

// DeliveredAt returns the delivery time, or nil.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// RouteID returns the route the order is bundled into, or nil while it sits
// in the unassigned pool.
func (o *Order) RouteID() *kernel.UUID {
	return o.routeID
}

// DeliveredOnTime reports whether the order was delivered before its
// deadline. False when the order has not been delivered.
func (o *Order) DeliveredOnTime() bool {
	return o.deliveredAt != nil && !o.deliveredAt.After(o.deliveryDeadline)
}

// BeginPayment moves the order from created to payment_pending once its
// stock is held.
func (o *Order) BeginPayment() error {
	return o.transition(StatusPaymentPending)
}

// ConfirmPayment records the payment gateway's success result.
func (o *Order) ConfirmPayment(at time.Time) error {
	if err := o.transition(StatusPaid); err != nil {
		return err
	}
	o.paidAt = &at
	return nil
}

// MarkReadyForDelivery places the paid order into the unassigned pool.
// Requires a confirmed payment; the frozen shipping price and distance are
// guaranteed by construction.
func (o *Order) MarkReadyForDelivery() error {
	if o.paidAt == nil {
		return fmt.Errorf("%w: %s -> %s (payment not confirmed)",
			ErrInvalidTransition, o.status, StatusReadyForDelivery)
	}
	return o.transition(StatusReadyForDelivery)
}

// AssignToRoute bundles the order into a route. Performed only by the route
// assignment pass so capacity invariants are checked exactly once.
func (o *Order) AssignToRoute(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	if err := o.transition(StatusAssignedToRoute); err != nil {
		return err
	}

	o.routeID = &routeID
	return nil
}

// MarkPickedUp records the courier collecting the parcel.
func (o *Order) MarkPickedUp(at time.Time) error {
	if err := o.transition(StatusPickedUp); err != nil {
		return err
	}
	o.pickedUpAt = &at
	return nil
}

// Deliver records a successful delivery. Terminal.
func (o *Order) Deliver(at time.Time) error {
	if err := o.transition(StatusDelivered); err != nil {
		return err
	}
	o.deliveredAt = &at
	return nil
}

// FailDelivery records a failed delivery attempt reported by the courier. Terminal.
func (o *Order) FailDelivery() error {
	return o.transition(StatusFailedDelivery)
}

// Cancel terminates the order from any pre-pickup state.
func (o *Order) Cancel() error {
	return o.transition(StatusCancelled)
}

// Expire terminates the order after its stock reservation lapsed before
// payment. Only legal from created or payment_pending.
func (o *Order) Expire() error {
	return o.transition(StatusExpired)
}

func (o *Order) transition(target Status) error {
	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setBuyerID(buyerID *kernel.UUID) error {
	if buyerID != nil {
		if err := buyerID.Validate(); err != nil {
			return err
		}
	}
	o.buyerID = buyerID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	sizes := make([]kernel.ParcelSize, 0, len(items))
	itemsPrice := 0.0
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		sizes = append(sizes, item.Size())
		itemsPrice += item.LineTotal()
	}

	size, err := kernel.MaxParcelSize(sizes)
	if err != nil {
		return err
	}

	o.items = items
	o.itemsPrice = itemsPrice
	o.size = size
	return nil
}

func (o *Order) setPickup(pickup kernel.GeoPoint) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	o.pickup = pickup
	return nil
}

func (o *Order) setDelivery(delivery kernel.GeoPoint) error {
	if err := delivery.Validate(); err != nil {
		return err
	}
	o.delivery = delivery
	return nil
}

func (o *Order) setShippingPrice(shippingPrice float64) error {
	if shippingPrice <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("shipping price",
			fmt.Errorf("%f is not greater than 0", shippingPrice))
	}
	o.shippingPrice = shippingPrice
	return nil
}

func (o *Order) setDistanceKm(distanceKm float64) error {
	if distanceKm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("distance",
			fmt.Errorf("%f is negative", distanceKm))
	}
	o.distanceKm = distanceKm
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setRouteID(routeID *kernel.UUID) error {
	if routeID != nil {
		if err := routeID.Validate(); err != nil {
			return err
		}
	}
	o.routeID = routeID
	return nil
}
