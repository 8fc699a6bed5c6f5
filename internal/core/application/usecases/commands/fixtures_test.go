package commands_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/route"
	"marketplace/internal/core/domain/model/stock"

	"github.com/stretchr/testify/require"
)

const (
	testReservationTTL = 17 * time.Minute
	testDeliverySLA    = 4 * time.Hour
)

func testPickupPoint(t *testing.T) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(41.7151, 44.8271)
	require.NoError(t, err)
	return p
}

func testDeliveryPoint(t *testing.T) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(41.7089, 44.7730)
	require.NoError(t, err)
	return p
}

func testOrderItem(t *testing.T, size kernel.ParcelSize) order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), 1, 25, size)
	require.NoError(t, err)
	return item
}

// orderInStatus builds an order restored in the given lifecycle status.
func orderInStatus(t *testing.T, id kernel.UUID, status order.Status) *order.Order {
	t.Helper()

	now := time.Now().UTC().Add(-time.Minute)
	var paidAt *time.Time
	if status != order.StatusCreated && status != order.StatusPaymentPending {
		at := now.Add(30 * time.Second)
		paidAt = &at
	}

	o, err := order.RestoreOrder(order.RestoreOrderParams{
		ID:                   id,
		Items:                []order.Item{testOrderItem(t, kernel.SizeMedium)},
		Pickup:               testPickupPoint(t),
		Delivery:             testDeliveryPoint(t),
		ShippingPrice:        9.60,
		DistanceKm:           4.6,
		CreatedAt:            now,
		ReservationExpiresAt: now.Add(testReservationTTL),
		DeliveryDeadline:     now.Add(testDeliverySLA),
		PaidAt:               paidAt,
		Status:               status,
	})
	require.NoError(t, err)
	return o
}

func heldReservation(t *testing.T, orderID kernel.UUID) *stock.Reservation {
	t.Helper()
	r, err := stock.NewReservation(
		kernel.NewUUID(), orderID, kernel.NewUUID(), 2, time.Now().UTC(), testReservationTTL)
	require.NoError(t, err)
	return r
}

func inProgressRoute(t *testing.T, courierID kernel.UUID, orderIDs ...kernel.UUID) *route.Route {
	t.Helper()

	now := time.Now().UTC()
	stops := make([]route.Stop, 0, len(orderIDs))
	for _, id := range orderIDs {
		stops = append(stops, route.Stop{OrderID: id, Weight: 2, Deadline: now.Add(testDeliverySLA)})
	}

	r, err := route.RestoreRoute(route.RestoreRouteParams{
		ID:             kernel.NewUUID(),
		CourierID:      &courierID,
		Capacity:       8,
		DeadlineSpread: 2 * time.Hour,
		Stops:          stops,
		Status:         route.StatusInProgress,
		CreatedAt:      now,
	})
	require.NoError(t, err)
	return r
}
