package services_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/route"
	"marketplace/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlanner(t *testing.T, capacity int) services.RoutePlanner {
	t.Helper()
	planner, err := services.NewRoutePlanner(services.PlannerConfig{
		RouteCapacity:   capacity,
		ClusterRadiusKm: 5,
		DeadlineSpread:  2 * time.Hour,
	})
	require.NoError(t, err)
	return planner
}

// readyOrder builds an order in ready_for_delivery with the given size and
// delivery deadline. All orders share one pickup neighbourhood so cluster
// checks pass unless a test moves a point on purpose.
func readyOrder(
	t *testing.T, size kernel.ParcelSize, now time.Time, deadline time.Time,
) *order.Order {
	t.Helper()

	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), 1, 10, size)
	require.NoError(t, err)
	pickup, err := kernel.NewGeoPoint(41.7151, 44.8271)
	require.NoError(t, err)
	delivery, err := kernel.NewGeoPoint(41.7089, 44.7730)
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.RestoreOrderParams{
		ID:                   kernel.NewUUID(),
		Items:                []order.Item{item},
		Pickup:               pickup,
		Delivery:             delivery,
		ShippingPrice:        9.60,
		DistanceKm:           4.6,
		CreatedAt:            now,
		ReservationExpiresAt: now.Add(17 * time.Minute),
		DeliveryDeadline:     deadline,
		Status:               order.StatusReadyForDelivery,
	})
	require.NoError(t, err)
	return o
}

func assignedRoute(t *testing.T, routes []*route.Route, o *order.Order) *route.Route {
	t.Helper()
	for _, r := range routes {
		if r.Contains(o.ID()) {
			return r
		}
	}
	t.Fatalf("order %s is on no route", o.ID())
	return nil
}

func TestRoutePlannerPlan(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(4 * time.Hour)

	t.Run("splits pool across routes when capacity overflows", func(t *testing.T) {
		planner := testPlanner(t, 4)

		// Five medium orders weigh 2 each; capacity 4 fits two per route.
		pool := make([]*order.Order, 5)
		for i := range pool {
			pool[i] = readyOrder(t, kernel.SizeMedium, now, deadline)
		}

		result, err := planner.Plan(pool, now)

		require.NoError(t, err)
		assert.Empty(t, result.Flagged)
		require.Len(t, result.Routes, 3)

		for _, o := range pool {
			r := assignedRoute(t, result.Routes, o)
			assert.Equal(t, order.StatusAssignedToRoute, o.Status())
			require.NotNil(t, o.RouteID())
			assert.True(t, o.RouteID().IsEqual(r.ID()))
		}
		for _, r := range result.Routes {
			assert.LessOrEqual(t, r.Load(), 4)
			assert.Equal(t, route.StatusOpen, r.Status())
		}
	})

	t.Run("most urgent order seeds the first route", func(t *testing.T) {
		planner := testPlanner(t, 2)

		relaxed := readyOrder(t, kernel.SizeMedium, now, deadline.Add(3*time.Hour))
		urgent := readyOrder(t, kernel.SizeMedium, now, deadline)

		result, err := planner.Plan([]*order.Order{relaxed, urgent}, now)

		require.NoError(t, err)
		require.Len(t, result.Routes, 2)
		assert.True(t, result.Routes[0].Contains(urgent.ID()))
		assert.True(t, result.Routes[1].Contains(relaxed.ID()))
	})

	t.Run("deadline window keeps incompatible orders apart", func(t *testing.T) {
		planner := testPlanner(t, 10)

		early := readyOrder(t, kernel.SizeSmall, now, deadline)
		late := readyOrder(t, kernel.SizeSmall, now, deadline.Add(3*time.Hour))

		result, err := planner.Plan([]*order.Order{early, late}, now)

		require.NoError(t, err)
		require.Len(t, result.Routes, 2)
	})

	t.Run("orders outside the cluster radius go on separate routes", func(t *testing.T) {
		planner := testPlanner(t, 10)

		local := readyOrder(t, kernel.SizeSmall, now, deadline)
		remote := readyOrder(t, kernel.SizeSmall, now, deadline)
		farPickup, err := kernel.NewGeoPoint(48.8566, 2.3522)
		require.NoError(t, err)
		remote, err = order.RestoreOrder(order.RestoreOrderParams{
			ID:                   remote.ID(),
			Items:                remote.Items(),
			Pickup:               farPickup,
			Delivery:             remote.Delivery(),
			ShippingPrice:        remote.ShippingPrice(),
			DistanceKm:           remote.DistanceKm(),
			CreatedAt:            remote.CreatedAt(),
			ReservationExpiresAt: remote.ReservationExpiresAt(),
			DeliveryDeadline:     remote.DeliveryDeadline(),
			Status:               order.StatusReadyForDelivery,
		})
		require.NoError(t, err)

		result, err := planner.Plan([]*order.Order{local, remote}, now)

		require.NoError(t, err)
		require.Len(t, result.Routes, 2)
	})

	t.Run("flags orders whose deadline already passed", func(t *testing.T) {
		planner := testPlanner(t, 10)

		missed := readyOrder(t, kernel.SizeSmall, now, now.Add(-time.Minute))
		onTime := readyOrder(t, kernel.SizeSmall, now, deadline)

		result, err := planner.Plan([]*order.Order{missed, onTime}, now)

		require.NoError(t, err)
		require.Len(t, result.Flagged, 1)
		assert.True(t, result.Flagged[0].IsEqual(missed))
		assert.Equal(t, order.StatusReadyForDelivery, missed.Status())
		require.Len(t, result.Routes, 1)
		assert.True(t, result.Routes[0].Contains(onTime.ID()))
	})

	t.Run("flags orders too heavy for any route and keeps planning", func(t *testing.T) {
		planner := testPlanner(t, 3)

		oversized := readyOrder(t, kernel.SizeExtraLarge, now, deadline)
		small := readyOrder(t, kernel.SizeSmall, now, deadline)

		result, err := planner.Plan([]*order.Order{oversized, small}, now)

		require.NoError(t, err)
		require.Len(t, result.Flagged, 1)
		assert.True(t, result.Flagged[0].IsEqual(oversized))
		assert.Equal(t, order.StatusReadyForDelivery, oversized.Status())
		assert.Nil(t, oversized.RouteID())
		require.Len(t, result.Routes, 1)
		assert.True(t, result.Routes[0].Contains(small.ID()))
	})

	t.Run("rejects orders that are not ready for delivery", func(t *testing.T) {
		planner := testPlanner(t, 10)

		paid := readyOrder(t, kernel.SizeSmall, now, deadline)
		require.NoError(t, paid.AssignToRoute(kernel.NewUUID()))

		_, err := planner.Plan([]*order.Order{paid}, now)
		require.Error(t, err)
	})

	t.Run("empty pool plans nothing", func(t *testing.T) {
		planner := testPlanner(t, 10)

		result, err := planner.Plan(nil, now)

		require.NoError(t, err)
		assert.Empty(t, result.Routes)
		assert.Empty(t, result.Flagged)
	})

	t.Run("unconstructed planner fails", func(t *testing.T) {
		var planner services.RoutePlanner
		_, err := planner.Plan(nil, now)
		require.ErrorIs(t, err, services.ErrRoutePlannerIsNotConstructed)
	})
}
