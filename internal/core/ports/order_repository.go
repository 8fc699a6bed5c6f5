package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllReadyForDelivery retrieves the unassigned pool consumed by the
	// route planner.
	GetAllReadyForDelivery(ctx context.Context) ([]*order.Order, error)

	// GetAllByRoute retrieves every order assigned to the given route.
	GetAllByRoute(ctx context.Context, routeID kernel.UUID) ([]*order.Order, error)

	// GetDeliveredByCourier retrieves orders delivered on the courier's
	// routes with DeliveredAt in [from, to). A zero from means no lower
	// bound. Used by the dispatch analytics aggregator.
	GetDeliveredByCourier(
		ctx context.Context, courierID kernel.UUID, from, to time.Time,
	) ([]*order.Order, error)
}
