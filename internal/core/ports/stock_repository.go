package ports

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/stock"
)

// ErrInsufficientStock is returned by Reserve when the available quantity of
// a product cannot cover the requested hold.
var ErrInsufficientStock = errors.New("insufficient stock")

// StockRepository defines the persistence contract for stock levels and
// reservation aggregates. Reserve and the release paths must be atomic with
// respect to concurrent checkouts of the same product; implementations lock
// the stock row for the duration of the adjustment.
type StockRepository interface {
	// Reserve atomically decrements available stock and persists a hold for
	// each reservation. Fails with ErrInsufficientStock when any product
	// cannot cover its quantity; no partial holds survive a failure.
	Reserve(ctx context.Context, reservations []*stock.Reservation) error

	// Update persists changes to an existing reservation aggregate.
	Update(ctx context.Context, aggregate *stock.Reservation) error

	// GetByOrder retrieves all reservations held for an order.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*stock.Reservation, error)

	// GetExpired retrieves held reservations whose expiry instant has passed,
	// up to limit. Used by the expiry sweep.
	GetExpired(ctx context.Context, now time.Time, limit int) ([]*stock.Reservation, error)

	// Restock atomically adds the reservation's quantity back to available
	// stock. Called together with Reservation.Release.
	Restock(ctx context.Context, aggregate *stock.Reservation) error
}
