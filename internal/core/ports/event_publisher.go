package ports

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// OrderEventPublisher notifies downstream consumers (notifications, search,
// seller dashboards) about order lifecycle changes. Publishing is
// best-effort: a failed publish is logged, never rolled into the business
// transaction.
type OrderEventPublisher interface {
	// PublishOrderChanged emits the order's current state keyed by order id.
	PublishOrderChanged(ctx context.Context, aggregate *order.Order) error
}
