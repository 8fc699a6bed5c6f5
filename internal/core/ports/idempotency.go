package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// IdempotencyStore deduplicates checkout submissions by client-supplied key.
// A retry carrying the same key within the retention window gets the order
// created by the first attempt instead of a second charge.
type IdempotencyStore interface {
	// Claim records the key and returns true when this caller is the first
	// to use it. When false, the order id stored by the first caller is
	// returned.
	Claim(ctx context.Context, key string, orderID kernel.UUID, ttl time.Duration) (bool, kernel.UUID, error)
}
