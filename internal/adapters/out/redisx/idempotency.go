// Package redisx implements checkout idempotency on Redis. The first
// submission of a key claims it with SET NX; retries read back the order id
// the first attempt stored.
package redisx

import (
	"context"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const checkoutKeyPrefix = "checkout:idem:"

// IdempotencyStore implements ports.IdempotencyStore on Redis.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates a store over the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Claim records the key and returns true when this caller is the first to
// use it. When the key is already claimed, the stored order id is returned.
func (s *IdempotencyStore) Claim(
	ctx context.Context, key string, orderID kernel.UUID, ttl time.Duration,
) (bool, kernel.UUID, error) {
	if key == "" {
		return false, kernel.UUID{}, errs.NewValueIsRequiredError("idempotency key")
	}
	if err := orderID.Validate(); err != nil {
		return false, kernel.UUID{}, err
	}

	redisKey := checkoutKeyPrefix + key
	claimed, err := s.client.SetNX(ctx, redisKey, orderID.String(), ttl).Result()
	if err != nil {
		return false, kernel.UUID{}, fmt.Errorf("claim idempotency key: %w", err)
	}
	if claimed {
		return true, orderID, nil
	}

	stored, err := s.client.Get(ctx, redisKey).Result()
	if err != nil {
		return false, kernel.UUID{}, fmt.Errorf("read idempotency key: %w", err)
	}

	existingID, err := kernel.UUIDFromString(stored)
	if err != nil {
		return false, kernel.UUID{}, err
	}
	return false, existingID, nil
}
