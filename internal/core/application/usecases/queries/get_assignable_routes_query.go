// Package queries contains read operations of the CQRS split. Query handlers
// bypass the domain aggregates and read projection rows straight from the
// database, returning plain response structs for the HTTP layer.
package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetAssignableRoutesQueryIsNotConstructed = errors.New(
	"GetAssignableRoutesQuery must be created via NewGetAssignableRoutesQuery constructor",
)

// GetAssignableRoutesQuery retrieves open routes couriers can claim,
// most urgent first.
type GetAssignableRoutesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAssignableRoutesQuery creates a query for the claimable route board.
func NewGetAssignableRoutesQuery() GetAssignableRoutesQuery {
	return GetAssignableRoutesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAssignableRoutesQuery) Validate() error {
	return q.guard.Validate(ErrGetAssignableRoutesQueryIsNotConstructed)
}

// GetAssignableRoutesQueryResponse represents one claimable route on the
// courier's board.
type GetAssignableRoutesQueryResponse struct {
	ID               kernel.UUID
	Stops            int
	Load             int
	Capacity         int
	EarliestDeadline time.Time
	CreatedAt        time.Time
}
