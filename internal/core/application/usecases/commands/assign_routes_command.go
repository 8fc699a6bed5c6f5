package commands

import (
	"errors"

	"marketplace/internal/pkg/guard"
)

var ErrAssignRoutesCommandIsNotConstructed = errors.New(
	"AssignRoutesCommand must be created via NewAssignRoutesCommand constructor",
)

// AssignRoutesCommand represents one planning pass: bundle the current pool
// of ready-for-delivery orders into open routes for couriers to claim.
type AssignRoutesCommand struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

// NewAssignRoutesCommand creates a route assignment command.
func NewAssignRoutesCommand() (AssignRoutesCommand, error) {
	return AssignRoutesCommand{
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignRoutesCommand) Validate() error {
	return c.guard.Validate(ErrAssignRoutesCommandIsNotConstructed)
}
