package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrExpireReservationsCommandIsNotConstructed = errors.New(
	"ExpireReservationsCommand must be created via NewExpireReservationsCommand constructor",
)

// ExpireReservationsCommand represents one batch pass of the reservation
// expiry sweep: release every hold whose TTL lapsed without payment and
// expire the orders left behind.
type ExpireReservationsCommand struct { //nolint:recvcheck //using for validation
	batchLimit int

	guard guard.ConstructorGuard
}

// NewExpireReservationsCommand creates a sweep command processing at most
// batchLimit lapsed holds per run.
func NewExpireReservationsCommand(batchLimit int) (ExpireReservationsCommand, error) {
	sweepCommand := ExpireReservationsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := sweepCommand.setBatchLimit(batchLimit); err != nil {
		return ExpireReservationsCommand{}, err
	}

	return sweepCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ExpireReservationsCommand) Validate() error {
	return c.guard.Validate(ErrExpireReservationsCommandIsNotConstructed)
}

// BatchLimit returns the maximum number of holds processed per run.
func (c ExpireReservationsCommand) BatchLimit() int {
	return c.batchLimit
}

func (c *ExpireReservationsCommand) setBatchLimit(batchLimit int) error {
	if batchLimit <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("batch limit",
			fmt.Errorf("%d is not greater than 0", batchLimit))
	}

	c.batchLimit = batchLimit
	return nil
}
