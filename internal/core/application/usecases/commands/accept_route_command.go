package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrAcceptRouteCommandIsNotConstructed = errors.New(
	"AcceptRouteCommand must be created via NewAcceptRouteCommand constructor",
)

// AcceptRouteCommand represents a courier claiming an open route. First
// courier wins; the route then stops accepting orders.
type AcceptRouteCommand struct { //nolint:recvcheck //using for validation
	routeID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptRouteCommand creates a route acceptance command.
func NewAcceptRouteCommand(routeID, courierID kernel.UUID) (AcceptRouteCommand, error) {
	acceptCommand := AcceptRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		acceptCommand.setRouteID(routeID),
		acceptCommand.setCourierID(courierID),
	); err != nil {
		return AcceptRouteCommand{}, err
	}

	return acceptCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptRouteCommand) Validate() error {
	return c.guard.Validate(ErrAcceptRouteCommandIsNotConstructed)
}

// RouteID returns the route being claimed.
func (c AcceptRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

// CourierID returns the claiming courier.
func (c AcceptRouteCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *AcceptRouteCommand) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	c.routeID = routeID
	return nil
}

func (c *AcceptRouteCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
