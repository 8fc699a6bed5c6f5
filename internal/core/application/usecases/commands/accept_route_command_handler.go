package commands

import (
	"context"
)

// AcceptRouteCommandHandler handles a courier claiming an open route.
// The claim races against other couriers; the row lock taken by the
// repository inside the transaction makes the first commit win and later
// claims fail on the route's state machine.
type AcceptRouteCommandHandler struct {
	uowFactory RouteUoWFactory
}

// NewAcceptRouteCommandHandler creates a handler for route claims.
func NewAcceptRouteCommandHandler(uowFactory RouteUoWFactory) AcceptRouteCommandHandler {
	return AcceptRouteCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the route claim command.
func (h *AcceptRouteCommandHandler) Handle(ctx context.Context, cmd AcceptRouteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()
	aggregate, err := routeRepo.Get(ctx, cmd.RouteID())
	if err != nil {
		return err
	}

	if err = aggregate.Accept(cmd.CourierID()); err != nil {
		return err
	}
	if err = routeRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
