package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/route"
	"marketplace/internal/core/ports"
)

var (
	// ErrRouteNotOwnedByCourier is returned when a courier reports progress
	// on a route claimed by someone else.
	ErrRouteNotOwnedByCourier = errors.New("route is not owned by the reporting courier")

	// ErrOrderNotOnRoute is returned when the reported order is not a stop
	// of the given route.
	ErrOrderNotOnRoute = errors.New("order is not on the route")
)

// ReportProgressCommandHandler handles courier progress reports.
// Applies the event to the order's state machine and completes the route
// once every stop reached a terminal delivery outcome. Invalid reports
// (wrong courier, wrong order, out-of-order event) fail without touching
// anything.
type ReportProgressCommandHandler struct {
	uowFactory OrderRouteUoWFactory
	publisher  ports.OrderEventPublisher
}

// NewReportProgressCommandHandler creates a handler for progress reports.
func NewReportProgressCommandHandler(
	uowFactory OrderRouteUoWFactory, publisher ports.OrderEventPublisher,
) ReportProgressCommandHandler {
	return ReportProgressCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the progress report command.
func (h *ReportProgressCommandHandler) Handle(ctx context.Context, cmd ReportProgressCommand) error {
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
	activeRoute, err := routeRepo.Get(ctx, cmd.RouteID())
	if err != nil {
		return err
	}
	if err = checkReportTarget(activeRoute, cmd); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = applyProgress(aggregate, cmd.Event(), now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if cmd.Event() != ProgressPickedUp {
		if err = h.completeRouteIfDone(ctx, uow, activeRoute, now); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishOrderChanged(ctx, h.publisher, aggregate)
	return nil
}

func checkReportTarget(activeRoute *route.Route, cmd ReportProgressCommand) error {
	if activeRoute.CourierID() == nil || !activeRoute.CourierID().IsEqual(cmd.CourierID()) {
		return ErrRouteNotOwnedByCourier
	}
	if !activeRoute.Contains(cmd.OrderID()) {
		return ErrOrderNotOnRoute
	}
	return nil
}

func applyProgress(aggregate *order.Order, event ProgressEvent, now time.Time) error {
	switch event {
	case ProgressPickedUp:
		return aggregate.MarkPickedUp(now)
	case ProgressDelivered:
		return aggregate.Deliver(now)
	case ProgressFailed:
		return aggregate.FailDelivery()
	default:
		return event.Validate()
	}
}

// completeRouteIfDone closes the route once every stop's order reached a
// terminal delivery outcome.
func (h *ReportProgressCommandHandler) completeRouteIfDone(
	ctx context.Context, uow OrderRouteUoW, activeRoute *route.Route, now time.Time,
) error {
	stops, err := uow.OrderRepository().GetAllByRoute(ctx, activeRoute.ID())
	if err != nil {
		return err
	}

	for _, stop := range stops {
		if stop.Status() != order.StatusDelivered && stop.Status() != order.StatusFailedDelivery {
			return nil
		}
	}

	if err = activeRoute.Complete(now); err != nil {
		return err
	}
	return uow.RouteRepository().Update(ctx, activeRoute)
}
