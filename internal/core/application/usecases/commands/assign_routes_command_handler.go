package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/services"
)

// AssignRoutesResult reports what one planning pass produced.
type AssignRoutesResult struct {
	// RoutesCreated is the number of open routes persisted.
	RoutesCreated int

	// OrdersAssigned is the number of orders bundled onto those routes.
	OrdersAssigned int

	// OrdersFlagged is the number of orders the planner could not route,
	// because their deadline had already passed or their parcel exceeds the
	// route capacity; they stay in the pool for manual handling.
	OrdersFlagged int
}

// AssignRoutesCommandHandler handles the periodic route planning pass.
// Reads the ready pool, lets the planner bundle it, and persists the
// resulting routes and order assignments in one transaction. The pool read
// takes FOR UPDATE SKIP LOCKED row locks, so concurrent passes split the
// pool between them instead of assigning an order twice.
type AssignRoutesCommandHandler struct {
	uowFactory OrderRouteUoWFactory
	planner    services.RoutePlanner
}

// NewAssignRoutesCommandHandler creates a handler for route planning passes.
func NewAssignRoutesCommandHandler(
	uowFactory OrderRouteUoWFactory, planner services.RoutePlanner,
) AssignRoutesCommandHandler {
	return AssignRoutesCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
	}
}

// Handle processes one planning pass and reports what it produced.
func (h *AssignRoutesCommandHandler) Handle(
	ctx context.Context, cmd AssignRoutesCommand,
) (AssignRoutesResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignRoutesResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignRoutesResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	pool, err := orderRepo.GetAllReadyForDelivery(ctx)
	if err != nil {
		return AssignRoutesResult{}, err
	}
	if len(pool) == 0 {
		return AssignRoutesResult{}, nil
	}

	plan, err := h.planner.Plan(pool, time.Now().UTC())
	if err != nil {
		return AssignRoutesResult{}, err
	}

	routeRepo := uow.RouteRepository()
	var result AssignRoutesResult
	for _, newRoute := range plan.Routes {
		if err = routeRepo.Add(ctx, newRoute); err != nil {
			return AssignRoutesResult{}, err
		}
		result.RoutesCreated++
		result.OrdersAssigned += len(newRoute.Stops())
	}
	for _, aggregate := range pool {
		if aggregate.RouteID() == nil {
			continue
		}
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return AssignRoutesResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignRoutesResult{}, err
	}

	result.OrdersFlagged = len(plan.Flagged)
	for _, flagged := range plan.Flagged {
		slog.Warn("order flagged for manual dispatch",
			slog.String("order_id", flagged.ID().String()),
			slog.Time("deadline", flagged.DeliveryDeadline()))
	}
	return result, nil
}
