package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// ExpireReservationsResult reports what one sweep pass did.
type ExpireReservationsResult struct {
	// ReleasedReservations is the number of holds returned to stock.
	ReleasedReservations int

	// ExpiredOrders is the number of orders moved to expired.
	ExpiredOrders int
}

// ExpireReservationsCommandHandler handles the reservation expiry sweep.
//
// The sweep is idempotent: holds are released through the reservation state
// machine, so a hold already confirmed or released by a racing payment or a
// previous run is skipped, and re-running the sweep over the same batch
// changes nothing. Orders whose payment landed between the hold lapsing and
// the sweep running keep their paid status untouched.
type ExpireReservationsCommandHandler struct {
	uowFactory OrderStockUoWFactory
	publisher  ports.OrderEventPublisher
}

// NewExpireReservationsCommandHandler creates a handler for the expiry sweep.
func NewExpireReservationsCommandHandler(
	uowFactory OrderStockUoWFactory, publisher ports.OrderEventPublisher,
) ExpireReservationsCommandHandler {
	return ExpireReservationsCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes one sweep batch and reports how much it released.
func (h *ExpireReservationsCommandHandler) Handle(
	ctx context.Context, cmd ExpireReservationsCommand,
) (ExpireReservationsResult, error) {
	if err := cmd.Validate(); err != nil {
		return ExpireReservationsResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ExpireReservationsResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	stockRepo := uow.StockRepository()
	expired, err := stockRepo.GetExpired(ctx, now, cmd.BatchLimit())
	if err != nil {
		return ExpireReservationsResult{}, err
	}

	var result ExpireReservationsResult
	affectedOrders := make(map[kernel.UUID]struct{})

	for _, reservation := range expired {
		if !reservation.Release() {
			continue
		}
		if err = stockRepo.Restock(ctx, reservation); err != nil {
			return ExpireReservationsResult{}, err
		}
		if err = stockRepo.Update(ctx, reservation); err != nil {
			return ExpireReservationsResult{}, err
		}
		result.ReleasedReservations++
		affectedOrders[reservation.OrderID()] = struct{}{}
	}

	expiredAggregates, err := h.expireOrders(ctx, uow.OrderRepository(), affectedOrders)
	if err != nil {
		return ExpireReservationsResult{}, err
	}
	result.ExpiredOrders = len(expiredAggregates)

	if err = uow.Commit(ctx); err != nil {
		return ExpireReservationsResult{}, err
	}

	for _, aggregate := range expiredAggregates {
		publishOrderChanged(ctx, h.publisher, aggregate)
	}
	return result, nil
}

// expireOrders moves orders that lost their holds into expired. An order
// that already left the payment flow (paid, cancelled) is left alone.
func (h *ExpireReservationsCommandHandler) expireOrders(
	ctx context.Context, orderRepo ports.OrderRepository, ids map[kernel.UUID]struct{},
) ([]*order.Order, error) {
	expired := make([]*order.Order, 0, len(ids))

	for id := range ids {
		aggregate, err := orderRepo.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		if !aggregate.Status().CanTransitionTo(order.StatusExpired) {
			continue
		}
		if err = aggregate.Expire(); err != nil {
			return nil, err
		}
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return nil, err
		}
		expired = append(expired, aggregate)
	}

	return expired, nil
}
