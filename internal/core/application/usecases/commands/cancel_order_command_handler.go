package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// CancelOrderCommandHandler handles order cancellation.
// The order state machine decides whether cancellation is still allowed;
// once a courier has the parcel, the answer is no. Reservations still held
// are released and their quantity restocked in the same transaction.
type CancelOrderCommandHandler struct {
	uowFactory OrderStockUoWFactory
	publisher  ports.OrderEventPublisher
}

// NewCancelOrderCommandHandler creates a handler for order cancellations.
func NewCancelOrderCommandHandler(
	uowFactory OrderStockUoWFactory, publisher ports.OrderEventPublisher,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the cancellation command.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.Cancel(); err != nil {
		return err
	}

	stockRepo := uow.StockRepository()
	reservations, err := stockRepo.GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	for _, reservation := range reservations {
		if !reservation.Release() {
			continue
		}
		if err = stockRepo.Restock(ctx, reservation); err != nil {
			return err
		}
		if err = stockRepo.Update(ctx, reservation); err != nil {
			return err
		}
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishOrderChanged(ctx, h.publisher, aggregate)
	return nil
}
