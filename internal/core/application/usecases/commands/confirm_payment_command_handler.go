package commands

import (
	"context"
	"time"

	"marketplace/internal/core/ports"
)

// ConfirmPaymentCommandHandler handles successful payment callbacks.
// Converts the order's stock holds into permanent decrements and places the
// order into the ready-for-delivery pool consumed by route assignment.
//
// A callback arriving after the reservation sweep expired the order fails
// with ErrInvalidTransition; the payment must then be refunded upstream.
type ConfirmPaymentCommandHandler struct {
	uowFactory OrderStockUoWFactory
	publisher  ports.OrderEventPublisher
}

// NewConfirmPaymentCommandHandler creates a handler for payment confirmations.
func NewConfirmPaymentCommandHandler(
	uowFactory OrderStockUoWFactory, publisher ports.OrderEventPublisher,
) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the payment confirmation command.
func (h *ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) error {
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

	now := time.Now().UTC()
	if err = aggregate.ConfirmPayment(now); err != nil {
		return err
	}
	if err = aggregate.MarkReadyForDelivery(); err != nil {
		return err
	}

	stockRepo := uow.StockRepository()
	reservations, err := stockRepo.GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	for _, reservation := range reservations {
		if reservation.Confirm() {
			if err = stockRepo.Update(ctx, reservation); err != nil {
				return err
			}
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
