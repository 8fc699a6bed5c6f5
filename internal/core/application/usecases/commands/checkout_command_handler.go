package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/stock"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// CheckoutCommandHandler handles the business logic for order checkout.
// Resolves the basket against the store catalog, prices the delivery,
// reserves stock, and opens the order for payment. Stock decrement and
// order creation commit in one transaction, so a failed reservation leaves
// no order behind.
type CheckoutCommandHandler struct {
	uowFactory     OrderStockUoWFactory
	catalog        ports.StoreCatalog
	tariff         services.Tariff
	publisher      ports.OrderEventPublisher
	reservationTTL time.Duration
	deliverySLA    time.Duration
}

// NewCheckoutCommandHandler creates a handler for checkout operations.
func NewCheckoutCommandHandler(
	uowFactory OrderStockUoWFactory,
	catalog ports.StoreCatalog,
	tariff services.Tariff,
	publisher ports.OrderEventPublisher,
	reservationTTL time.Duration,
	deliverySLA time.Duration,
) CheckoutCommandHandler {
	return CheckoutCommandHandler{
		uowFactory:     uowFactory,
		catalog:        catalog,
		tariff:         tariff,
		publisher:      publisher,
		reservationTTL: reservationTTL,
		deliverySLA:    deliverySLA,
	}
}

// Handle processes the checkout command.
// The order is persisted in payment_pending status with its stock held for
// the reservation TTL; payment confirmation or expiry decides its fate.
func (h *CheckoutCommandHandler) Handle(ctx context.Context, cmd CheckoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	products, err := h.resolveBasket(ctx, cmd.Items())
	if err != nil {
		return err
	}

	items, pickup, err := buildOrderItems(cmd.Items(), products)
	if err != nil {
		return err
	}

	size, err := order.MaxItemSize(items)
	if err != nil {
		return err
	}
	quote, err := h.tariff.Quote(pickup, cmd.Delivery(), size)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	newOrder, err := order.NewOrder(
		cmd.OrderID(), cmd.BuyerID(), items, pickup, cmd.Delivery(),
		quote.ShippingPrice, quote.DistanceKm, now, h.reservationTTL, h.deliverySLA)
	if err != nil {
		return err
	}
	if err = newOrder.BeginPayment(); err != nil {
		return err
	}

	reservations, err := buildReservations(cmd, now, h.reservationTTL)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.StockRepository().Reserve(ctx, reservations); err != nil {
		return err
	}
	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishOrderChanged(ctx, h.publisher, newOrder)
	return nil
}

func (h *CheckoutCommandHandler) resolveBasket(
	ctx context.Context, items []BasketItem,
) (map[kernel.UUID]ports.Product, error) {
	ids := make([]kernel.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return h.catalog.GetProducts(ctx, ids)
}

// buildOrderItems turns basket lines into priced order items. All lines must
// come from one store: a multi-store basket has no single pickup point and
// is split into separate orders upstream.
func buildOrderItems(
	basket []BasketItem, products map[kernel.UUID]ports.Product,
) ([]order.Item, kernel.GeoPoint, error) {
	items := make([]order.Item, 0, len(basket))
	var pickup kernel.GeoPoint
	var storeID kernel.UUID

	for i, line := range basket {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, kernel.GeoPoint{}, errs.NewObjectNotFoundError(
				"product", line.ProductID.String())
		}

		if i == 0 {
			storeID = product.StoreID
			pickup = product.Pickup
		} else if !storeID.IsEqual(product.StoreID) {
			return nil, kernel.GeoPoint{}, errs.NewValueIsInvalidErrorWithCause("basket",
				fmt.Errorf("items from stores %s and %s cannot share one order",
					storeID, product.StoreID))
		}

		item, err := order.NewItem(
			product.ProductID, product.StoreID, line.Quantity, product.UnitPrice, product.Size)
		if err != nil {
			return nil, kernel.GeoPoint{}, err
		}
		items = append(items, item)
	}

	return items, pickup, nil
}

func buildReservations(
	cmd CheckoutCommand, now time.Time, ttl time.Duration,
) ([]*stock.Reservation, error) {
	reservations := make([]*stock.Reservation, 0, len(cmd.Items()))
	for _, line := range cmd.Items() {
		reservation, err := stock.NewReservation(
			kernel.NewUUID(), cmd.OrderID(), line.ProductID, line.Quantity, now, ttl)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	return reservations, nil
}

// publishOrderChanged emits the order state to downstream consumers.
// Best-effort: the business transaction already committed, so a broker
// outage only costs a log line, not the order.
func publishOrderChanged(
	ctx context.Context, publisher ports.OrderEventPublisher, aggregate *order.Order,
) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishOrderChanged(ctx, aggregate); err != nil {
		slog.Error("publish order changed",
			slog.String("order_id", aggregate.ID().String()),
			slog.Any("error", err))
	}
}
