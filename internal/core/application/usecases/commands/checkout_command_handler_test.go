package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/stock"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func catalogFor(t *testing.T, items []commands.BasketItem, storeID kernel.UUID) map[kernel.UUID]ports.Product {
	t.Helper()
	products := make(map[kernel.UUID]ports.Product, len(items))
	for _, item := range items {
		products[item.ProductID] = ports.Product{
			ProductID: item.ProductID,
			StoreID:   storeID,
			UnitPrice: 25,
			Size:      kernel.SizeMedium,
			Pickup:    testPickupPoint(t),
		}
	}
	return products
}

func newCheckoutHandler(
	factory commands.OrderStockUoWFactory, catalog ports.StoreCatalog, publisher ports.OrderEventPublisher,
) commands.CheckoutCommandHandler {
	return commands.NewCheckoutCommandHandler(
		factory, catalog, services.DefaultTariff(), publisher, testReservationTTL, testDeliverySLA)
}

func TestCheckoutCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	items := []commands.BasketItem{
		{ProductID: kernel.NewUUID(), Quantity: 2},
		{ProductID: kernel.NewUUID(), Quantity: 1},
	}
	cmd, err := commands.NewCheckoutCommand(orderID, nil, items, testDeliveryPoint(t))
	require.NoError(t, err)

	catalog := new(MockStoreCatalog)
	catalog.On("GetProducts", ctx, mock.Anything).
		Return(catalogFor(t, items, kernel.NewUUID()), nil).Once()

	var persisted *order.Order
	orderRepo := new(MockOrderRepository)
	orderRepo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*order.Order)
		}).
		Return(nil).Once()

	stockRepo := new(MockStockRepository)
	stockRepo.On("Reserve", mock.Anything, mock.AnythingOfType("[]*stock.Reservation")).
		Run(func(args mock.Arguments) {
			reservations := args.Get(1).([]*stock.Reservation)
			require.Len(t, reservations, 2)
			for _, r := range reservations {
				assert.True(t, r.OrderID().IsEqual(orderID))
				assert.Equal(t, stock.ReservationHeld, r.Status())
			}
		}).
		Return(nil).Once()

	uow := new(MockOrderStockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("StockRepository").Return(stockRepo).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderStockUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockOrderEventPublisher)
	publisher.On("PublishOrderChanged", ctx, mock.Anything).Return(nil).Once()

	h := newCheckoutHandler(factory, catalog, publisher)
	require.NoError(t, h.Handle(ctx, cmd))

	require.NotNil(t, persisted)
	assert.Equal(t, order.StatusPaymentPending, persisted.Status())
	assert.InDelta(t, 9.60, persisted.ShippingPrice(), 0.1)
	assert.InDelta(t, 75, persisted.ItemsPrice(), 1e-9)

	catalog.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	stockRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCheckoutCommandHandler_Handle_InsufficientStock(t *testing.T) {
	ctx := t.Context()
	items := []commands.BasketItem{{ProductID: kernel.NewUUID(), Quantity: 5}}
	cmd, err := commands.NewCheckoutCommand(kernel.NewUUID(), nil, items, testDeliveryPoint(t))
	require.NoError(t, err)

	catalog := new(MockStoreCatalog)
	catalog.On("GetProducts", ctx, mock.Anything).
		Return(catalogFor(t, items, kernel.NewUUID()), nil).Once()

	stockRepo := new(MockStockRepository)
	stockRepo.On("Reserve", mock.Anything, mock.Anything).
		Return(ports.ErrInsufficientStock).Once()

	uow := new(MockOrderStockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("StockRepository").Return(stockRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderStockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newCheckoutHandler(factory, catalog, new(MockOrderEventPublisher))
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, ports.ErrInsufficientStock)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertExpectations(t)
}

func TestCheckoutCommandHandler_Handle_MixedStores(t *testing.T) {
	ctx := t.Context()
	items := []commands.BasketItem{
		{ProductID: kernel.NewUUID(), Quantity: 1},
		{ProductID: kernel.NewUUID(), Quantity: 1},
	}
	cmd, err := commands.NewCheckoutCommand(kernel.NewUUID(), nil, items, testDeliveryPoint(t))
	require.NoError(t, err)

	products := catalogFor(t, items, kernel.NewUUID())
	second := products[items[1].ProductID]
	second.StoreID = kernel.NewUUID()
	products[items[1].ProductID] = second

	catalog := new(MockStoreCatalog)
	catalog.On("GetProducts", ctx, mock.Anything).Return(products, nil).Once()

	factory := new(MockOrderStockUoWFactory)

	h := newCheckoutHandler(factory, catalog, new(MockOrderEventPublisher))
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	factory.AssertNotCalled(t, "Create")
}

func TestCheckoutCommandHandler_Handle_UnknownProduct(t *testing.T) {
	ctx := t.Context()
	items := []commands.BasketItem{{ProductID: kernel.NewUUID(), Quantity: 1}}
	cmd, err := commands.NewCheckoutCommand(kernel.NewUUID(), nil, items, testDeliveryPoint(t))
	require.NoError(t, err)

	catalog := new(MockStoreCatalog)
	catalog.On("GetProducts", ctx, mock.Anything).
		Return(map[kernel.UUID]ports.Product{}, nil).Once()

	h := newCheckoutHandler(new(MockOrderStockUoWFactory), catalog, new(MockOrderEventPublisher))
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
}

func TestCheckoutCommandHandler_Handle_ValidationError(t *testing.T) {
	var cmd commands.CheckoutCommand

	h := newCheckoutHandler(
		new(MockOrderStockUoWFactory), new(MockStoreCatalog), new(MockOrderEventPublisher))
	err := h.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, commands.ErrCheckoutCommandIsNotConstructed)
}
