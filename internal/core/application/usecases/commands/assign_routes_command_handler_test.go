package commands_test

import (
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testRoutePlanner(t *testing.T) services.RoutePlanner {
	t.Helper()
	planner, err := services.NewRoutePlanner(services.PlannerConfig{
		RouteCapacity:   4,
		ClusterRadiusKm: 5,
		DeadlineSpread:  2 * time.Hour,
	})
	require.NoError(t, err)
	return planner
}

func TestAssignRoutesCommandHandler_Handle_BundlesPool(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAssignRoutesCommand()
	require.NoError(t, err)

	// Three medium orders weigh 2 each; capacity 4 means two routes.
	pool := []*order.Order{
		orderInStatus(t, kernel.NewUUID(), order.StatusReadyForDelivery),
		orderInStatus(t, kernel.NewUUID(), order.StatusReadyForDelivery),
		orderInStatus(t, kernel.NewUUID(), order.StatusReadyForDelivery),
	}

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetAllReadyForDelivery", mock.Anything).Return(pool, nil).Once()
	orderRepo.On("Update", mock.Anything, mock.AnythingOfType("*order.Order")).
		Return(nil).Times(3)

	routeRepo := new(MockRouteRepository)
	routeRepo.On("Add", mock.Anything, mock.AnythingOfType("*route.Route")).
		Return(nil).Times(2)

	uow := new(MockOrderRouteUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("RouteRepository").Return(routeRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderRouteUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAssignRoutesCommandHandler(factory, testRoutePlanner(t))
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, result.RoutesCreated)
	assert.Equal(t, 3, result.OrdersAssigned)
	assert.Zero(t, result.OrdersFlagged)
	for _, aggregate := range pool {
		assert.Equal(t, order.StatusAssignedToRoute, aggregate.Status())
		assert.NotNil(t, aggregate.RouteID())
	}

	orderRepo.AssertExpectations(t)
	routeRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAssignRoutesCommandHandler_Handle_EmptyPool(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAssignRoutesCommand()
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetAllReadyForDelivery", mock.Anything).Return([]*order.Order{}, nil).Once()

	uow := new(MockOrderRouteUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderRouteUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAssignRoutesCommandHandler(factory, testRoutePlanner(t))
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, result.RoutesCreated)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestAssignRoutesCommandHandler_Handle_ValidationError(t *testing.T) {
	var cmd commands.AssignRoutesCommand

	h := commands.NewAssignRoutesCommandHandler(
		new(MockOrderRouteUoWFactory), testRoutePlanner(t))
	_, err := h.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, commands.ErrAssignRoutesCommandIsNotConstructed)
}
