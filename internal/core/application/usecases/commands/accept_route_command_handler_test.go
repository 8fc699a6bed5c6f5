package commands_test

import (
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/route"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func openRouteWithStop(t *testing.T) *route.Route {
	t.Helper()
	r, err := route.NewRoute(kernel.NewUUID(), 8, 2*time.Hour, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, r.AddStop(kernel.NewUUID(), 2, time.Now().UTC().Add(4*time.Hour)))
	return r
}

func TestAcceptRouteCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	open := openRouteWithStop(t)
	cmd, err := commands.NewAcceptRouteCommand(open.ID(), courierID)
	require.NoError(t, err)

	routeRepo := new(MockRouteRepository)
	routeRepo.On("Get", mock.Anything, open.ID()).Return(open, nil).Once()
	routeRepo.On("Update", mock.Anything, open).Return(nil).Once()

	uow := new(MockRouteUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("RouteRepository").Return(routeRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockRouteUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptRouteCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, route.StatusInProgress, open.Status())
	require.NotNil(t, open.CourierID())
	assert.True(t, open.CourierID().IsEqual(courierID))

	routeRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAcceptRouteCommandHandler_Handle_AlreadyClaimed(t *testing.T) {
	ctx := t.Context()
	claimed := inProgressRoute(t, kernel.NewUUID(), kernel.NewUUID())
	cmd, err := commands.NewAcceptRouteCommand(claimed.ID(), kernel.NewUUID())
	require.NoError(t, err)

	routeRepo := new(MockRouteRepository)
	routeRepo.On("Get", mock.Anything, claimed.ID()).Return(claimed, nil).Once()

	uow := new(MockRouteUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("RouteRepository").Return(routeRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockRouteUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptRouteCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, route.ErrInvalidRouteTransition)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestAcceptRouteCommandHandler_Handle_ValidationError(t *testing.T) {
	var cmd commands.AcceptRouteCommand

	h := commands.NewAcceptRouteCommandHandler(new(MockRouteUoWFactory))
	err := h.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, commands.ErrAcceptRouteCommandIsNotConstructed)
}
