package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/require"
)

func TestNewCheckoutCommand(t *testing.T) {
	delivery := testDeliveryPoint(t)
	items := []commands.BasketItem{{ProductID: kernel.NewUUID(), Quantity: 2}}

	t.Run("creates valid command", func(t *testing.T) {
		buyerID := kernel.NewUUID()
		cmd, err := commands.NewCheckoutCommand(kernel.NewUUID(), &buyerID, items, delivery)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
	})

	t.Run("allows guest checkout", func(t *testing.T) {
		cmd, err := commands.NewCheckoutCommand(kernel.NewUUID(), nil, items, delivery)

		require.NoError(t, err)
		require.Nil(t, cmd.BuyerID())
	})

	t.Run("rejects empty basket", func(t *testing.T) {
		_, err := commands.NewCheckoutCommand(kernel.NewUUID(), nil, nil, delivery)
		require.ErrorIs(t, err, commands.ErrBasketIsEmpty)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		bad := []commands.BasketItem{{ProductID: kernel.NewUUID(), Quantity: 0}}
		_, err := commands.NewCheckoutCommand(kernel.NewUUID(), nil, bad, delivery)
		require.Error(t, err)
	})

	t.Run("rejects missing delivery point", func(t *testing.T) {
		var missing kernel.GeoPoint
		_, err := commands.NewCheckoutCommand(kernel.NewUUID(), nil, items, missing)
		require.ErrorIs(t, err, kernel.ErrGeoPointIsNotConstructed)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var cmd commands.CheckoutCommand
		require.ErrorIs(t, cmd.Validate(), commands.ErrCheckoutCommandIsNotConstructed)
	})
}
