package services_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTariff(t *testing.T) services.Tariff {
	t.Helper()
	tariff, err := services.NewTariff(
		map[kernel.ParcelSize]float64{
			kernel.SizeSmall:      3,
			kernel.SizeMedium:     5,
			kernel.SizeLarge:      8,
			kernel.SizeExtraLarge: 12,
		},
		map[kernel.ParcelSize]float64{
			kernel.SizeSmall:      0.5,
			kernel.SizeMedium:     1.0,
			kernel.SizeLarge:      1.5,
			kernel.SizeExtraLarge: 2.5,
		},
	)
	require.NoError(t, err)
	return tariff
}

func TestNewTariff(t *testing.T) {
	t.Run("rejects table missing a size", func(t *testing.T) {
		_, err := services.NewTariff(
			map[kernel.ParcelSize]float64{
				kernel.SizeSmall:  3,
				kernel.SizeMedium: 5,
				kernel.SizeLarge:  8,
			},
			map[kernel.ParcelSize]float64{
				kernel.SizeSmall:      0.5,
				kernel.SizeMedium:     1.0,
				kernel.SizeLarge:      1.5,
				kernel.SizeExtraLarge: 2.5,
			},
		)
		require.Error(t, err)
	})

	t.Run("rejects table that does not increase with size", func(t *testing.T) {
		_, err := services.NewTariff(
			map[kernel.ParcelSize]float64{
				kernel.SizeSmall:      3,
				kernel.SizeMedium:     3,
				kernel.SizeLarge:      8,
				kernel.SizeExtraLarge: 12,
			},
			map[kernel.ParcelSize]float64{
				kernel.SizeSmall:      0.5,
				kernel.SizeMedium:     1.0,
				kernel.SizeLarge:      1.5,
				kernel.SizeExtraLarge: 2.5,
			},
		)
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var tariff services.Tariff
		require.ErrorIs(t, tariff.Validate(), services.ErrTariffIsNotConstructed)
	})

	t.Run("default tariff is valid", func(t *testing.T) {
		require.NoError(t, services.DefaultTariff().Validate())
	})
}

func TestTariffPrice(t *testing.T) {
	tariff := testTariff(t)

	t.Run("zero distance yields the base price exactly", func(t *testing.T) {
		price, err := tariff.Price(0, kernel.SizeLarge)

		require.NoError(t, err)
		assert.InDelta(t, 8.0, price, 1e-9)
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		price, err := tariff.Price(3.333, kernel.SizeMedium)

		require.NoError(t, err)
		assert.InDelta(t, 8.33, price, 1e-9)
	})

	t.Run("price grows with distance and with size", func(t *testing.T) {
		near, err := tariff.Price(2, kernel.SizeMedium)
		require.NoError(t, err)
		far, err := tariff.Price(10, kernel.SizeMedium)
		require.NoError(t, err)
		assert.Less(t, near, far)

		small, err := tariff.Price(10, kernel.SizeSmall)
		require.NoError(t, err)
		extraLarge, err := tariff.Price(10, kernel.SizeExtraLarge)
		require.NoError(t, err)
		assert.Less(t, small, extraLarge)
	})

	t.Run("rejects negative distance", func(t *testing.T) {
		_, err := tariff.Price(-1, kernel.SizeMedium)
		require.Error(t, err)
	})

	t.Run("rejects invalid size", func(t *testing.T) {
		_, err := tariff.Price(1, kernel.ParcelSize(0))
		require.Error(t, err)
	})
}

func TestTariffQuote(t *testing.T) {
	tariff := testTariff(t)

	t.Run("quotes a medium parcel across town", func(t *testing.T) {
		pickup, _ := kernel.NewGeoPoint(41.7151, 44.8271)
		delivery, _ := kernel.NewGeoPoint(41.7089, 44.7730)

		quote, err := tariff.Quote(pickup, delivery, kernel.SizeMedium)

		require.NoError(t, err)
		assert.InDelta(t, 4.6, quote.DistanceKm, 0.1)
		assert.InDelta(t, 9.60, quote.ShippingPrice, 0.1)
	})

	t.Run("fails with missing location", func(t *testing.T) {
		var missing kernel.GeoPoint
		delivery, _ := kernel.NewGeoPoint(41.7089, 44.7730)

		_, err := tariff.Quote(missing, delivery, kernel.SizeMedium)
		require.ErrorIs(t, err, services.ErrMissingLocation)

		_, err = tariff.Quote(delivery, missing, kernel.SizeMedium)
		require.ErrorIs(t, err, services.ErrMissingLocation)
	})
}
