package kernel_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParcelSize(t *testing.T) {
	t.Run("valid sizes pass validation", func(t *testing.T) {
		for _, s := range []kernel.ParcelSize{
			kernel.SizeSmall, kernel.SizeMedium, kernel.SizeLarge, kernel.SizeExtraLarge,
		} {
			require.NoError(t, s.Validate())
		}
	})

	t.Run("unknown size fails validation", func(t *testing.T) {
		require.Error(t, kernel.SizeUnknown.Validate())
		require.Error(t, kernel.ParcelSize(42).Validate())
	})

	t.Run("sizes are strictly ordered", func(t *testing.T) {
		assert.Less(t, kernel.SizeSmall, kernel.SizeMedium)
		assert.Less(t, kernel.SizeMedium, kernel.SizeLarge)
		assert.Less(t, kernel.SizeLarge, kernel.SizeExtraLarge)
	})

	t.Run("weights grow with size", func(t *testing.T) {
		assert.Equal(t, 1, kernel.SizeSmall.Weight())
		assert.Equal(t, 2, kernel.SizeMedium.Weight())
		assert.Equal(t, 3, kernel.SizeLarge.Weight())
		assert.Equal(t, 4, kernel.SizeExtraLarge.Weight())
	})

	t.Run("string round-trip", func(t *testing.T) {
		for _, s := range []kernel.ParcelSize{
			kernel.SizeSmall, kernel.SizeMedium, kernel.SizeLarge, kernel.SizeExtraLarge,
		} {
			parsed, err := kernel.ParcelSizeFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("parsing invalid size fails", func(t *testing.T) {
		_, err := kernel.ParcelSizeFromString("gigantic")
		require.Error(t, err)

		_, err = kernel.ParcelSizeFromString("unknown")
		require.Error(t, err)
	})
}

func TestMaxParcelSize(t *testing.T) {
	t.Run("single extra_large item forces the whole order into that tier", func(t *testing.T) {
		size, err := kernel.MaxParcelSize([]kernel.ParcelSize{
			kernel.SizeSmall, kernel.SizeExtraLarge, kernel.SizeSmall,
		})

		require.NoError(t, err)
		assert.Equal(t, kernel.SizeExtraLarge, size)
	})

	t.Run("uniform sizes classify as themselves", func(t *testing.T) {
		size, err := kernel.MaxParcelSize([]kernel.ParcelSize{
			kernel.SizeMedium, kernel.SizeMedium,
		})

		require.NoError(t, err)
		assert.Equal(t, kernel.SizeMedium, size)
	})

	t.Run("empty list fails", func(t *testing.T) {
		_, err := kernel.MaxParcelSize(nil)
		require.Error(t, err)
	})

	t.Run("invalid member fails", func(t *testing.T) {
		_, err := kernel.MaxParcelSize([]kernel.ParcelSize{kernel.SizeSmall, kernel.SizeUnknown})
		require.Error(t, err)
	})
}
