package stock_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/stock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = 17 * time.Minute

func newHeldReservation(t *testing.T, now time.Time) *stock.Reservation {
	t.Helper()
	r, err := stock.NewReservation(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 3, now, testTTL)
	require.NoError(t, err)
	return r
}

func TestNewReservation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("creates held reservation with ttl", func(t *testing.T) {
		r := newHeldReservation(t, now)

		require.NoError(t, r.Validate())
		assert.Equal(t, stock.ReservationHeld, r.Status())
		assert.Equal(t, 3, r.Quantity())
		assert.Equal(t, now, r.CreatedAt())
		assert.Equal(t, now.Add(testTTL), r.ExpiresAt())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := stock.NewReservation(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 0, now, testTTL)
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var r stock.Reservation
		require.ErrorIs(t, r.Validate(), stock.ErrReservationIsNotConstructed)
	})
}

func TestReservationExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("held reservation expires after ttl", func(t *testing.T) {
		r := newHeldReservation(t, now)

		assert.False(t, r.IsExpired(now))
		assert.False(t, r.IsExpired(now.Add(testTTL)))
		assert.True(t, r.IsExpired(now.Add(testTTL+time.Second)))
	})

	t.Run("confirmed reservation never reports expired", func(t *testing.T) {
		r := newHeldReservation(t, now)
		require.True(t, r.Confirm())

		assert.False(t, r.IsExpired(now.Add(24*time.Hour)))
	})
}

func TestReservationIdempotence(t *testing.T) {
	now := time.Now()

	t.Run("confirm then release is a no-op", func(t *testing.T) {
		r := newHeldReservation(t, now)

		assert.True(t, r.Confirm())
		assert.False(t, r.Release())
		assert.Equal(t, stock.ReservationConfirmed, r.Status())
	})

	t.Run("release then confirm is a no-op", func(t *testing.T) {
		r := newHeldReservation(t, now)

		assert.True(t, r.Release())
		assert.False(t, r.Confirm())
		assert.Equal(t, stock.ReservationReleased, r.Status())
	})

	t.Run("double confirm and double release report no change", func(t *testing.T) {
		r := newHeldReservation(t, now)
		assert.True(t, r.Confirm())
		assert.False(t, r.Confirm())

		r2 := newHeldReservation(t, now)
		assert.True(t, r2.Release())
		assert.False(t, r2.Release())
	})
}

func TestRestoreReservation(t *testing.T) {
	t.Run("restores persisted state", func(t *testing.T) {
		now := time.Now()

		r, err := stock.RestoreReservation(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			2, stock.ReservationConfirmed, now, now.Add(testTTL))

		require.NoError(t, err)
		assert.Equal(t, stock.ReservationConfirmed, r.Status())
		assert.False(t, r.Release())
	})

	t.Run("rejects invalid persisted status", func(t *testing.T) {
		now := time.Now()

		_, err := stock.RestoreReservation(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			2, stock.ReservationStatus(9), now, now)

		require.Error(t, err)
	})
}
