//go:build unit

package booking_test

import (
	"testing"
	"time"

	"slotbook/internal/domain/booking"
	"slotbook/internal/domain/timewindow"
	"slotbook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientInfo(t *testing.T) {
	t.Run("name and email required", func(t *testing.T) {
		_, err := booking.NewClientInfo("", "ada@example.com", "")
		assert.ErrorIs(t, err, booking.ErrInvalidClientInfo)

		_, err = booking.NewClientInfo("Ada", "", "")
		assert.ErrorIs(t, err, booking.ErrInvalidClientInfo)
	})

	t.Run("phone is optional", func(t *testing.T) {
		client, err := booking.NewClientInfo("Ada", "ada@example.com", "")
		require.NoError(t, err)
		assert.Equal(t, "Ada", client.Name)
		assert.Empty(t, client.Phone)
	})
}

func TestNewBooking(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	window := timewindow.Reconstruct(now.Add(time.Hour), now.Add(2*time.Hour))
	client, err := booking.NewClientInfo("Ada", "ada@example.com", "")
	require.NoError(t, err)

	t.Run("paid service starts awaiting payment", func(t *testing.T) {
		b := booking.NewBooking(uuid.New(), uuid.New(), uuid.New(), window, client, "hash", true, now)
		assert.Equal(t, booking.StatusPendingPayment, b.Status())
		assert.False(t, b.IsConfirmed())
	})

	t.Run("free service confirms immediately", func(t *testing.T) {
		b := booking.NewBooking(uuid.New(), uuid.New(), uuid.New(), window, client, "hash", false, now)
		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.True(t, b.IsConfirmed())
	})
}

func TestCheckPaymentApproval(t *testing.T) {
	tests := []struct {
		name   string
		status booking.Status
		errIs  error
	}{
		{name: "pending payment proceeds", status: booking.StatusPendingPayment},
		{name: "already confirmed is a replay", status: booking.StatusConfirmed},
		{name: "cancelled conflicts", status: booking.StatusCancelled, errIs: booking.ErrConflictingTerminal},
		{name: "declined conflicts", status: booking.StatusDeclined, errIs: booking.ErrConflictingTerminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := builder.NewBookingBuilder().WithStatus(tt.status).Build()
			err := b.CheckPaymentApproval()
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCheckPaymentDecline(t *testing.T) {
	tests := []struct {
		name   string
		status booking.Status
		errIs  error
	}{
		{name: "pending payment proceeds", status: booking.StatusPendingPayment},
		{name: "already declined is a replay", status: booking.StatusDeclined},
		{name: "confirmed conflicts", status: booking.StatusConfirmed, errIs: booking.ErrConflictingTerminal},
		{name: "cancelled conflicts", status: booking.StatusCancelled, errIs: booking.ErrConflictingTerminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := builder.NewBookingBuilder().WithStatus(tt.status).Build()
			err := b.CheckPaymentDecline()
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCheckCancellable(t *testing.T) {
	t.Run("cancelled booking cannot cancel again", func(t *testing.T) {
		b := builder.NewBookingBuilder().WithStatus(booking.StatusCancelled).Build()
		assert.ErrorIs(t, b.CheckCancellable(), booking.ErrAlreadyCancelled)
	})

	for _, status := range []booking.Status{
		booking.StatusPendingPayment,
		booking.StatusConfirmed,
		booking.StatusDeclined,
	} {
		t.Run("cancellable from "+status.String(), func(t *testing.T) {
			b := builder.NewBookingBuilder().WithStatus(status).Build()
			assert.NoError(t, b.CheckCancellable())
		})
	}
}
