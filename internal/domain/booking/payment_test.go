//go:build unit

package booking_test

import (
	"testing"
	"time"

	"slotbook/internal/domain/booking"
	"slotbook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	t.Run("starts pending", func(t *testing.T) {
		p, err := booking.NewPayment(uuid.New(), 5000, now)
		require.NoError(t, err)
		assert.Equal(t, booking.PaymentPending, p.Status())
		assert.Empty(t, p.Reference())
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		_, err := booking.NewPayment(uuid.New(), -1, now)
		assert.ErrorIs(t, err, booking.ErrNegativeAmount)
	})
}

func TestCheckApply(t *testing.T) {
	tests := []struct {
		name     string
		payment  *booking.Payment
		ref      string
		status   booking.PaymentStatus
		decision booking.ApplyDecision
		errIs    error
	}{
		{
			name:     "first terminal applies",
			payment:  builder.NewPaymentBuilder().Build(),
			ref:      "pi_100",
			status:   booking.PaymentApproved,
			decision: booking.ApplyProceed,
		},
		{
			name:     "pending update applies",
			payment:  builder.NewPaymentBuilder().Build(),
			ref:      "pi_100",
			status:   booking.PaymentPending,
			decision: booking.ApplyProceed,
		},
		{
			name:     "same reference same terminal replays",
			payment:  builder.NewPaymentBuilder().WithResult("stripepay", "pi_100", booking.PaymentApproved).Build(),
			ref:      "pi_100",
			status:   booking.PaymentApproved,
			decision: booking.ApplyReplay,
		},
		{
			name:     "same reference opposite terminal conflicts",
			payment:  builder.NewPaymentBuilder().WithResult("stripepay", "pi_100", booking.PaymentApproved).Build(),
			ref:      "pi_100",
			status:   booking.PaymentDeclined,
			decision: booking.ApplyConflict,
			errIs:    booking.ErrPaymentAlreadyFinal,
		},
		{
			name:     "different reference after terminal conflicts",
			payment:  builder.NewPaymentBuilder().WithResult("stripepay", "pi_100", booking.PaymentDeclined).Build(),
			ref:      "pi_200",
			status:   booking.PaymentApproved,
			decision: booking.ApplyConflict,
			errIs:    booking.ErrPaymentAlreadyFinal,
		},
		{
			name:     "reference mismatch on non-terminal conflicts",
			payment:  builder.NewPaymentBuilder().WithResult("stripepay", "pi_100", booking.PaymentPending).Build(),
			ref:      "pi_200",
			status:   booking.PaymentApproved,
			decision: booking.ApplyConflict,
			errIs:    booking.ErrReferenceMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := tt.payment.CheckApply(tt.ref, tt.status)
			assert.Equal(t, tt.decision, decision)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}
