//go:build unit

package payment_test

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"slotbook/internal/payment"
	"slotbook/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stripepaySecret = "whsec_test"
	squarepayKey    = "sq_sig_test"
	notificationURL = "https://api.example.com/api/webhooks/payments"
)

var now = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func newReconciler() *payment.Reconciler {
	return payment.NewReconciler(
		payment.NewStripepay(stripepaySecret, clock.NewMockClock(now)),
		payment.NewSquarepay(squarepayKey, notificationURL),
	)
}

func stripepayPayload(eventType, paymentStatus string, bookingID uuid.UUID) []byte {
	return fmt.Appendf(nil, `{
		"id": "evt_1",
		"object": "event",
		"type": %q,
		"data": {"object": {
			"id": "cs_1",
			"payment_intent": "pi_1",
			"amount_total": 5000,
			"payment_status": %q,
			"metadata": {"booking_id": %q}
		}}
	}`, eventType, paymentStatus, bookingID)
}

func stripepaySign(payload []byte, at time.Time, secret string) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func squarepayPayload(status string, bookingID uuid.UUID) []byte {
	return fmt.Appendf(nil, `{
		"event_id": "se_1",
		"type": "payment.updated",
		"data": {"object": {"payment": {
			"id": "sp_1",
			"status": %q,
			"amount_money": {"amount": 5000},
			"metadata": {"booking_id": %q}
		}}}
	}`, status, bookingID)
}

func squarepaySign(payload []byte, key string) string {
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(notificationURL))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestNormalizeStripepay(t *testing.T) {
	bookingID := uuid.New()
	r := newReconciler()

	t.Run("valid signature normalizes", func(t *testing.T) {
		body := stripepayPayload("checkout.session.completed", "paid", bookingID)

		evt, err := r.Normalize(body, stripepaySign(body, now, stripepaySecret))
		require.NoError(t, err)

		assert.Equal(t, "stripepay", evt.Provider)
		assert.Equal(t, "pi_1", evt.Reference)
		assert.Equal(t, bookingID, evt.BookingID)
		assert.Equal(t, int64(5000), evt.AmountCents)
		assert.Equal(t, payment.StatusApproved, evt.Status)
		assert.Equal(t, body, evt.Raw)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		body := stripepayPayload("checkout.session.completed", "paid", bookingID)

		_, err := r.Normalize(body, stripepaySign(body, now, "whsec_other"))
		assert.ErrorIs(t, err, payment.ErrSignatureMismatch)
	})

	t.Run("stale timestamp rejected", func(t *testing.T) {
		body := stripepayPayload("checkout.session.completed", "paid", bookingID)

		_, err := r.Normalize(body, stripepaySign(body, now.Add(-6*time.Minute), stripepaySecret))
		assert.ErrorIs(t, err, payment.ErrSignatureMismatch)
	})

	t.Run("missing signature header rejected", func(t *testing.T) {
		body := stripepayPayload("checkout.session.completed", "paid", bookingID)

		_, err := r.Normalize(body, "")
		assert.ErrorIs(t, err, payment.ErrSignatureMismatch)
	})

	t.Run("empty secret rejects even a matching signature", func(t *testing.T) {
		unconfigured := payment.NewReconciler(payment.NewStripepay("", clock.NewMockClock(now)))
		body := stripepayPayload("checkout.session.completed", "paid", bookingID)

		_, err := unconfigured.Normalize(body, stripepaySign(body, now, ""))
		assert.ErrorIs(t, err, payment.ErrSignatureMismatch)
	})

	t.Run("tampered payload rejected", func(t *testing.T) {
		body := stripepayPayload("checkout.session.completed", "paid", bookingID)
		sig := stripepaySign(body, now, stripepaySecret)
		tampered := stripepayPayload("checkout.session.completed", "paid", uuid.New())

		_, err := r.Normalize(tampered, sig)
		assert.ErrorIs(t, err, payment.ErrSignatureMismatch)
	})

	t.Run("status mapping", func(t *testing.T) {
		tests := []struct {
			eventType     string
			paymentStatus string
			want          payment.Status
		}{
			{"checkout.session.completed", "paid", payment.StatusApproved},
			{"checkout.session.completed", "unpaid", payment.StatusPending},
			{"checkout.session.async_payment_succeeded", "paid", payment.StatusApproved},
			{"checkout.session.async_payment_failed", "unpaid", payment.StatusDeclined},
			{"checkout.session.expired", "unpaid", payment.StatusError},
		}
		for _, tt := range tests {
			body := stripepayPayload(tt.eventType, tt.paymentStatus, bookingID)
			evt, err := r.Normalize(body, stripepaySign(body, now, stripepaySecret))
			require.NoError(t, err, tt.eventType)
			assert.Equal(t, tt.want, evt.Status, tt.eventType)
		}
	})

	t.Run("missing booking reference rejected", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_1", "object": "event", "type": "checkout.session.completed",
			"data": {"object": {"id": "cs_1", "payment_intent": "pi_1", "payment_status": "paid", "metadata": {}}}
		}`)

		_, err := r.Normalize(body, stripepaySign(body, now, stripepaySecret))
		assert.ErrorIs(t, err, payment.ErrMissingBookingRef)
	})
}

func TestNormalizeSquarepay(t *testing.T) {
	bookingID := uuid.New()
	r := newReconciler()

	t.Run("valid signature normalizes", func(t *testing.T) {
		body := squarepayPayload("COMPLETED", bookingID)

		evt, err := r.Normalize(body, squarepaySign(body, squarepayKey))
		require.NoError(t, err)

		assert.Equal(t, "squarepay", evt.Provider)
		assert.Equal(t, "sp_1", evt.Reference)
		assert.Equal(t, bookingID, evt.BookingID)
		assert.Equal(t, payment.StatusApproved, evt.Status)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		body := squarepayPayload("COMPLETED", bookingID)

		_, err := r.Normalize(body, squarepaySign(body, "sq_sig_other"))
		assert.ErrorIs(t, err, payment.ErrSignatureMismatch)
	})

	t.Run("status mapping", func(t *testing.T) {
		tests := []struct {
			status string
			want   payment.Status
		}{
			{"COMPLETED", payment.StatusApproved},
			{"APPROVED", payment.StatusApproved},
			{"FAILED", payment.StatusDeclined},
			{"CANCELED", payment.StatusDeclined},
			{"PENDING", payment.StatusPending},
		}
		for _, tt := range tests {
			body := squarepayPayload(tt.status, bookingID)
			evt, err := r.Normalize(body, squarepaySign(body, squarepayKey))
			require.NoError(t, err, tt.status)
			assert.Equal(t, tt.want, evt.Status, tt.status)
		}
	})

	t.Run("unmapped status rejected", func(t *testing.T) {
		body := squarepayPayload("EXPLODED", bookingID)

		_, err := r.Normalize(body, squarepaySign(body, squarepayKey))
		assert.ErrorIs(t, err, payment.ErrUnmappedStatus)
	})
}

func TestNormalizeUnknownShape(t *testing.T) {
	r := newReconciler()

	_, err := r.Normalize([]byte(`{"hello": "world"}`), "sig")
	assert.ErrorIs(t, err, payment.ErrUnknownPayloadShape)

	_, err = r.Normalize([]byte(`not json`), "sig")
	assert.ErrorIs(t, err, payment.ErrUnknownPayloadShape)
}
