package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"slotbook/internal/pkg/clock"

	"github.com/google/uuid"
)

// Stripepay signs webhooks with HMAC-SHA256 over "timestamp.payload",
// delivered as a header of the form "t=<unix>,v1=<hex>[,v1=<hex>...]".
// Deliveries older than the tolerance are rejected to limit replay.
const stripepayTimestampTolerance = 5 * time.Minute

type Stripepay struct {
	secret string
	clock  clock.Clock
}

func NewStripepay(secret string, clk clock.Clock) *Stripepay {
	return &Stripepay{secret: secret, clock: clk}
}

func (s *Stripepay) Name() string {
	return "stripepay"
}

type stripepayEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string            `json:"id"`
			PaymentIntent string            `json:"payment_intent"`
			AmountTotal   int64             `json:"amount_total"`
			PaymentStatus string            `json:"payment_status"`
			Metadata      map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

func (s *Stripepay) Match(payload []byte) bool {
	var probe struct {
		Object string `json:"object"`
		Type   string `json:"type"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return false
	}
	return probe.Object == "event" && strings.HasPrefix(probe.Type, "checkout.session.")
}

func (s *Stripepay) Verify(payload []byte, signatureHeader string) error {
	if s.secret == "" || signatureHeader == "" {
		return ErrSignatureMismatch
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(signatureHeader, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return ErrSignatureMismatch
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrSignatureMismatch
	}
	drift := s.clock.Now().Unix() - ts
	if drift < 0 {
		drift = -drift
	}
	if drift > int64(stripepayTimestampTolerance.Seconds()) {
		return ErrSignatureMismatch
	}

	mac := hmac.New(sha256.New, []byte(s.secret))
	fmt.Fprintf(mac, "%s.%s", timestamp, payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return ErrSignatureMismatch
}

func (s *Stripepay) Parse(payload []byte) (Event, error) {
	var evt stripepayEnvelope
	if err := json.Unmarshal(payload, &evt); err != nil {
		return Event{}, ErrMalformedPayload
	}

	obj := evt.Data.Object
	bookingIDStr := obj.Metadata["booking_id"]
	if bookingIDStr == "" {
		return Event{}, ErrMissingBookingRef
	}
	bookingID, err := uuid.Parse(bookingIDStr)
	if err != nil {
		return Event{}, ErrMissingBookingRef
	}

	reference := obj.PaymentIntent
	if reference == "" {
		reference = obj.ID
	}
	if reference == "" {
		return Event{}, ErrMalformedPayload
	}

	status, err := s.mapStatus(evt.Type, obj.PaymentStatus)
	if err != nil {
		return Event{}, err
	}

	return Event{
		Reference:   reference,
		BookingID:   bookingID,
		AmountCents: obj.AmountTotal,
		Status:      status,
	}, nil
}

func (s *Stripepay) mapStatus(eventType, paymentStatus string) (Status, error) {
	switch eventType {
	case "checkout.session.completed":
		if paymentStatus == "unpaid" {
			return StatusPending, nil
		}
		return StatusApproved, nil
	case "checkout.session.async_payment_succeeded":
		return StatusApproved, nil
	case "checkout.session.async_payment_failed":
		return StatusDeclined, nil
	case "checkout.session.expired":
		return StatusError, nil
	default:
		return "", ErrUnmappedStatus
	}
}
