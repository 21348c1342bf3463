package payment

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"

	"github.com/google/uuid"
)

// Squarepay signs the concatenation of the notification URL and the raw
// body with HMAC-SHA1 and sends the base64 digest as the signature header.
type Squarepay struct {
	signatureKey    string
	notificationURL string
}

func NewSquarepay(signatureKey, notificationURL string) *Squarepay {
	return &Squarepay{signatureKey: signatureKey, notificationURL: notificationURL}
}

func (s *Squarepay) Name() string {
	return "squarepay"
}

type squarepayEnvelope struct {
	EventID string `json:"event_id"`
	Type    string `json:"type"`
	Data    struct {
		Object struct {
			Payment struct {
				ID          string            `json:"id"`
				Status      string            `json:"status"`
				AmountMoney struct {
					Amount int64 `json:"amount"`
				} `json:"amount_money"`
				Metadata map[string]string `json:"metadata"`
			} `json:"payment"`
		} `json:"object"`
	} `json:"data"`
}

func (s *Squarepay) Match(payload []byte) bool {
	var probe struct {
		EventID string `json:"event_id"`
		Data    struct {
			Object struct {
				Payment json.RawMessage `json:"payment"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return false
	}
	return probe.EventID != "" && len(probe.Data.Object.Payment) > 0
}

func (s *Squarepay) Verify(payload []byte, signatureHeader string) error {
	if s.signatureKey == "" || signatureHeader == "" {
		return ErrSignatureMismatch
	}
	mac := hmac.New(sha1.New, []byte(s.signatureKey))
	mac.Write([]byte(s.notificationURL))
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(signatureHeader), []byte(expected)) {
		return ErrSignatureMismatch
	}
	return nil
}

func (s *Squarepay) Parse(payload []byte) (Event, error) {
	var evt squarepayEnvelope
	if err := json.Unmarshal(payload, &evt); err != nil {
		return Event{}, ErrMalformedPayload
	}

	pay := evt.Data.Object.Payment
	if pay.ID == "" {
		return Event{}, ErrMalformedPayload
	}

	bookingID, err := uuid.Parse(pay.Metadata["booking_id"])
	if err != nil {
		return Event{}, ErrMissingBookingRef
	}

	status, err := s.mapStatus(pay.Status)
	if err != nil {
		return Event{}, err
	}

	return Event{
		Reference:   pay.ID,
		BookingID:   bookingID,
		AmountCents: pay.AmountMoney.Amount,
		Status:      status,
	}, nil
}

func (s *Squarepay) mapStatus(status string) (Status, error) {
	switch status {
	case "COMPLETED", "APPROVED":
		return StatusApproved, nil
	case "FAILED", "CANCELED":
		return StatusDeclined, nil
	case "PENDING":
		return StatusPending, nil
	default:
		return "", ErrUnmappedStatus
	}
}
