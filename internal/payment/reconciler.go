package payment

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUnknownPayloadShape = errors.New("payload does not match any known provider")
	ErrSignatureMismatch   = errors.New("webhook signature verification failed")
	ErrMalformedPayload    = errors.New("malformed provider payload")
	ErrMissingBookingRef   = errors.New("payload carries no booking reference")
	ErrUnmappedStatus      = errors.New("provider status has no canonical mapping")
)

// Status is the canonical provider-agnostic payment outcome.
type Status string

const (
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
	StatusPending  Status = "pending"
	StatusError    Status = "error"
)

// Event is the canonical result of a verified webhook. Raw is the
// untouched provider payload kept for audit storage.
type Event struct {
	Provider    string
	Reference   string
	BookingID   uuid.UUID
	AmountCents int64
	Status      Status
	Raw         []byte
}

// Provider is one supported payment provider: it knows how to detect its
// own payload shape, verify the authenticity signature, and map its status
// vocabulary onto the canonical set.
type Provider interface {
	Name() string
	Match(payload []byte) bool
	Verify(payload []byte, signatureHeader string) error
	Parse(payload []byte) (Event, error)
}

// Reconciler normalizes raw webhook deliveries into canonical events.
// The webhook endpoint is public, so a failed Verify is a hard
// authentication boundary: the event is rejected with no partial effect.
//
// Provider selection is by payload-shape sniffing over a closed set.
// Per-provider endpoints would be sturdier; the single sniffing endpoint
// is a deliberate, documented choice.
type Reconciler struct {
	providers []Provider
}

func NewReconciler(providers ...Provider) *Reconciler {
	return &Reconciler{providers: providers}
}

func (r *Reconciler) Normalize(payload []byte, signatureHeader string) (Event, error) {
	for _, p := range r.providers {
		if !p.Match(payload) {
			continue
		}
		if err := p.Verify(payload, signatureHeader); err != nil {
			return Event{}, err
		}
		evt, err := p.Parse(payload)
		if err != nil {
			return Event{}, err
		}
		evt.Provider = p.Name()
		evt.Raw = payload
		return evt, nil
	}
	return Event{}, ErrUnknownPayloadShape
}
