package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNegativeAmount      = errors.New("payment amount cannot be negative")
	ErrReferenceMismatch   = errors.New("payment reference mismatch")
	ErrPaymentAlreadyFinal = errors.New("payment already reached a terminal status")
)

// Payment is owned 1:1 by a booking. The provider reference is the
// idempotency key: one reference never produces two conflicting
// transitions. The raw provider payload is retained for audit.
type Payment struct {
	id          uuid.UUID
	bookingID   uuid.UUID
	provider    string
	reference   string
	amountCents int64
	status      PaymentStatus
	rawPayload  []byte
	createdAt   time.Time
	updatedAt   time.Time
}

func NewPayment(bookingID uuid.UUID, amountCents int64, now time.Time) (*Payment, error) {
	if amountCents < 0 {
		return nil, ErrNegativeAmount
	}
	return &Payment{
		id:          uuid.New(),
		bookingID:   bookingID,
		amountCents: amountCents,
		status:      PaymentPending,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructPayment(
	id, bookingID uuid.UUID,
	provider, reference string,
	amountCents int64,
	status PaymentStatus,
	rawPayload []byte,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:          id,
		bookingID:   bookingID,
		provider:    provider,
		reference:   reference,
		amountCents: amountCents,
		status:      status,
		rawPayload:  rawPayload,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// CheckApply decides what a verified provider event with the given
// reference and status may do to this payment: apply it, replay it
// (no-op), or reject it as a conflicting second terminal.
type ApplyDecision int

const (
	ApplyProceed ApplyDecision = iota
	ApplyReplay
	ApplyConflict
)

func (p *Payment) CheckApply(reference string, status PaymentStatus) (ApplyDecision, error) {
	if p.status.IsTerminal() {
		if p.reference == reference && p.status == status {
			return ApplyReplay, nil
		}
		return ApplyConflict, ErrPaymentAlreadyFinal
	}
	if p.reference != "" && p.reference != reference {
		return ApplyConflict, ErrReferenceMismatch
	}
	return ApplyProceed, nil
}

func (p *Payment) ID() uuid.UUID         { return p.id }
func (p *Payment) BookingID() uuid.UUID  { return p.bookingID }
func (p *Payment) Provider() string      { return p.provider }
func (p *Payment) Reference() string     { return p.reference }
func (p *Payment) AmountCents() int64    { return p.amountCents }
func (p *Payment) Status() PaymentStatus { return p.status }
func (p *Payment) RawPayload() []byte    { return p.rawPayload }
func (p *Payment) CreatedAt() time.Time  { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time  { return p.updatedAt }
