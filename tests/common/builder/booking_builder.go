package builder

import (
	"time"

	"slotbook/internal/domain/booking"
	"slotbook/internal/domain/timewindow"

	"github.com/google/uuid"
)

// BookingBuilder assembles booking entities for tests. Defaults describe
// a booking awaiting payment for a slot tomorrow morning.
type BookingBuilder struct {
	id              uuid.UUID
	professionalID  uuid.UUID
	serviceID       uuid.UUID
	holdID          uuid.UUID
	start           time.Time
	end             time.Time
	clientName      string
	clientEmail     string
	status          booking.Status
	cancelTokenHash string
	createdAt       time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		id:              uuid.New(),
		professionalID:  uuid.New(),
		serviceID:       uuid.New(),
		holdID:          uuid.New(),
		start:           now.Add(24 * time.Hour),
		end:             now.Add(24*time.Hour + 30*time.Minute),
		clientName:      "Ada Client",
		clientEmail:     "ada@example.com",
		status:          booking.StatusPendingPayment,
		cancelTokenHash: "$2a$10$fake.hash.for.tests",
		createdAt:       now,
	}
}

func (b *BookingBuilder) WithID(id uuid.UUID) *BookingBuilder {
	b.id = id
	return b
}

func (b *BookingBuilder) WithHoldID(id uuid.UUID) *BookingBuilder {
	b.holdID = id
	return b
}

func (b *BookingBuilder) WithStatus(status booking.Status) *BookingBuilder {
	b.status = status
	return b
}

func (b *BookingBuilder) WithCancelTokenHash(hash string) *BookingBuilder {
	b.cancelTokenHash = hash
	return b
}

func (b *BookingBuilder) Build() *booking.Booking {
	client, err := booking.NewClientInfo(b.clientName, b.clientEmail, "")
	if err != nil {
		panic(err)
	}
	return booking.ReconstructBooking(
		b.id, b.professionalID, b.serviceID, b.holdID,
		timewindow.Reconstruct(b.start, b.end),
		client,
		b.status,
		b.cancelTokenHash,
		b.createdAt, b.createdAt,
	)
}

// PaymentBuilder assembles payment entities for tests.
type PaymentBuilder struct {
	id        uuid.UUID
	bookingID uuid.UUID
	provider  string
	reference string
	amount    int64
	status    booking.PaymentStatus
	createdAt time.Time
}

func NewPaymentBuilder() *PaymentBuilder {
	return &PaymentBuilder{
		id:        uuid.New(),
		bookingID: uuid.New(),
		amount:    5000,
		status:    booking.PaymentPending,
		createdAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
	}
}

func (b *PaymentBuilder) WithBookingID(id uuid.UUID) *PaymentBuilder {
	b.bookingID = id
	return b
}

func (b *PaymentBuilder) WithResult(provider, reference string, status booking.PaymentStatus) *PaymentBuilder {
	b.provider = provider
	b.reference = reference
	b.status = status
	return b
}

func (b *PaymentBuilder) Build() *booking.Payment {
	return booking.ReconstructPayment(
		b.id, b.bookingID,
		b.provider, b.reference,
		b.amount,
		b.status,
		nil,
		b.createdAt, b.createdAt,
	)
}
