package queries

import (
	"time"

	"github.com/google/uuid"
)

// BookingView is the read model returned to clients. Payment internals
// stay private; only the mirrored status is exposed.
type BookingView struct {
	ID             uuid.UUID
	ProfessionalID uuid.UUID
	ServiceID      uuid.UUID
	ServiceName    string
	Start          time.Time
	End            time.Time
	Status         string
	ClientName     string
	ClientEmail    string
	PaymentStatus  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Slot is one bookable candidate window.
type Slot struct {
	Start time.Time
	End   time.Time
}
