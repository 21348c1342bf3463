package commands

import (
	"context"
	"time"

	"slotbook/internal/domain/booking"
	"slotbook/internal/domain/hold"
	"slotbook/internal/domain/timewindow"
	"slotbook/internal/infra/db"
	"slotbook/internal/infra/repository"
	"slotbook/internal/pkg/session"
	"slotbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type HoldRepository interface {
	Create(ctx context.Context, tx db.DBTX, h *hold.Hold) error
	ReleaseExpiredOverlapping(ctx context.Context, tx db.DBTX, professionalID uuid.UUID, window timewindow.Window, now time.Time) error
	FindByID(ctx context.Context, id uuid.UUID) (*hold.Hold, error)
	Release(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) error
	ReleasePromoted(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) error
	Promote(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) (bool, error)
}

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	Transition(ctx context.Context, tx db.DBTX, id uuid.UUID, from []booking.Status, to booking.Status, now time.Time) (bool, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, tx db.DBTX, p *booking.Payment) error
	FindByBookingForUpdate(ctx context.Context, tx db.DBTX, bookingID uuid.UUID) (*booking.Payment, error)
	MarkResult(ctx context.Context, tx db.DBTX, bookingID uuid.UUID, provider, reference string, status booking.PaymentStatus, rawPayload []byte, now time.Time) error
}

type CatalogRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*repository.ProfessionalSnapshot, error)
	FindServiceByID(ctx context.Context, id uuid.UUID) (*repository.ServiceSnapshot, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error)
}

type SessionService interface {
	IssueToken(sessionID, holdID uuid.UUID) (string, error)
	ValidateToken(tokenString string) (*session.Claims, error)
}
