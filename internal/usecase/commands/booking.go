package commands

import (
	"context"
	"errors"

	"slotbook/internal/domain/booking"
	"slotbook/internal/infra"
	"slotbook/internal/pkg/canceltoken"
	"slotbook/internal/pkg/clock"
	"slotbook/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrCancelTokenMismatch = errs.New("cancellation token does not match")
	ErrAlreadyCancelled    = errs.New("booking is already cancelled")
)

type BookingCommands interface {
	CancelBooking(ctx context.Context, bookingID uuid.UUID, token string) error
}

type bookingCommandsImpl struct {
	bookingRepo BookingRepository
	holdRepo    HoldRepository
	db          *pgxpool.Pool
	clock       clock.Clock
}

func NewBookingCommands(
	bookingRepo BookingRepository,
	holdRepo HoldRepository,
	db *pgxpool.Pool,
	clk clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		bookingRepo: bookingRepo,
		holdRepo:    holdRepo,
		db:          db,
		clock:       clk,
	}
}

// CancelBooking cancels a booking presented with its single-use
// cancellation token and frees the slot. Repeating the call with the
// same token reports ErrAlreadyCancelled, which callers surface as a
// no-op success.
func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, bookingID uuid.UUID, token string) error {
	now := c.clock.Now()

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer rollback(ctx, tx)

	// Same lock order as payment reconciliation: booking first.
	b, err := c.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrBookingNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := canceltoken.Compare(b.CancelTokenHash(), token); err != nil {
		return errs.Mark(err, ErrCancelTokenMismatch)
	}

	if err := b.CheckCancellable(); err != nil {
		if errors.Is(err, booking.ErrAlreadyCancelled) {
			return ErrAlreadyCancelled
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	moved, err := c.bookingRepo.Transition(ctx, tx,
		b.ID(),
		[]booking.Status{booking.StatusPendingHold, booking.StatusPendingPayment, booking.StatusConfirmed, booking.StatusDeclined},
		booking.StatusCancelled, now)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !moved {
		// Raced with another cancel between the lock and the update.
		return ErrAlreadyCancelled
	}

	if err := c.holdRepo.ReleasePromoted(ctx, tx, b.HoldID(), now); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}
