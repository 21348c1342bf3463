package commands

import (
	"context"
	"log/slog"
	"time"

	"slotbook/internal/domain/booking"
	"slotbook/internal/infra"
	"slotbook/internal/infra/db"
	"slotbook/internal/payment"
	"slotbook/internal/pkg/clock"
	"slotbook/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrBookingNotFound     = errs.New("booking not found")
	ErrPaymentNotFound     = errs.New("payment not found")
	ErrConflictingTerminal = errs.New("conflicting terminal transition")
	ErrUnknownEventStatus  = errs.New("unknown canonical payment status")
)

// ApplyOutcome distinguishes a first application from an idempotent replay.
type ApplyOutcome int

const (
	OutcomeApplied ApplyOutcome = iota
	OutcomeReplayed
)

type PaymentCommands interface {
	ApplyEvent(ctx context.Context, evt payment.Event) (ApplyOutcome, error)
}

type paymentCommandsImpl struct {
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	holdRepo    HoldRepository
	db          *pgxpool.Pool
	clock       clock.Clock
}

func NewPaymentCommands(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	holdRepo HoldRepository,
	db *pgxpool.Pool,
	clk clock.Clock,
) PaymentCommands {
	return &paymentCommandsImpl{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		holdRepo:    holdRepo,
		db:          db,
		clock:       clk,
	}
}

// ApplyEvent reconciles one verified canonical payment event into booking
// state. Delivery is at-least-once and possibly out of order; the effect
// is at-most-once per (reference, status): replays return OutcomeReplayed,
// a second conflicting terminal is rejected and logged, never applied.
// Every transition is all-or-nothing inside a single transaction.
func (c *paymentCommandsImpl) ApplyEvent(ctx context.Context, evt payment.Event) (ApplyOutcome, error) {
	status, err := canonicalToPaymentStatus(evt.Status)
	if err != nil {
		return 0, err
	}

	now := c.clock.Now()

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer rollback(ctx, tx)

	// Lock order: booking row, then payment row. The cancellation flow
	// takes the same order.
	b, err := c.bookingRepo.FindByIDForUpdate(ctx, tx, evt.BookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return 0, ErrBookingNotFound
		}
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	p, err := c.paymentRepo.FindByBookingForUpdate(ctx, tx, evt.BookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return 0, ErrPaymentNotFound
		}
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	decision, decisionErr := p.CheckApply(evt.Reference, status)
	switch decision {
	case booking.ApplyReplay:
		return OutcomeReplayed, nil
	case booking.ApplyConflict:
		slog.Error("rejected conflicting payment event",
			"booking_id", evt.BookingID,
			"reference", evt.Reference,
			"incoming_status", status.String(),
			"recorded_status", p.Status().String(),
		)
		return 0, errs.Mark(decisionErr, ErrConflictingTerminal)
	}

	if err := c.paymentRepo.MarkResult(ctx, tx, evt.BookingID, evt.Provider, evt.Reference, status, evt.Raw, now); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			// Same reference already recorded against another payment.
			return 0, errs.Mark(err, ErrConflictingTerminal)
		}
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	switch status {
	case booking.PaymentApproved:
		if err := c.confirmBooking(ctx, tx, b, now); err != nil {
			return 0, err
		}
	case booking.PaymentDeclined, booking.PaymentError:
		if err := c.declineBooking(ctx, tx, b, now); err != nil {
			return 0, err
		}
	case booking.PaymentPending:
		// Provider acknowledged but has not decided; booking unchanged.
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return OutcomeApplied, nil
}

func (c *paymentCommandsImpl) confirmBooking(ctx context.Context, tx db.DBTX, b *booking.Booking, now time.Time) error {
	if err := b.CheckPaymentApproval(); err != nil {
		return errs.Mark(err, ErrConflictingTerminal)
	}

	moved, err := c.bookingRepo.Transition(ctx, tx,
		b.ID(), []booking.Status{booking.StatusPendingPayment}, booking.StatusConfirmed, now)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !moved && !b.IsConfirmed() {
		return ErrConflictingTerminal
	}
	return nil
}

// declineBooking records the declined terminal and frees the time window
// by releasing the promoted hold.
func (c *paymentCommandsImpl) declineBooking(ctx context.Context, tx db.DBTX, b *booking.Booking, now time.Time) error {
	if err := b.CheckPaymentDecline(); err != nil {
		return errs.Mark(err, ErrConflictingTerminal)
	}

	moved, err := c.bookingRepo.Transition(ctx, tx,
		b.ID(), []booking.Status{booking.StatusPendingPayment}, booking.StatusDeclined, now)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !moved {
		return ErrConflictingTerminal
	}

	if err := c.holdRepo.ReleasePromoted(ctx, tx, b.HoldID(), now); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func canonicalToPaymentStatus(s payment.Status) (booking.PaymentStatus, error) {
	switch s {
	case payment.StatusApproved:
		return booking.PaymentApproved, nil
	case payment.StatusDeclined:
		return booking.PaymentDeclined, nil
	case payment.StatusPending:
		return booking.PaymentPending, nil
	case payment.StatusError:
		return booking.PaymentError, nil
	default:
		return "", ErrUnknownEventStatus
	}
}
