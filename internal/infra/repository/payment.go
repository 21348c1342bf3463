package repository

import (
	"context"
	"time"

	"slotbook/internal/domain/booking"
	"slotbook/internal/infra"
	"slotbook/internal/infra/db"
	"slotbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

func (r *PaymentRepository) Create(ctx context.Context, tx db.DBTX, p *booking.Payment) error {
	const q = `
		INSERT INTO payments (id, booking_id, amount_cents, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`

	_, err := tx.Exec(ctx, q,
		p.ID(), p.BookingID(), p.AmountCents(), p.Status().String(),
		pgconv.TimeToPgtype(p.CreatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

// FindByBookingForUpdate locks the payment row for the duration of an
// event application so duplicate deliveries serialize.
func (r *PaymentRepository) FindByBookingForUpdate(ctx context.Context, tx db.DBTX, bookingID uuid.UUID) (*booking.Payment, error) {
	const q = `
		SELECT id, booking_id, provider, COALESCE(reference, ''), amount_cents,
		       status, raw_payload, created_at, updated_at
		FROM payments
		WHERE booking_id = $1
		FOR UPDATE`

	p, err := scanPayment(tx.QueryRow(ctx, q, bookingID))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock payment", err)
	}
	return p, nil
}

// MarkResult records the verified provider outcome. The unique constraint
// on reference rejects the same reference landing on a second payment.
func (r *PaymentRepository) MarkResult(ctx context.Context, tx db.DBTX, bookingID uuid.UUID, provider, reference string, status booking.PaymentStatus, rawPayload []byte, now time.Time) error {
	const q = `
		UPDATE payments
		SET provider = $2, reference = $3, status = $4, raw_payload = $5, updated_at = $6
		WHERE booking_id = $1`

	_, err := tx.Exec(ctx, q,
		bookingID, provider, reference, status.String(), rawPayload,
		pgconv.TimeToPgtype(now),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark payment result", err)
	}
	return nil
}

func scanPayment(row holdRow) (*booking.Payment, error) {
	var (
		id, bookingID        uuid.UUID
		provider, reference  string
		amountCents          int64
		status               string
		rawPayload           []byte
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &bookingID, &provider, &reference, &amountCents,
		&status, &rawPayload, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	return booking.ReconstructPayment(
		id, bookingID, provider, reference, amountCents,
		booking.PaymentStatus(status), rawPayload,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}
