package repository

import (
	"context"
	"time"

	"slotbook/internal/domain/booking"
	"slotbook/internal/domain/timewindow"
	"slotbook/internal/infra"
	"slotbook/internal/infra/db"
	"slotbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	const q = `
		INSERT INTO bookings (id, professional_id, service_id, hold_id, slot,
		                      client_name, client_email, client_phone,
		                      status, cancel_token_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, tstzrange($5, $6, '[)'), $7, $8, $9, $10, $11, $12, $12)`

	_, err := tx.Exec(ctx, q,
		b.ID(), b.ProfessionalID(), b.ServiceID(), b.HoldID(),
		pgconv.TimeToPgtype(b.Window().Start()), pgconv.TimeToPgtype(b.Window().End()),
		b.Client().Name, b.Client().Email, b.Client().Phone,
		b.Status().String(), b.CancelTokenHash(),
		pgconv.TimeToPgtype(b.CreatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	const q = `
		SELECT id, professional_id, service_id, hold_id, lower(slot), upper(slot),
		       client_name, client_email, client_phone,
		       status, cancel_token_hash, created_at, updated_at
		FROM bookings
		WHERE id = $1`

	b, err := scanBooking(tx.QueryRow(ctx, q, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return b, nil
}

// FindByIDForUpdate locks the booking row so a payment transition and a
// concurrent cancellation serialize instead of double-applying terminals.
func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	const q = `
		SELECT id, professional_id, service_id, hold_id, lower(slot), upper(slot),
		       client_name, client_email, client_phone,
		       status, cancel_token_hash, created_at, updated_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE`

	b, err := scanBooking(tx.QueryRow(ctx, q, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock booking", err)
	}
	return b, nil
}

// Transition is the compare-and-transition primitive: the status moves to
// `to` only if the row still holds one of `from`. A false return means the
// expected state was gone; callers never overwrite a terminal blindly.
func (r *BookingRepository) Transition(ctx context.Context, tx db.DBTX, id uuid.UUID, from []booking.Status, to booking.Status, now time.Time) (bool, error) {
	const q = `
		UPDATE bookings
		SET status = $2, updated_at = $3
		WHERE id = $1
		  AND status = ANY($4)`

	fromStrs := make([]string, len(from))
	for i, s := range from {
		fromStrs[i] = s.String()
	}

	tag, err := tx.Exec(ctx, q, id, to.String(), pgconv.TimeToPgtype(now), fromStrs)
	if err != nil {
		return false, infra.WrapRepoErr("failed to transition booking status", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanBooking(row holdRow) (*booking.Booking, error) {
	var (
		id, professionalID, serviceID, holdID  uuid.UUID
		slotStart, slotEnd, createdAt, updated pgtype.Timestamptz
		clientName, clientEmail, clientPhone   string
		status, cancelTokenHash                string
	)
	if err := row.Scan(
		&id, &professionalID, &serviceID, &holdID, &slotStart, &slotEnd,
		&clientName, &clientEmail, &clientPhone,
		&status, &cancelTokenHash, &createdAt, &updated,
	); err != nil {
		return nil, err
	}

	return booking.ReconstructBooking(
		id, professionalID, serviceID, holdID,
		timewindow.Reconstruct(pgconv.TimeFromPgtype(slotStart), pgconv.TimeFromPgtype(slotEnd)),
		booking.ClientInfo{Name: clientName, Email: clientEmail, Phone: clientPhone},
		booking.Status(status), cancelTokenHash,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updated),
	), nil
}
