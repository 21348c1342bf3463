package readstore

import (
	"context"

	"slotbook/internal/infra"
	"slotbook/internal/infra/db"
	"slotbook/internal/pkg/pgconv"
	"slotbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	const q = `
		SELECT b.id, b.professional_id, b.service_id, s.name,
		       lower(b.slot), upper(b.slot), b.status,
		       b.client_name, b.client_email,
		       p.status, b.created_at, b.updated_at
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		LEFT JOIN payments p ON p.booking_id = b.id
		WHERE b.id = $1`

	var (
		view             queries.BookingView
		start, end       pgtype.Timestamptz
		created, updated pgtype.Timestamptz
		paymentStatus    pgtype.Text
	)
	err := r.db.QueryRow(ctx, q, id).Scan(
		&view.ID, &view.ProfessionalID, &view.ServiceID, &view.ServiceName,
		&start, &end, &view.Status,
		&view.ClientName, &view.ClientEmail,
		&paymentStatus, &created, &updated,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking view", err)
	}

	view.Start = pgconv.TimeFromPgtype(start)
	view.End = pgconv.TimeFromPgtype(end)
	view.PaymentStatus = pgconv.StringPtrFromPgtype(paymentStatus)
	view.CreatedAt = pgconv.TimeFromPgtype(created)
	view.UpdatedAt = pgconv.TimeFromPgtype(updated)

	return &view, nil
}
