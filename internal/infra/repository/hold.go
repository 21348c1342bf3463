package repository

import (
	"context"
	"time"

	"slotbook/internal/domain/hold"
	"slotbook/internal/domain/timewindow"
	"slotbook/internal/infra"
	"slotbook/internal/infra/db"
	"slotbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type HoldRepository struct {
	db db.DBTX
}

func NewHoldRepository(dbtx db.DBTX) *HoldRepository {
	return &HoldRepository{db: dbtx}
}

// Create inserts the hold. The holds_no_overlap exclusion constraint makes
// the overlap check and the insert one atomic unit; a violation surfaces
// as KindConflict and nothing is written.
func (r *HoldRepository) Create(ctx context.Context, tx db.DBTX, h *hold.Hold) error {
	const q = `
		INSERT INTO holds (id, professional_id, service_id, slot, session_id, created_at, expires_at)
		VALUES ($1, $2, $3, tstzrange($4, $5, '[)'), $6, $7, $8)`

	_, err := tx.Exec(ctx, q,
		h.ID(), h.ProfessionalID(), h.ServiceID(),
		pgconv.TimeToPgtype(h.Window().Start()), pgconv.TimeToPgtype(h.Window().End()),
		h.SessionID(),
		pgconv.TimeToPgtype(h.CreatedAt()), pgconv.TimeToPgtype(h.ExpiresAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create hold", err)
	}
	return nil
}

// ReleaseExpiredOverlapping frees expired, unpromoted holds in the target
// window so a new hold does not have to wait for the next reaper cycle.
func (r *HoldRepository) ReleaseExpiredOverlapping(ctx context.Context, tx db.DBTX, professionalID uuid.UUID, window timewindow.Window, now time.Time) error {
	const q = `
		UPDATE holds
		SET released_at = $1
		WHERE professional_id = $2
		  AND slot && tstzrange($3, $4, '[)')
		  AND released_at IS NULL
		  AND promoted_at IS NULL
		  AND expires_at <= $1`

	_, err := tx.Exec(ctx, q,
		pgconv.TimeToPgtype(now), professionalID,
		pgconv.TimeToPgtype(window.Start()), pgconv.TimeToPgtype(window.End()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to release expired overlapping holds", err)
	}
	return nil
}

func (r *HoldRepository) FindByID(ctx context.Context, id uuid.UUID) (*hold.Hold, error) {
	const q = `
		SELECT id, professional_id, service_id, lower(slot), upper(slot),
		       session_id, created_at, expires_at, released_at, promoted_at
		FROM holds
		WHERE id = $1`

	h, err := scanHold(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("hold not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find hold by ID", err)
	}
	return h, nil
}

// Release marks the hold inactive. Releasing an already-released hold is
// a no-op success; a promoted hold is never released through this path.
func (r *HoldRepository) Release(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) error {
	const q = `
		UPDATE holds
		SET released_at = $2
		WHERE id = $1
		  AND released_at IS NULL
		  AND promoted_at IS NULL`

	if _, err := tx.Exec(ctx, q, id, pgconv.TimeToPgtype(now)); err != nil {
		return infra.WrapRepoErr("failed to release hold", err)
	}
	return nil
}

// ReleasePromoted frees the window of a promoted hold when its booking
// reaches a non-occupying status (cancelled or declined).
func (r *HoldRepository) ReleasePromoted(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) error {
	const q = `
		UPDATE holds
		SET released_at = $2
		WHERE id = $1
		  AND released_at IS NULL
		  AND promoted_at IS NOT NULL`

	if _, err := tx.Exec(ctx, q, id, pgconv.TimeToPgtype(now)); err != nil {
		return infra.WrapRepoErr("failed to release promoted hold", err)
	}
	return nil
}

// Promote is the single compare-and-swap deciding the promotion race:
// expiry is checked inside the same atomic update, so a hold mid-promotion
// is either promoted or swept, never both. Zero rows means the hold was
// released, already promoted, expired, or never existed; callers
// disambiguate by re-reading.
func (r *HoldRepository) Promote(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) (bool, error) {
	const q = `
		UPDATE holds
		SET promoted_at = $2
		WHERE id = $1
		  AND released_at IS NULL
		  AND promoted_at IS NULL
		  AND expires_at > $2`

	tag, err := tx.Exec(ctx, q, id, pgconv.TimeToPgtype(now))
	if err != nil {
		return false, infra.WrapRepoErr("failed to promote hold", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SweepExpired releases every expired hold that was never promoted.
func (r *HoldRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	const q = `
		UPDATE holds
		SET released_at = $1
		WHERE released_at IS NULL
		  AND promoted_at IS NULL
		  AND expires_at <= $1`

	tag, err := r.db.Exec(ctx, q, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to sweep expired holds", err)
	}
	return tag.RowsAffected(), nil
}

type holdRow interface {
	Scan(dest ...any) error
}

func scanHold(row holdRow) (*hold.Hold, error) {
	var (
		id, professionalID, serviceID, sessionID uuid.UUID
		slotStart, slotEnd, createdAt, expiresAt pgtype.Timestamptz
		releasedAt, promotedAt                   pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &professionalID, &serviceID, &slotStart, &slotEnd,
		&sessionID, &createdAt, &expiresAt, &releasedAt, &promotedAt,
	); err != nil {
		return nil, err
	}

	return hold.ReconstructHold(
		id, professionalID, serviceID,
		timewindow.Reconstruct(pgconv.TimeFromPgtype(slotStart), pgconv.TimeFromPgtype(slotEnd)),
		sessionID,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(expiresAt),
		pgconv.TimePtrFromPgtype(releasedAt), pgconv.TimePtrFromPgtype(promotedAt),
	), nil
}
