package readstore

import (
	"context"
	"time"

	"slotbook/internal/domain/timewindow"
	"slotbook/internal/infra"
	"slotbook/internal/infra/db"
	"slotbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type HoldReadStore struct {
	db db.DBTX
}

func NewHoldReadStore(dbtx db.DBTX) *HoldReadStore {
	return &HoldReadStore{db: dbtx}
}

// OccupiedWindows returns every window still claimed against new holds in
// the range: unexpired active holds plus promoted holds (which carry the
// confirmed bookings). This is a best-effort snapshot; the exclusion
// constraint re-validates at hold-creation time.
func (r *HoldReadStore) OccupiedWindows(ctx context.Context, professionalID uuid.UUID, rangeStart, rangeEnd, now time.Time) ([]timewindow.Window, error) {
	const q = `
		SELECT lower(slot), upper(slot)
		FROM holds
		WHERE professional_id = $1
		  AND released_at IS NULL
		  AND (promoted_at IS NOT NULL OR expires_at > $2)
		  AND slot && tstzrange($3, $4, '[)')
		ORDER BY lower(slot)`

	rows, err := r.db.Query(ctx, q,
		professionalID, pgconv.TimeToPgtype(now),
		pgconv.TimeToPgtype(rangeStart), pgconv.TimeToPgtype(rangeEnd),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query occupied windows", err)
	}
	defer rows.Close()

	var windows []timewindow.Window
	for rows.Next() {
		var start, end pgtype.Timestamptz
		if err := rows.Scan(&start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan occupied window", err)
		}
		windows = append(windows, timewindow.Reconstruct(
			pgconv.TimeFromPgtype(start), pgconv.TimeFromPgtype(end),
		))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate occupied windows", err)
	}
	return windows, nil
}
