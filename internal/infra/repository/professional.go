package repository

import (
	"context"
	"encoding/json"
	"time"

	"slotbook/internal/domain/availability"
	"slotbook/internal/infra"
	"slotbook/internal/infra/db"
	"slotbook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// ProfessionalSnapshot is the read model hold creation and availability
// computation need: timezone, hours, and the external calendar binding.
type ProfessionalSnapshot struct {
	ID             uuid.UUID
	DisplayName    string
	Timezone       string
	CalendarRef    string
	CalendarStatus string
	BusinessHours  availability.BusinessHours
}

type ServiceSnapshot struct {
	ID             uuid.UUID
	ProfessionalID uuid.UUID
	Name           string
	Duration       time.Duration
	PriceCents     int64
}

const (
	CalendarStatusActive         = "active"
	CalendarStatusNeedsReconnect = "needs_reconnect"
)

type ProfessionalRepository struct {
	db db.DBTX
}

func NewProfessionalRepository(dbtx db.DBTX) *ProfessionalRepository {
	return &ProfessionalRepository{db: dbtx}
}

func (r *ProfessionalRepository) FindByID(ctx context.Context, id uuid.UUID) (*ProfessionalSnapshot, error) {
	const q = `
		SELECT id, display_name, timezone, calendar_ref, calendar_status, business_hours
		FROM professionals
		WHERE id = $1`

	var (
		snap      ProfessionalSnapshot
		hoursJSON []byte
	)
	err := r.db.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.DisplayName, &snap.Timezone,
		&snap.CalendarRef, &snap.CalendarStatus, &hoursJSON,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("professional not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find professional by ID", err)
	}

	hours, err := parseBusinessHours(hoursJSON)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to parse business hours", err)
	}
	snap.BusinessHours = hours

	return &snap, nil
}

// DowngradeCalendarStatus flags the professional as needing a calendar
// reconnect after an upstream authorization failure.
func (r *ProfessionalRepository) DowngradeCalendarStatus(ctx context.Context, id uuid.UUID, now time.Time) error {
	const q = `
		UPDATE professionals
		SET calendar_status = $2, updated_at = $3
		WHERE id = $1
		  AND calendar_status <> $2`

	if _, err := r.db.Exec(ctx, q, id, CalendarStatusNeedsReconnect, pgconv.TimeToPgtype(now)); err != nil {
		return infra.WrapRepoErr("failed to downgrade calendar status", err)
	}
	return nil
}

func (r *ProfessionalRepository) FindServiceByID(ctx context.Context, id uuid.UUID) (*ServiceSnapshot, error) {
	const q = `
		SELECT id, professional_id, name, duration_min, price_cents
		FROM services
		WHERE id = $1`

	var (
		snap        ServiceSnapshot
		durationMin int
	)
	err := r.db.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.ProfessionalID, &snap.Name, &durationMin, &snap.PriceCents,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("service not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find service by ID", err)
	}
	snap.Duration = time.Duration(durationMin) * time.Minute

	return &snap, nil
}

// business_hours jsonb shape:
// {"mon": [{"open": "09:00", "close": "17:00"}], "tue": [...], ...}
var weekdayKeys = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

type clockRangePayload struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

func parseBusinessHours(raw []byte) (availability.BusinessHours, error) {
	hours := availability.NewBusinessHours()
	if len(raw) == 0 {
		return hours, nil
	}

	var payload map[string][]clockRangePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return hours, err
	}

	for key, ranges := range payload {
		day, ok := weekdayKeys[key]
		if !ok {
			continue
		}
		for _, cr := range ranges {
			parsed, err := availability.NewClockRange(cr.Open, cr.Close)
			if err != nil {
				return hours, err
			}
			hours = hours.WithDay(day, parsed)
		}
	}
	return hours, nil
}
