package queries

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"slotbook/internal/calendar"
	"slotbook/internal/domain/availability"
	"slotbook/internal/domain/timewindow"
	"slotbook/internal/infra"
	"slotbook/internal/infra/repository"
	"slotbook/internal/pkg/clock"
	"slotbook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrProfessionalNotFound    = errs.New("professional not found")
	ErrServiceNotFound         = errs.New("service not found")
	ErrServiceMismatch         = errs.New("service does not belong to professional")
	ErrInvalidRange            = errs.New("invalid availability range")
	ErrCalendarUnauthorized    = errs.New("calendar connection needs reconnect")
	ErrCalendarUnavailable     = errs.New("calendar source unavailable")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type CatalogReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*repository.ProfessionalSnapshot, error)
	FindServiceByID(ctx context.Context, id uuid.UUID) (*repository.ServiceSnapshot, error)
	DowngradeCalendarStatus(ctx context.Context, id uuid.UUID, now time.Time) error
}

type HoldReadStore interface {
	OccupiedWindows(ctx context.Context, professionalID uuid.UUID, rangeStart, rangeEnd, now time.Time) ([]timewindow.Window, error)
}

type AvailabilityQueries interface {
	ListSlots(ctx context.Context, professionalID, serviceID uuid.UUID, rangeStart, rangeEnd time.Time) ([]Slot, error)
}

type availabilityQueriesImpl struct {
	catalog    CatalogReader
	holdReads  HoldReadStore
	busySource calendar.BusySource
	calculator *availability.Calculator
	clock      clock.Clock
}

func NewAvailabilityQueries(
	catalog CatalogReader,
	holdReads HoldReadStore,
	busySource calendar.BusySource,
	calculator *availability.Calculator,
	clk clock.Clock,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		catalog:    catalog,
		holdReads:  holdReads,
		busySource: busySource,
		calculator: calculator,
		clock:      clk,
	}
}

// ListSlots computes the bookable windows for one professional and
// service over [rangeStart, rangeEnd). The result reflects the calendar
// and hold state at read time; concurrent holds can invalidate a slot
// between listing and booking, and hold creation re-checks atomically.
func (q *availabilityQueriesImpl) ListSlots(
	ctx context.Context,
	professionalID, serviceID uuid.UUID,
	rangeStart, rangeEnd time.Time,
) ([]Slot, error) {
	if !rangeStart.Before(rangeEnd) {
		return nil, ErrInvalidRange
	}

	prof, err := q.catalog.FindByID(ctx, professionalID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProfessionalNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	svc, err := q.catalog.FindServiceByID(ctx, serviceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if svc.ProfessionalID != prof.ID {
		return nil, ErrServiceMismatch
	}

	loc, err := time.LoadLocation(prof.Timezone)
	if err != nil {
		return nil, errs.Wrapf(err, "professional %s has unknown timezone %q", prof.ID, prof.Timezone)
	}

	busy, err := q.busySource.ListBusyPeriods(ctx, prof.CalendarRef, rangeStart, rangeEnd)
	if err != nil {
		if errors.Is(err, calendar.ErrUnauthorized) {
			// Flag the connection so the professional sees a reconnect
			// prompt; the downgrade is best-effort.
			if dErr := q.catalog.DowngradeCalendarStatus(ctx, prof.ID, q.clock.Now()); dErr != nil {
				slog.Error("failed to downgrade calendar status",
					"professional_id", prof.ID, "error", dErr)
			}
			return nil, errs.Mark(err, ErrCalendarUnauthorized)
		}
		return nil, errs.Mark(err, ErrCalendarUnavailable)
	}

	holds, err := q.holdReads.OccupiedWindows(ctx, prof.ID, rangeStart, rangeEnd, q.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	windows, err := q.calculator.ComputeSlots(busy, holds, rangeStart, rangeEnd, svc.Duration, prof.BusinessHours, loc)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidRange)
	}

	slots := make([]Slot, 0, len(windows))
	for _, w := range windows {
		slots = append(slots, Slot{Start: w.Start(), End: w.End()})
	}
	return slots, nil
}
