//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"slotbook/internal/calendar"
	"slotbook/internal/domain/availability"
	"slotbook/internal/domain/timewindow"
	"slotbook/internal/infra/repository"
	"slotbook/internal/pkg/clock"
	"slotbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

type stubCatalog struct {
	prof       *repository.ProfessionalSnapshot
	svc        *repository.ServiceSnapshot
	downgraded int
}

func (s *stubCatalog) FindByID(context.Context, uuid.UUID) (*repository.ProfessionalSnapshot, error) {
	return s.prof, nil
}

func (s *stubCatalog) FindServiceByID(context.Context, uuid.UUID) (*repository.ServiceSnapshot, error) {
	return s.svc, nil
}

func (s *stubCatalog) DowngradeCalendarStatus(context.Context, uuid.UUID, time.Time) error {
	s.downgraded++
	return nil
}

type stubHoldReads struct {
	windows []timewindow.Window
}

func (s *stubHoldReads) OccupiedWindows(context.Context, uuid.UUID, time.Time, time.Time, time.Time) ([]timewindow.Window, error) {
	return s.windows, nil
}

type stubBusySource struct {
	busy []timewindow.Window
	err  error
}

func (s *stubBusySource) ListBusyPeriods(context.Context, string, time.Time, time.Time) ([]timewindow.Window, error) {
	return s.busy, s.err
}

func newFixture(t *testing.T) (*stubCatalog, *stubHoldReads, *stubBusySource, *availability.Calculator) {
	t.Helper()

	r, err := availability.NewClockRange("09:00", "17:00")
	require.NoError(t, err)
	hours := availability.NewBusinessHours().WithDay(time.Monday, r)

	profID := uuid.New()
	catalog := &stubCatalog{
		prof: &repository.ProfessionalSnapshot{
			ID:             profID,
			Timezone:       "UTC",
			CalendarRef:    "cal-1",
			CalendarStatus: repository.CalendarStatusActive,
			BusinessHours:  hours,
		},
		svc: &repository.ServiceSnapshot{
			ID:             uuid.New(),
			ProfessionalID: profID,
			Name:           "Consultation",
			Duration:       time.Hour,
			PriceCents:     5000,
		},
	}

	calc, err := availability.NewCalculator(30 * time.Minute)
	require.NoError(t, err)

	return catalog, &stubHoldReads{}, &stubBusySource{}, calc
}

func TestListSlots(t *testing.T) {
	clk := clock.NewMockClock(at(8, 0))

	t.Run("busy calendar periods and live holds both exclude", func(t *testing.T) {
		catalog, holds, busy, calc := newFixture(t)
		busy.busy = []timewindow.Window{timewindow.Reconstruct(at(9, 0), at(12, 0))}
		holds.windows = []timewindow.Window{timewindow.Reconstruct(at(12, 0), at(16, 0))}

		q := queries.NewAvailabilityQueries(catalog, holds, busy, calc, clk)
		slots, err := q.ListSlots(context.Background(), catalog.prof.ID, catalog.svc.ID, at(9, 0), at(17, 0))
		require.NoError(t, err)

		assert.Equal(t, []queries.Slot{{Start: at(16, 0), End: at(17, 0)}}, slots)
	})

	t.Run("service of another professional rejected", func(t *testing.T) {
		catalog, holds, busy, calc := newFixture(t)
		catalog.svc.ProfessionalID = uuid.New()

		q := queries.NewAvailabilityQueries(catalog, holds, busy, calc, clk)
		_, err := q.ListSlots(context.Background(), catalog.prof.ID, catalog.svc.ID, at(9, 0), at(17, 0))
		assert.ErrorIs(t, err, queries.ErrServiceMismatch)
	})

	t.Run("calendar auth failure downgrades the connection", func(t *testing.T) {
		catalog, holds, busy, calc := newFixture(t)
		busy.err = calendar.ErrUnauthorized

		q := queries.NewAvailabilityQueries(catalog, holds, busy, calc, clk)
		_, err := q.ListSlots(context.Background(), catalog.prof.ID, catalog.svc.ID, at(9, 0), at(17, 0))

		assert.ErrorIs(t, err, queries.ErrCalendarUnauthorized)
		assert.Equal(t, 1, catalog.downgraded)
	})

	t.Run("calendar outage does not downgrade", func(t *testing.T) {
		catalog, holds, busy, calc := newFixture(t)
		busy.err = calendar.ErrUnavailable

		q := queries.NewAvailabilityQueries(catalog, holds, busy, calc, clk)
		_, err := q.ListSlots(context.Background(), catalog.prof.ID, catalog.svc.ID, at(9, 0), at(17, 0))

		assert.ErrorIs(t, err, queries.ErrCalendarUnavailable)
		assert.Zero(t, catalog.downgraded)
	})

	t.Run("inverted range rejected before any lookup", func(t *testing.T) {
		catalog, holds, busy, calc := newFixture(t)

		q := queries.NewAvailabilityQueries(catalog, holds, busy, calc, clk)
		_, err := q.ListSlots(context.Background(), catalog.prof.ID, catalog.svc.ID, at(17, 0), at(9, 0))
		assert.ErrorIs(t, err, queries.ErrInvalidRange)
	})
}
