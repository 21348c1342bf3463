//go:build unit

package availability_test

import (
	"testing"
	"time"

	"slotbook/internal/domain/availability"
	"slotbook/internal/domain/timewindow"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2025-06-02 in UTC.
var day = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func win(start, end time.Time) timewindow.Window {
	return timewindow.Reconstruct(start, end)
}

func weekdayHours(t *testing.T, open, close string, days ...time.Weekday) availability.BusinessHours {
	t.Helper()
	r, err := availability.NewClockRange(open, close)
	require.NoError(t, err)
	hours := availability.NewBusinessHours()
	for _, d := range days {
		hours = hours.WithDay(d, r)
	}
	return hours
}

func TestComputeSlots(t *testing.T) {
	calc, err := availability.NewCalculator(30 * time.Minute)
	require.NoError(t, err)

	t.Run("busy periods and holds carve the open day", func(t *testing.T) {
		hours := weekdayHours(t, "09:00", "17:00", time.Monday)
		busy := []timewindow.Window{win(at(10, 0), at(11, 0))}
		holds := []timewindow.Window{win(at(14, 0), at(14, 30))}

		slots, err := calc.ComputeSlots(busy, holds, at(9, 0), at(15, 0), time.Hour, hours, time.UTC)
		require.NoError(t, err)

		want := []timewindow.Window{
			win(at(9, 0), at(10, 0)),
			win(at(11, 0), at(12, 0)),
			win(at(11, 30), at(12, 30)),
			win(at(12, 0), at(13, 0)),
			win(at(12, 30), at(13, 30)),
			win(at(13, 0), at(14, 0)),
		}
		assertWindows(t, want, slots)
	})

	t.Run("slot ending past range end is excluded", func(t *testing.T) {
		hours := weekdayHours(t, "09:00", "17:00", time.Monday)

		slots, err := calc.ComputeSlots(nil, nil, at(9, 0), at(10, 30), time.Hour, hours, time.UTC)
		require.NoError(t, err)

		assertWindows(t, []timewindow.Window{
			win(at(9, 0), at(10, 0)),
			win(at(9, 30), at(10, 30)),
		}, slots)
	})

	t.Run("closed day yields nothing", func(t *testing.T) {
		hours := weekdayHours(t, "09:00", "17:00", time.Tuesday)

		slots, err := calc.ComputeSlots(nil, nil, at(9, 0), at(17, 0), time.Hour, hours, time.UTC)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("business hours expand in the professional's timezone", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)

		// 09:00 New York is 13:00 UTC during DST.
		hours := weekdayHours(t, "09:00", "11:00", time.Monday)

		slots, err := calc.ComputeSlots(nil, nil, at(0, 0), at(23, 0), time.Hour, hours, loc)
		require.NoError(t, err)

		assertWindows(t, []timewindow.Window{
			win(at(13, 0), at(14, 0)),
			win(at(13, 30), at(14, 30)),
			win(at(14, 0), at(15, 0)),
		}, slots)
	})

	t.Run("open hour splits cleanly into aligned slots", func(t *testing.T) {
		hours := weekdayHours(t, "09:00", "17:00", time.Monday)

		slots, err := calc.ComputeSlots(nil, nil, at(9, 0), at(10, 0), 30*time.Minute, hours, time.UTC)
		require.NoError(t, err)

		assertWindows(t, []timewindow.Window{
			win(at(9, 0), at(9, 30)),
			win(at(9, 30), at(10, 0)),
		}, slots)
	})

	t.Run("busy period straddling both candidates leaves none", func(t *testing.T) {
		hours := weekdayHours(t, "09:00", "17:00", time.Monday)
		busy := []timewindow.Window{win(at(9, 15), at(9, 45))}

		slots, err := calc.ComputeSlots(busy, nil, at(9, 0), at(10, 0), 30*time.Minute, hours, time.UTC)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("spring-forward day keeps the local opening hour", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)

		// Sunday 2025-03-09: clocks jump 02:00 EST -> 03:00 EDT, so 09:00
		// local is only 8 elapsed hours after midnight. 09:00 EDT = 13:00 UTC.
		hours := weekdayHours(t, "09:00", "10:00", time.Sunday)
		rangeStart := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

		slots, err := calc.ComputeSlots(nil, nil, rangeStart, rangeStart.Add(24*time.Hour), time.Hour, hours, loc)
		require.NoError(t, err)

		assertWindows(t, []timewindow.Window{
			win(time.Date(2025, 3, 9, 13, 0, 0, 0, time.UTC), time.Date(2025, 3, 9, 14, 0, 0, 0, time.UTC)),
		}, slots)
	})

	t.Run("fall-back day keeps the local opening hour", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)

		// Sunday 2025-11-02: clocks repeat 01:00-02:00, so 09:00 local is
		// 10 elapsed hours after midnight. 09:00 EST = 14:00 UTC.
		hours := weekdayHours(t, "09:00", "10:00", time.Sunday)
		rangeStart := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)

		slots, err := calc.ComputeSlots(nil, nil, rangeStart, rangeStart.Add(24*time.Hour), time.Hour, hours, loc)
		require.NoError(t, err)

		assertWindows(t, []timewindow.Window{
			win(time.Date(2025, 11, 2, 14, 0, 0, 0, time.UTC), time.Date(2025, 11, 2, 15, 0, 0, 0, time.UTC)),
		}, slots)
	})

	t.Run("misaligned free run snaps forward onto the grid", func(t *testing.T) {
		hours := weekdayHours(t, "09:00", "17:00", time.Monday)
		busy := []timewindow.Window{win(at(9, 0), at(9, 10))}

		slots, err := calc.ComputeSlots(busy, nil, at(9, 0), at(11, 0), 30*time.Minute, hours, time.UTC)
		require.NoError(t, err)

		assertWindows(t, []timewindow.Window{
			win(at(9, 30), at(10, 0)),
			win(at(10, 0), at(10, 30)),
			win(at(10, 30), at(11, 0)),
		}, slots)
	})

	t.Run("invalid range rejected", func(t *testing.T) {
		hours := weekdayHours(t, "09:00", "17:00", time.Monday)

		_, err := calc.ComputeSlots(nil, nil, at(10, 0), at(10, 0), time.Hour, hours, time.UTC)
		assert.ErrorIs(t, err, availability.ErrInvalidRange)
	})

	t.Run("non-positive duration rejected", func(t *testing.T) {
		hours := weekdayHours(t, "09:00", "17:00", time.Monday)

		_, err := calc.ComputeSlots(nil, nil, at(9, 0), at(17, 0), 0, hours, time.UTC)
		assert.ErrorIs(t, err, availability.ErrInvalidDuration)
	})
}

func TestNewClockRange(t *testing.T) {
	t.Run("close before open rejected", func(t *testing.T) {
		_, err := availability.NewClockRange("17:00", "09:00")
		assert.Error(t, err)
	})

	t.Run("malformed clock rejected", func(t *testing.T) {
		_, err := availability.NewClockRange("nine", "17:00")
		assert.Error(t, err)
	})
}

func assertWindows(t *testing.T, want, got []timewindow.Window) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b timewindow.Window) bool {
		return a.Equal(b)
	})); diff != "" {
		t.Errorf("slot mismatch (-want +got):\n%s", diff)
	}
}
