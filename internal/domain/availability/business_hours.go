package availability

import (
	"errors"
	"fmt"
	"time"

	"slotbook/internal/domain/timewindow"
)

var (
	ErrInvalidClockTime = errors.New("invalid clock time, expected HH:MM")
	ErrInvalidDayRange  = errors.New("open time must be before close time")
)

// ClockRange is an open/close pair within a single local day, e.g. 09:00-17:00.
type ClockRange struct {
	OpenMinute  int
	CloseMinute int
}

func NewClockRange(open, close string) (ClockRange, error) {
	openMin, err := parseClockMinutes(open)
	if err != nil {
		return ClockRange{}, err
	}
	closeMin, err := parseClockMinutes(close)
	if err != nil {
		return ClockRange{}, err
	}
	if openMin >= closeMin {
		return ClockRange{}, ErrInvalidDayRange
	}
	return ClockRange{OpenMinute: openMin, CloseMinute: closeMin}, nil
}

// BusinessHours maps each weekday to zero or more open ranges. A weekday
// with no ranges yields no slots at all.
type BusinessHours struct {
	days [7][]ClockRange
}

func NewBusinessHours() BusinessHours {
	return BusinessHours{}
}

func (h BusinessHours) WithDay(day time.Weekday, ranges ...ClockRange) BusinessHours {
	h.days[day] = append(append([]ClockRange(nil), h.days[day]...), ranges...)
	return h
}

func (h BusinessHours) Ranges(day time.Weekday) []ClockRange {
	return h.days[day]
}

// Mask expands the business hours over [rangeStart, rangeEnd) in loc,
// returning a merged ascending sequence of open windows in absolute time.
// Conversion to the professional's local day happens here, before any
// intersection with busy periods.
func (h BusinessHours) Mask(rangeStart, rangeEnd time.Time, loc *time.Location) []timewindow.Window {
	if !rangeStart.Before(rangeEnd) {
		return nil
	}

	var open []timewindow.Window
	localStart := rangeStart.In(loc)
	day := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, loc)

	for day.Before(rangeEnd) {
		for _, r := range h.days[day.Weekday()] {
			// Wall-clock construction, not a duration add from midnight:
			// on DST transition days the elapsed time since midnight and
			// the local clock reading disagree by the offset change.
			winStart := time.Date(day.Year(), day.Month(), day.Day(), r.OpenMinute/60, r.OpenMinute%60, 0, 0, loc)
			winEnd := time.Date(day.Year(), day.Month(), day.Day(), r.CloseMinute/60, r.CloseMinute%60, 0, 0, loc)
			if winStart.Before(rangeStart) {
				winStart = rangeStart
			}
			if winEnd.After(rangeEnd) {
				winEnd = rangeEnd
			}
			if winStart.Before(winEnd) {
				open = append(open, timewindow.Reconstruct(winStart, winEnd))
			}
		}
		day = day.AddDate(0, 0, 1)
	}

	return timewindow.Merge(open)
}

func parseClockMinutes(s string) (int, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(s, "%d:%d", &hh, &mm); err != nil {
		return 0, ErrInvalidClockTime
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, ErrInvalidClockTime
	}
	return hh*60 + mm, nil
}
