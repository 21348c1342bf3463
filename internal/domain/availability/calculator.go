package availability

import (
	"errors"
	"time"

	"slotbook/internal/domain/timewindow"
)

var (
	ErrInvalidRange       = errors.New("range start must be before range end")
	ErrInvalidDuration    = errors.New("service duration must be positive")
	ErrInvalidGranularity = errors.New("slot granularity must be positive")
)

// Calculator produces the ordered bookable slots for one request. The
// result is a snapshot: holds and busy periods change concurrently, so
// nothing here is cached and every create is re-validated at the store.
type Calculator struct {
	granularity time.Duration
}

func NewCalculator(granularity time.Duration) (*Calculator, error) {
	if granularity <= 0 {
		return nil, ErrInvalidGranularity
	}
	return &Calculator{granularity: granularity}, nil
}

func (c *Calculator) Granularity() time.Duration {
	return c.granularity
}

// ComputeSlots merges busy periods and active hold windows into one
// occupied sequence, masks it with the business hours expanded in loc,
// and walks the free runs emitting every serviceDuration-sized window
// whose start lands on the granularity grid. Slots are chronological;
// a slot ending past rangeEnd is excluded even if it starts inside.
func (c *Calculator) ComputeSlots(
	busy []timewindow.Window,
	holds []timewindow.Window,
	rangeStart, rangeEnd time.Time,
	serviceDuration time.Duration,
	hours BusinessHours,
	loc *time.Location,
) ([]timewindow.Window, error) {
	if !rangeStart.Before(rangeEnd) {
		return nil, ErrInvalidRange
	}
	if serviceDuration <= 0 {
		return nil, ErrInvalidDuration
	}

	occupied := timewindow.Merge(append(append([]timewindow.Window(nil), busy...), holds...))
	bounds := timewindow.Reconstruct(rangeStart, rangeEnd)
	open := hours.Mask(rangeStart, rangeEnd, loc)
	free := timewindow.Intersect(timewindow.Complement(occupied, bounds), open)

	var slots []timewindow.Window
	for _, run := range free {
		for start := c.alignUp(run.Start()); ; start = start.Add(c.granularity) {
			end := start.Add(serviceDuration)
			if end.After(run.End()) {
				break
			}
			slots = append(slots, timewindow.Reconstruct(start, end))
		}
	}
	return slots, nil
}

// alignUp snaps t forward onto the granularity grid (anchored at the Unix
// epoch, which keeps whole-hour grids stable across days).
func (c *Calculator) alignUp(t time.Time) time.Time {
	aligned := t.Truncate(c.granularity)
	if aligned.Before(t) {
		aligned = aligned.Add(c.granularity)
	}
	return aligned
}
