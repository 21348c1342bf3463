package timewindow

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var ErrInvalidWindow = errors.New("window start must be before end")

// Window is an immutable half-open interval [start, end).
type Window struct {
	start time.Time
	end   time.Time
}

func New(start, end time.Time) (Window, error) {
	if !start.Before(end) {
		return Window{}, ErrInvalidWindow
	}
	return Window{start: start, end: end}, nil
}

// Reconstruct rebuilds a window from trusted storage without validation.
func Reconstruct(start, end time.Time) Window {
	return Window{start: start, end: end}
}

func (w Window) Start() time.Time {
	return w.start
}

func (w Window) End() time.Time {
	return w.end
}

func (w Window) Duration() time.Duration {
	return w.end.Sub(w.start)
}

func (w Window) IsZero() bool {
	return w.start.IsZero() && w.end.IsZero()
}

func (w Window) Equal(other Window) bool {
	return w.start.Equal(other.start) && w.end.Equal(other.end)
}

// Overlaps reports whether two half-open intervals share any instant.
func (w Window) Overlaps(other Window) bool {
	return w.start.Before(other.end) && other.start.Before(w.end)
}

func (w Window) Contains(other Window) bool {
	return !other.start.Before(w.start) && !other.end.After(w.end)
}

// ToTstzrange renders the window in Postgres tstzrange literal form.
func (w Window) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", w.start.Format(time.RFC3339Nano), w.end.Format(time.RFC3339Nano))
}

func (w Window) String() string {
	return w.ToTstzrange()
}

// Merge returns the union of the given windows as a sorted, de-overlapped
// ascending sequence. Zero-duration inputs contribute nothing. Adjacent
// windows (end == next start) are folded together.
func Merge(windows []Window) []Window {
	filtered := make([]Window, 0, len(windows))
	for _, w := range windows {
		if w.start.Before(w.end) {
			filtered = append(filtered, w)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].start.Before(filtered[j].start)
	})

	merged := []Window{filtered[0]}
	for _, w := range filtered[1:] {
		last := &merged[len(merged)-1]
		if w.start.After(last.end) {
			merged = append(merged, w)
			continue
		}
		if w.end.After(last.end) {
			last.end = w.end
		}
	}
	return merged
}

// Complement returns the free intervals inside bounds that are not covered
// by occupied. occupied must already be merged ascending.
func Complement(occupied []Window, bounds Window) []Window {
	var free []Window
	cursor := bounds.start

	for _, o := range occupied {
		if !o.end.After(bounds.start) {
			continue
		}
		if !o.start.Before(bounds.end) {
			break
		}
		if o.start.After(cursor) {
			free = append(free, Window{start: cursor, end: minTime(o.start, bounds.end)})
		}
		if o.end.After(cursor) {
			cursor = o.end
		}
	}

	if cursor.Before(bounds.end) {
		free = append(free, Window{start: cursor, end: bounds.end})
	}
	return free
}

// Intersect returns the pairwise intersections of two merged ascending
// sequences.
func Intersect(a, b []Window) []Window {
	var out []Window
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := maxTime(a[i].start, b[j].start)
		end := minTime(a[i].end, b[j].end)
		if start.Before(end) {
			out = append(out, Window{start: start, end: end})
		}
		if a[i].end.Before(b[j].end) {
			i++
		} else {
			j++
		}
	}
	return out
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
