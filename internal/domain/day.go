package domain

import (
	"fmt"
	"time"
)

// DayLayout is the format of a local calendar day key.
const DayLayout = "2006-01-02"

// Calendar maps instants to local calendar days in a fixed zone. Both the
// weight key and the water-day bucketing are derived from the same Calendar
// so "today" means the same thing for every metric.
type Calendar struct {
	loc *time.Location
}

// NewCalendar returns a Calendar for loc. A nil loc means time.Local.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{loc: loc}
}

// Location returns the zone the calendar buckets days in.
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// LocalDay returns the YYYY-MM-DD day t falls on in the calendar's zone.
func (c Calendar) LocalDay(t time.Time) string {
	return t.In(c.Location()).Format(DayLayout)
}

// Bounds returns the half-open instant range [start, end) covered by day.
// end is the first instant of the next day, which is not always 24h later.
func (c Calendar) Bounds(day string) (time.Time, time.Time, error) {
	d, err := time.Parse(DayLayout, day)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Field: "day", Msg: fmt.Sprintf("must be YYYY-MM-DD, got %q", day)}
	}
	y, m, dd := d.Date()
	return c.firstInstant(y, m, dd), c.firstInstant(y, m, dd+1), nil
}

// firstInstant returns the earliest instant whose local day is y-m-d. Local
// midnight may be skipped (clocks jump forward at 00:00) or repeated (clocks
// fall back onto it).
func (c Calendar) firstInstant(y int, m time.Month, d int) time.Time {
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(DayLayout)
	t := time.Date(y, m, d, 0, 0, 0, 0, c.Location())

	if c.LocalDay(t) != day {
		// Midnight fell into a gap; the day starts at the transition.
		if _, next := t.ZoneBounds(); !next.IsZero() {
			t = next
		}
	}

	// Midnight repeated: prefer the occurrence in the earlier zone period.
	if start, _ := t.ZoneBounds(); !start.IsZero() {
		prev := start.Add(-time.Nanosecond)
		if c.LocalDay(prev) == day {
			_, offset := prev.Zone()
			if earlier := time.Date(y, m, d, 0, 0, 0, 0, time.FixedZone("", offset)); earlier.Before(t) {
				t = earlier
			}
		}
	}
	return t
}

// ValidDay reports whether day is a well-formed YYYY-MM-DD key.
func ValidDay(day string) bool {
	t, err := time.Parse(DayLayout, day)
	return err == nil && t.Format(DayLayout) == day
}
