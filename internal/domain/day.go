package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DayLayout is the wire and storage layout of a Day.
const DayLayout = "2006-01-02"

// Day is a calendar date with no time-of-day or zone. Internally it is the
// UTC midnight of that date, so day differences are exact multiples of 24h
// regardless of DST in the learner's zone.
type Day struct {
	t time.Time
}

// DayOf returns the calendar day that instant t falls on in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return NewDay(y, m, d)
}

// NewDay builds a Day from its parts. Out-of-range parts normalize the way
// time.Date does.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayFromTime reads the date parts of t in t's own location. It is the
// inverse of Time for values scanned from a DATE column.
func DayFromTime(t time.Time) Day {
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// ParseDay parses a DayLayout string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: day %q", ErrValidation, s)
	}
	return Day{t: t}, nil
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool { return d.t.IsZero() }

// Time returns the UTC midnight of d.
func (d Day) Time() time.Time { return d.t }

// String formats d with DayLayout. The zero Day formats as "".
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DayLayout)
}

// AddDays returns d shifted by n calendar days.
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// DaysSince returns the number of calendar days from o to d (d - o).
func (d Day) DaysSince(o Day) int {
	return int(d.t.Sub(o.t).Hours() / 24)
}

// Equal reports whether d and o are the same date.
func (d Day) Equal(o Day) bool { return d.t.Equal(o.t) }

// Before reports whether d is strictly earlier than o.
func (d Day) Before(o Day) bool { return d.t.Before(o.t) }

// MarshalJSON encodes d as a DayLayout string, or null when zero.
func (d Day) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a DayLayout string or null.
func (d *Day) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Day{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: day must be a string", ErrValidation)
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
