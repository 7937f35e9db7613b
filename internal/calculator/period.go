package calculator

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// Range is an inclusive span of calendar days in a location. From is the
// first instant of the first day and To the last second of the last day.
type Range struct {
	From time.Time
	To   time.Time
}

// MonthRange returns the calendar month containing t, in t's location.
func MonthRange(t time.Time) Range {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return Range{From: first, To: endOfDay(last)}
}

// ParseRange builds a range from two YYYY-MM-DD dates in loc.
func ParseRange(from, to string, loc *time.Location) (Range, error) {
	f, err := time.ParseInLocation(DateLayout, from, loc)
	if err != nil {
		return Range{}, fmt.Errorf("invalid start date %q: %w", from, err)
	}
	t, err := time.ParseInLocation(DateLayout, to, loc)
	if err != nil {
		return Range{}, fmt.Errorf("invalid end date %q: %w", to, err)
	}
	if t.Before(f) {
		return Range{}, fmt.Errorf("end date %s is before start date %s", to, from)
	}
	return Range{From: f, To: endOfDay(t)}, nil
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// Days returns the start of every day in the range.
func (r Range) Days() []time.Time {
	var days []time.Time
	loc := r.From.Location()
	for d := time.Date(r.From.Year(), r.From.Month(), r.From.Day(), 0, 0, 0, 0, loc); !d.After(r.To); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// EntryDate converts a YYYY-MM-DD form value into the stored entry date:
// noon UTC, so the day survives any display time zone within ±11h.
func EntryDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC), nil
}

// DayKey formats t as YYYY-MM-DD in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
