package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by input data and the API.
const DateLayout = "2006-01-02"

// Date truncates t to its calendar day in UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange builds a range from two calendar days.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Date(start), End: Date(end)}
}

// Validate checks that Start is not after End.
func (r DateRange) Validate() error {
	if r.End.Before(r.Start) {
		return fmt.Errorf("end date %s before start date %s", r.End.Format(DateLayout), r.Start.Format(DateLayout))
	}
	return nil
}

// Overlaps reports whether both ranges share at least one day.
func (r DateRange) Overlaps(o DateRange) bool {
	return !(r.End.Before(o.Start) || o.End.Before(r.Start))
}

// Contains reports whether day falls inside the range, endpoints included.
func (r DateRange) Contains(day time.Time) bool {
	d := Date(day)
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}
