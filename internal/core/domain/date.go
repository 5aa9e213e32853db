package domain

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// CalendarDate keeps the year, month and day of t as written in t's own
// location and returns them as midnight UTC.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return CalendarDate(now.In(loc))
}

func SameDate(a, b time.Time) bool {
	return CalendarDate(a).Equal(CalendarDate(b))
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, NewValidationError(field, "must be a YYYY-MM-DD date")
	}
	return CalendarDate(t), nil
}
