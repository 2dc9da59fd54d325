package model

import (
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

// ParseDay parses a backend date string into the calendar day it names,
// at midnight in loc. Date-only strings are read as a day in loc directly;
// timestamps are first converted to loc. ok is false for blank or
// unparseable input.
func ParseDay(s string, loc *time.Location) (day time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(DayLayout, s, loc); err == nil {
		return t, true
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		return Midnight(t.In(loc)), true
	}
	return time.Time{}, false
}

// ParseDayPtr is ParseDay for optional fields.
func ParseDayPtr(s *string, loc *time.Location) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	return ParseDay(*s, loc)
}

// Midnight strips the time of day from t, keeping its location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatDay renders t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}
