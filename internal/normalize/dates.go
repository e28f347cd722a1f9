package normalize

import (
	"strings"
	"time"
)

// Common date formats found in hospital billing exports.
var dateFormats = []string{
	"02.01.2006",
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"02.01.2006 15:04",
	"02.01.2006 15:04:05",
}

// ParseDate attempts to parse a date string in multiple common formats.
// Returns nil if the input is empty or unparseable; a malformed date must
// never abort processing, the row just fails to group with related rows.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// DayDiff returns the calendar-day difference between two dates, ignoring
// the time-of-day component. Positive when b is after a.
func DayDiff(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
