package features

import (
	"strings"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Accepted date layouts. Time of day and zone are parsed but ignored:
// differences are taken between calendar dates as written.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -0700 MST",
	"2006/01/02",
}

// ParseDate returns the calendar date of s at UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "NaN" || s == "nan" || s == "NaT" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// SafeDateDiff returns a − b in whole days, or 0 when either date does
// not parse.
func SafeDateDiff(a, b string) float64 {
	ta, ok := ParseDate(a)
	if !ok {
		return 0
	}
	tb, ok := ParseDate(b)
	if !ok {
		return 0
	}
	return float64((ta.Unix() - tb.Unix()) / secondsPerDay)
}
