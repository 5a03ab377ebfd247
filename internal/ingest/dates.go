package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDate = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)
	ukDate  = regexp.MustCompile(`^(\d{1,2})[/\-](\d{1,2})[/\-](\d{4}|\d{2})\b`)
)

// Layouts tried after the numeric forms.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006/01/02",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseUKDate reads DD/MM/YYYY or DD-MM-YYYY (two-digit years are 20xx), ISO dates
// and a handful of written forms. Day-first is assumed for numeric dates.
func ParseUKDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := isoDate.FindStringSubmatch(s); m != nil {
		return buildDate(m[1], m[2], m[3])
	}
	if m := ukDate.FindStringSubmatch(s); m != nil {
		year := m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		return buildDate(year, m[2], m[1])
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// buildDate rejects overflowing values such as 31/02 instead of normalising them.
func buildDate(year, month, day string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// WeekIndex is the 0-based ISO week number of t.
func WeekIndex(t time.Time) int {
	_, week := t.ISOWeek()
	return week - 1
}

// MondaysStartingIn lists the Mondays that fall inside the given month.
func MondaysStartingIn(year int, month time.Month) []time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}

	var mondays []time.Time
	for d.Month() == month {
		mondays = append(mondays, d)
		d = d.AddDate(0, 0, 7)
	}
	return mondays
}

// FormatISODate renders t as yyyy-mm-dd.
func FormatISODate(t time.Time) string {
	return t.Format(time.DateOnly)
}
