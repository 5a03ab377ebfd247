package simulation

import (
	"fmt"
	"strings"
)

// Horizon is a display window over the 52-week projection.
type Horizon string

const (
	Horizon3Months Horizon = "3m"
	Horizon6Months Horizon = "6m"
	Horizon1Year   Horizon = "1y"
)

// Weeks returns the number of weeks in the window.
func (h Horizon) Weeks() int {
	switch h {
	case Horizon3Months:
		return 13
	case Horizon6Months:
		return 26
	default:
		return HorizonWeeks
	}
}

// ParseHorizon accepts "3m", "6m", "1y" (or "12m", "52w"); empty means a full year.
func ParseHorizon(s string) (Horizon, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "3m", "13w":
		return Horizon3Months, nil
	case "6m", "26w":
		return Horizon6Months, nil
	case "", "1y", "12m", "52w":
		return Horizon1Year, nil
	default:
		return "", fmt.Errorf("unknown horizon %q (expected 3m, 6m or 1y)", s)
	}
}

// SliceWindow returns the first weeks of the projection, never more than exist.
func SliceWindow(records []WeekRecord, weeks int) []WeekRecord {
	n := min(max(weeks, 0), len(records))
	return records[:n:n]
}
