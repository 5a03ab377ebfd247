package planner

import (
	"time"

	"rtt-forecast/internal/stats"
)

// AnalyzeStability charts delivered activity for the selection and checks the rate the
// forecast runs at against its natural process limits.
func AnalyzeStability(snap Snapshot, now time.Time) stats.ActivityStability {
	filtered := snap.Data.Filter(snap.Selection)
	rate := Compute(snap).KPIs.ActivityRate
	return stats.AnalyzeActivityStability(filtered.Activity, rate, now)
}
