package simulation

import "rtt-forecast/internal/stats"

// Combine overlays a static non-admitted cohort onto each admitted week and recomputes
// RTT performance for the whole list. Demand, capacity and contract columns carry over.
func Combine(admitted []WeekRecord, nonAdmitted stats.BacklogMetrics) []WeekRecord {
	combined := make([]WeekRecord, len(admitted))
	for i, w := range admitted {
		w.WaitBands = w.WaitBands.Plus(nonAdmitted.Bands)
		w.TotalWL += nonAdmitted.TotalCount
		w.ProjectedRTTPercent = stats.Percentage(w.Within18, w.TotalWL, 100)
		w.LongestWait = max(w.LongestWait, nonAdmitted.LongestWait)
		combined[i] = w
	}
	return combined
}
