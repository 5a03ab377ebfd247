package stats

import "rtt-forecast/internal/theatre"

// Capacity is the weekly treatment capacity derived from the timetable.
type Capacity struct {
	TimetableCases float64 `json:"timetable_cases"` // before lists and efficiency
	Cases          int     `json:"capacity_cases"`
	Hours          float64 `json:"capacity_hours"`
}

// CalculateCapacity converts timetable sessions, additional lists and efficiency into
// weekly case and hour capacity.
func CalculateCapacity(rows []theatre.TimetableRow, tp Throughput, additionalLists, efficiencyPct float64) Capacity {
	var c Capacity
	for _, r := range rows {
		c.TimetableCases += r.SessionsPerWeek() * tp.RateFor(r.Surgeon)
	}

	raw := (c.TimetableCases + additionalLists*tp.EffectiveRate) * (efficiencyPct / 100)
	c.Cases = CeilInt(FiniteOr(raw, 0))
	c.Hours = float64(c.Cases) * tp.AvgCaseDuration
	return c
}
