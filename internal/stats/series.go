package stats

import (
	"maps"

	"rtt-forecast/internal/theatre"
)

// WeeklySeries is a read-only week-index -> amount mapping with a fallback for missing weeks.
type WeeklySeries struct {
	byWeek   map[int]float64
	Average  float64 `json:"average"`
	Fallback float64 `json:"fallback"`
	Loaded   bool    `json:"loaded"`
}

// At returns the amount for a 0-based week, or the fallback when that week has no entry
// or a zero amount.
func (s WeeklySeries) At(week int) float64 {
	if v := s.byWeek[week]; v != 0 {
		return v
	}
	return s.Fallback
}

// Weeks returns a copy of the underlying mapping.
func (s WeeklySeries) Weeks() map[int]float64 {
	return maps.Clone(s.byWeek)
}

func buildSeries[T any](entries []T, week func(T) int, amount func(T) float64) (map[int]float64, float64) {
	byWeek := make(map[int]float64)
	total := 0.0
	for _, e := range entries {
		byWeek[week(e)] += amount(e)
		total += amount(e)
	}
	if len(entries) == 0 {
		return byWeek, 0
	}
	return byWeek, total / float64(len(entries))
}

// BuildDemandPlan builds the weekly demand series.
//
// With a profile the average is the mean over profile entries and weeks missing from
// the profile fall back to that average. Without one, demand is flat at
// flatDemand * (1 + shockPct/100).
func BuildDemandPlan(profile []theatre.DemandEntry, flatDemand, shockPct float64) WeeklySeries {
	if len(profile) == 0 {
		avg := FiniteOr(flatDemand*(1+shockPct/100), 0)
		return WeeklySeries{byWeek: map[int]float64{}, Average: avg, Fallback: avg}
	}
	byWeek, avg := buildSeries(profile,
		func(e theatre.DemandEntry) int { return e.WeekIndex },
		func(e theatre.DemandEntry) float64 { return e.Demand },
	)
	return WeeklySeries{byWeek: byWeek, Average: avg, Fallback: avg, Loaded: true}
}

// BuildContractPlan builds the weekly contracted-activity series. Weeks without a plan
// entry, and an absent plan, contribute 0.
func BuildContractPlan(plan []theatre.ContractEntry) WeeklySeries {
	byWeek, avg := buildSeries(plan,
		func(e theatre.ContractEntry) int { return e.WeekIndex },
		func(e theatre.ContractEntry) float64 { return e.WeeklyAmount },
	)
	return WeeklySeries{byWeek: byWeek, Average: avg, Loaded: len(plan) > 0}
}
