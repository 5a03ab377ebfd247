package stats

import (
	"math"

	"rtt-forecast/internal/theatre"
)

// Throughput holds cases-per-session rates derived from historical activity.
type Throughput struct {
	BySurgeon      map[string]float64 `json:"by_surgeon"`
	TotalCases     float64            `json:"total_cases"`
	UniqueSessions int                `json:"unique_sessions"`

	// OverallRate is derived from history, or the fallback when no sessions exist.
	OverallRate float64 `json:"overall_rate"`
	// EffectiveRate drives capacity math: the manual rate in sandbox, OverallRate in live.
	EffectiveRate   float64 `json:"effective_rate"`
	AvgCaseDuration float64 `json:"avg_case_duration_hours"`

	WeeksWithActuals int     `json:"weeks_with_actuals"`
	AvgActualCases   float64 `json:"avg_actual_cases"`
	AvgActualHours   float64 `json:"avg_actual_hours"`

	Sandbox bool `json:"sandbox"`
}

type sessionKey struct {
	date      string
	sessionID string
}

// EstimateThroughput derives per-surgeon and overall cases-per-session rates.
//
// Sessions are counted as distinct (date, session id) pairs per surgeon. In sandbox mode
// fallbackRate replaces the derived overall rate for capacity math.
func EstimateThroughput(activity []theatre.ActivityRecord, sandbox bool, fallbackRate, hoursPerSession float64) Throughput {
	tp := Throughput{
		BySurgeon: make(map[string]float64),
		Sandbox:   sandbox,
	}

	type surgeonTally struct {
		cases    float64
		sessions map[sessionKey]bool
	}
	tallies := make(map[string]*surgeonTally)
	weeks := make(map[int]bool)

	for _, r := range activity {
		name := theatre.NormalizeSurgeon(r.Surgeon)
		t, ok := tallies[name]
		if !ok {
			t = &surgeonTally{sessions: make(map[sessionKey]bool)}
			tallies[name] = t
		}
		t.cases += r.Completed
		t.sessions[sessionKey{date: r.Date, sessionID: r.SessionID}] = true
		weeks[r.WeekIndex] = true
	}

	for name, t := range tallies {
		n := len(t.sessions)
		tp.TotalCases += t.cases
		tp.UniqueSessions += n
		rate := 0.0
		if n > 0 {
			rate = t.cases / float64(n)
		}
		tp.BySurgeon[name] = rate
	}

	tp.OverallRate = fallbackRate
	if tp.UniqueSessions > 0 {
		tp.OverallRate = tp.TotalCases / float64(tp.UniqueSessions)
	}

	tp.EffectiveRate = tp.OverallRate
	if sandbox {
		tp.EffectiveRate = fallbackRate
	}

	divisor := tp.EffectiveRate
	if divisor == 0 {
		divisor = 1
	}
	tp.AvgCaseDuration = hoursPerSession / divisor
	if !(tp.AvgCaseDuration > 0) || math.IsInf(tp.AvgCaseDuration, 0) {
		tp.AvgCaseDuration = 1
	}

	if len(activity) > 0 && len(weeks) > 0 {
		tp.WeeksWithActuals = len(weeks)
		tp.AvgActualCases = tp.TotalCases / float64(len(weeks))
		tp.AvgActualHours = tp.AvgActualCases * tp.AvgCaseDuration
	}

	return tp
}

// RateFor returns the cases-per-session rate used for a surgeon's timetable capacity.
// Per-surgeon history is used only in live mode and only when that surgeon has a rate.
func (t Throughput) RateFor(surgeon string) float64 {
	if !t.Sandbox {
		if rate, ok := t.BySurgeon[theatre.NormalizeSurgeon(surgeon)]; ok {
			return rate
		}
	}
	return t.EffectiveRate
}

// HasActuals reports whether any completed activity was recorded.
func (t Throughput) HasActuals() bool {
	return t.TotalCases > 0 && t.AvgActualCases > 0
}
