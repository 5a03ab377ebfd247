package simulation

import "math"

// TargetRequest describes the RTT goal the solver searches for.
type TargetRequest struct {
	Initial       BacklogState
	Capacity      int     // timetable capacity, also the fallback answer
	Demand        float64 // average weekly demand
	TargetPercent float64
	Timeframe     int // weeks; 1-based index into the projection
}

// TargetSolution is the minimal weekly activity found to reach the target.
type TargetSolution struct {
	RequiredActivity int     `json:"requiredActivity"`
	Satisfied        bool    `json:"satisfied"`
	Iterations       int     `json:"iterations"`
	UpperBound       float64 `json:"upperBound"`
}

// SearchUpperBound is the top of the activity search range:
// max(2 x capacity, 2 x demand + initial list / timeframe).
func SearchUpperBound(req TargetRequest) float64 {
	timeframe := req.Timeframe
	if timeframe == 0 {
		timeframe = 1
	}
	clearance := 2*req.Demand + float64(req.Initial.Total())/float64(timeframe)
	high := math.Max(2*float64(req.Capacity), clearance)
	if math.IsNaN(high) || math.IsInf(high, 0) {
		return 2 * float64(req.Capacity)
	}
	return high
}

// SolveRequiredActivity bisects the weekly activity rate until the projection reaches
// the target RTT percentage at the target week. When no probed rate reaches it the
// timetable capacity is returned unchanged.
func (e *Engine) SolveRequiredActivity(req TargetRequest) TargetSolution {
	high := SearchUpperBound(req)
	meets := func(rate float64) bool {
		return RTTAtWeek(e.Run(req.Initial, rate), req.Timeframe) >= req.TargetPercent
	}

	res := Bisect(0, high, meets, DefaultBisectOptions)
	sol := TargetSolution{
		RequiredActivity: req.Capacity,
		Satisfied:        res.Found,
		Iterations:       res.Iterations,
		UpperBound:       high,
	}
	if res.Found {
		sol.RequiredActivity = int(math.Ceil(res.Value))
	}
	return sol
}
