package simulation

import (
	"math"

	"rtt-forecast/internal/stats"
)

// HorizonWeeks is the fixed length of every projection.
const HorizonWeeks = 52

// WeekRecord is the projected state of the waiting list at the end of one week.
type WeekRecord struct {
	Week                 int     `json:"week"`
	TotalWL              int     `json:"totalWL"`
	DemandCases          int     `json:"demandCases"`
	CapacityCases        int     `json:"capacityCases"` // activity rate used for the run
	NetChange            int     `json:"netChange"`
	ProjectedRTTPercent  float64 `json:"projectedRttPercent"`
	DemandHours          float64 `json:"demandHours"`
	CapacityHours        float64 `json:"capacityHours"`
	NetChangeHours       float64 `json:"netChangeHours"`
	ActivityPlanContract float64 `json:"activityPlanContract"`
	ActualActivity       float64 `json:"actualActivity"`
	ActualActivityHours  float64 `json:"actualActivityHours"`
	TreatedCases         int     `json:"treatedCases"`
	LongestWait          int     `json:"longestWait"`
	stats.WaitBands
}

// Engine projects the admitted waiting list forward week by week.
type Engine struct {
	demand         stats.WeeklySeries
	contract       stats.WeeklySeries
	caseDuration   float64
	actualActivity float64
}

// NewEngine binds the weekly demand and contract series. caseDuration converts cases to
// hours and actualActivity is the historical weekly average reported alongside each week.
func NewEngine(demand, contract stats.WeeklySeries, caseDuration, actualActivity float64) *Engine {
	if !(caseDuration > 0) || math.IsInf(caseDuration, 0) {
		caseDuration = 1
	}
	return &Engine{
		demand:         demand,
		contract:       contract,
		caseDuration:   caseDuration,
		actualActivity: stats.FiniteOr(actualActivity, 0),
	}
}

// CaseDuration returns the hours-per-case factor in use.
func (e *Engine) CaseDuration() float64 {
	return e.caseDuration
}

// Step performs the transition for the 0-based week index: age, admit, treat, measure.
// The input state is left untouched.
func (e *Engine) Step(week int, state BacklogState, rate float64) (BacklogState, WeekRecord) {
	capacity := stats.CeilInt(rate)
	demand := stats.CeilInt(e.demand.At(week))

	next, treated := state.Aged().WithAdmissions(demand).Treated(capacity)

	rec := WeekRecord{
		Week:                 week + 1,
		TotalWL:              next.Total(),
		DemandCases:          demand,
		CapacityCases:        capacity,
		NetChange:            capacity - demand,
		ProjectedRTTPercent:  next.RTTPercent(),
		DemandHours:          float64(demand) * e.caseDuration,
		CapacityHours:        float64(capacity) * e.caseDuration,
		NetChangeHours:       float64(capacity-demand) * e.caseDuration,
		ActivityPlanContract: e.contract.At(week),
		ActualActivity:       e.actualActivity,
		ActualActivityHours:  e.actualActivity * e.caseDuration,
		TreatedCases:         treated,
		LongestWait:          next.LongestWait(),
		WaitBands:            next.Bands(),
	}
	return next, rec
}

// Run projects the full horizon at a constant weekly activity rate.
func (e *Engine) Run(initial BacklogState, rate float64) []WeekRecord {
	records := make([]WeekRecord, 0, HorizonWeeks)
	state := initial
	for i := 0; i < HorizonWeeks; i++ {
		var rec WeekRecord
		state, rec = e.Step(i, state, rate)
		records = append(records, rec)
	}
	return records
}

// RTTAtWeek returns projected RTT performance at the end of the 1-based week. Weeks
// outside the projection count as met (100%).
func RTTAtWeek(records []WeekRecord, week int) float64 {
	if week < 1 || week > len(records) {
		return 100
	}
	return records[week-1].ProjectedRTTPercent
}
