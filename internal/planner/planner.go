package planner

import (
	"rtt-forecast/internal/simulation"
	"rtt-forecast/internal/stats"
	"rtt-forecast/internal/theatre"
)

// Snapshot is everything one recompute reads: the active branch plus UI selection.
type Snapshot struct {
	Assumptions theatre.Assumptions `json:"assumptions"`
	Data        theatre.Datasets    `json:"data"`
	Selection   theatre.Selection   `json:"selection"`
	Mode        Mode                `json:"mode"`
}

// KPISnapshot is the headline summary of one recompute.
type KPISnapshot struct {
	CurrentWL          int     `json:"currentWL"`
	CurrentRTTPercent  float64 `json:"currentRttPercent"`
	CurrentLongestWait int     `json:"currentLongestWait"`

	CapacityCases int     `json:"capacityCases"`
	CapacityHours float64 `json:"capacityHours"`
	DemandCases   float64 `json:"demandCases"`
	DemandHours   float64 `json:"demandHours"`
	ContractCases float64 `json:"contractCases"`
	ContractHours float64 `json:"contractHours"`
	ActualCases   float64 `json:"actualCases"`
	ActualHours   float64 `json:"actualHours"`

	// ActivityRate is the weekly rate the displayed forecast was run at.
	ActivityRate   float64 `json:"activityRate"`
	NetChangeCases float64 `json:"netChangeCases"`
	NetChangeHours float64 `json:"netChangeHours"`

	RequiredActivity  int     `json:"requiredActivity"`
	RequiredHours     float64 `json:"requiredHours"`
	RequiredSessions  float64 `json:"requiredSessions"`
	TargetSatisfied   bool    `json:"targetSatisfied"`
	SustainableWLSize int     `json:"sustainableWlSize"`

	VarianceVsContract     float64 `json:"varianceVsContract"`
	VarianceVsDelivered    float64 `json:"varianceVsDelivered"`
	HypotheticalListsFreed float64 `json:"hypotheticalListsFreed"`
	AvgCasesPerSession     float64 `json:"avgCasesPerSession"`
	AvgCaseDurationHours   float64 `json:"avgCaseDurationHours"`

	IsBacklogLoaded  bool          `json:"isBacklogLoaded"`
	IsActivityLoaded bool          `json:"isActivityLoaded"`
	PathwayFilter    PathwayFilter `json:"pathwayFilter"`
	CalcMode         CalcMode      `json:"calcMode"`
	ViewMode         ViewMode      `json:"viewMode"`
	IsSandbox        bool          `json:"isSandbox"`
}

// Result bundles both forecasts with the KPIs.
type Result struct {
	AdmittedForecast []simulation.WeekRecord `json:"admittedForecast"`
	CombinedForecast []simulation.WeekRecord `json:"combinedForecast"`
	KPIs             KPISnapshot             `json:"kpis"`
}

// Forecast returns the admitted or combined projection for the pathway filter.
func (r Result) Forecast(p PathwayFilter) []simulation.WeekRecord {
	if p == PathwayAll {
		return r.CombinedForecast
	}
	return r.AdmittedForecast
}

// Window returns the first weeks of the projection selected by the horizon.
func (r Result) Window(p PathwayFilter, h simulation.Horizon) []simulation.WeekRecord {
	return simulation.SliceWindow(r.Forecast(p), h.Weeks())
}

// Compute is the single recompute entry point. It is pure: the snapshot is read, never
// modified, and every figure is derived afresh.
func Compute(snap Snapshot) Result {
	a := snap.Assumptions
	mode := snap.Mode.WithDefaults()

	// 1. Filter and split
	filtered := snap.Data.Filter(snap.Selection)
	admittedRows, nonAdmittedRows := theatre.SplitByPathway(filtered.Backlog)
	backlogLoaded := len(snap.Data.Backlog) > 0

	admitted := stats.CalculateBacklogMetrics(admittedRows, backlogLoaded)
	nonAdmitted := stats.CalculateBacklogMetrics(nonAdmittedRows, backlogLoaded)
	all := stats.CalculateBacklogMetrics(filtered.Backlog, backlogLoaded)

	// 2. Throughput, capacity, demand and contract
	tp := stats.EstimateThroughput(filtered.Activity, mode.Sandbox, a.AvgCasesPerSession, a.HoursPerSession)
	capacity := stats.CalculateCapacity(filtered.Timetable, tp, a.AdditionalLists, a.TheatreEfficiency)
	demand := stats.BuildDemandPlan(filtered.Demand, a.AvgWeeklyDemand, a.DemandShock)
	contract := stats.BuildContractPlan(filtered.Contract)

	engine := simulation.NewEngine(demand, contract, tp.AvgCaseDuration, tp.AvgActualCases)
	duration := engine.CaseDuration()
	initial := simulation.StateFromRecords(admittedRows)

	// 3. Target search
	required := capacity.Cases
	satisfied := false
	if mode.Calc == CalcTarget {
		sol := engine.SolveRequiredActivity(simulation.TargetRequest{
			Initial:       initial,
			Capacity:      capacity.Cases,
			Demand:        demand.Average,
			TargetPercent: a.RTTTargetPercent,
			Timeframe:     a.TimeframeToAchieve,
		})
		required = sol.RequiredActivity
		satisfied = sol.Satisfied
	}

	// 4. Forecast
	rate := activityRate(mode, tp, capacity, required)
	admittedForecast := engine.Run(initial, rate)
	combinedForecast := simulation.Combine(admittedForecast, nonAdmitted)

	// 5. KPIs
	current := admitted
	if mode.Pathway == PathwayAll {
		current = all
	}

	k := KPISnapshot{
		CurrentWL:          current.TotalCount,
		CurrentRTTPercent:  current.RTTPercent,
		CurrentLongestWait: current.LongestWait,

		CapacityCases: capacity.Cases,
		CapacityHours: capacity.Hours,
		DemandCases:   demand.Average,
		DemandHours:   demand.Average * duration,
		ContractCases: contract.Average,
		ContractHours: contract.Average * duration,
		ActualCases:   tp.AvgActualCases,
		ActualHours:   tp.AvgActualHours,

		ActivityRate:   rate,
		NetChangeCases: rate - demand.Average,
		NetChangeHours: rate*duration - demand.Average*duration,

		RequiredActivity: required,
		RequiredHours:    float64(required) * duration,
		TargetSatisfied:  satisfied,

		AvgCasesPerSession:   tp.OverallRate,
		AvgCaseDurationHours: duration,

		IsBacklogLoaded:  backlogLoaded,
		IsActivityLoaded: len(snap.Data.Activity) > 0,
		PathwayFilter:    mode.Pathway,
		CalcMode:         mode.Calc,
		ViewMode:         mode.View,
		IsSandbox:        mode.Sandbox,
	}
	if tp.EffectiveRate > 0 {
		k.RequiredSessions = float64(required) / tp.EffectiveRate
	}
	if n := len(admittedForecast); n > 0 {
		k.SustainableWLSize = admittedForecast[n-1].TotalWL
	}

	// Live variance compares delivered history with the contract; sandbox compares the plan.
	baseCases, baseHours := float64(capacity.Cases), capacity.Hours
	if !mode.Sandbox {
		baseCases, baseHours = tp.AvgActualCases, tp.AvgActualHours
	}
	varianceCases := baseCases - k.ContractCases
	k.VarianceVsContract = varianceCases
	k.VarianceVsDelivered = float64(capacity.Cases) - tp.AvgActualCases
	if mode.View == ViewHours {
		k.VarianceVsContract = baseHours - k.ContractHours
		k.VarianceVsDelivered = capacity.Hours - tp.AvgActualHours
	}
	if varianceCases > 0 && tp.EffectiveRate > 0 {
		k.HypotheticalListsFreed = varianceCases / tp.EffectiveRate
	}

	return Result{
		AdmittedForecast: admittedForecast,
		CombinedForecast: combinedForecast,
		KPIs:             k,
	}
}

// activityRate picks the weekly rate the displayed forecast runs at. Live forecasts use
// delivered history when there is any; sandbox forecasts use the timetable plan; target
// mode uses the solved rate.
func activityRate(mode Mode, tp stats.Throughput, capacity stats.Capacity, required int) float64 {
	if mode.Calc == CalcTarget {
		return float64(required)
	}
	if !mode.Sandbox && tp.HasActuals() {
		return tp.AvgActualCases
	}
	return float64(capacity.Cases)
}
