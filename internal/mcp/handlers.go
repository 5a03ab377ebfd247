package mcp

import (
	"context"
	"fmt"
	"time"

	"rtt-forecast/internal/planner"
	"rtt-forecast/internal/simulation"
	"rtt-forecast/internal/stats"
	"rtt-forecast/internal/theatre"
	"rtt-forecast/internal/visuals"
	"rtt-forecast/internal/workspace"
)

// ForecastData is the payload of forecast_waiting_list.
type ForecastData struct {
	KPIs    planner.KPISnapshot     `json:"kpis"`
	Horizon simulation.Horizon      `json:"horizon"`
	Weeks   []simulation.WeekRecord `json:"weeks"`
}

func (s *Server) handleForecast(_ context.Context, in ForecastInput) (any, error) {
	horizon, err := simulation.ParseHorizon(in.Horizon)
	if err != nil {
		return nil, err
	}

	snap := s.ws.Snapshot()
	if in.Pathway != "" {
		snap.Mode.Pathway = planner.PathwayFilter(in.Pathway)
		snap.Mode = snap.Mode.WithDefaults()
		if err := snap.Mode.Validate(); err != nil {
			return nil, err
		}
	}
	res := planner.Compute(snap)

	var charts []string
	if in.IncludeCharts || s.cfg.EnableMermaidCharts {
		charts = visuals.ForecastCharts(res, snap.Assumptions.RTTTargetPercent, horizon)
	}

	data := ForecastData{
		KPIs:    res.KPIs,
		Horizon: horizon,
		Weeks:   res.Window(res.KPIs.PathwayFilter, horizon),
	}
	return wrap(snap, data, charts, forecastWarnings(res.KPIs)), nil
}

// TargetData is the payload of solve_rtt_target.
type TargetData struct {
	TargetPercent    float64 `json:"targetPercent"`
	TimeframeWeeks   int     `json:"timeframeWeeks"`
	RequiredActivity int     `json:"requiredActivity"`
	RequiredHours    float64 `json:"requiredHours"`
	RequiredSessions float64 `json:"requiredSessions"`
	TargetSatisfied  bool    `json:"targetSatisfied"`
	CapacityCases    int     `json:"capacityCases"`
	GapCases         int     `json:"gapCases"` // required - capacity
	DemandCases      float64 `json:"demandCases"`
	RTTAtTimeframe   float64 `json:"rttAtTimeframe"`
	CurrentWL        int     `json:"currentWL"`
	FinalWL          int     `json:"finalWL"`
}

func (s *Server) handleSolveTarget(_ context.Context, in SolveTargetInput) (any, error) {
	snap := s.ws.Snapshot()
	a := snap.Assumptions
	var err error
	if in.TargetPercent != nil {
		if a, err = a.Set(theatre.KeyRTTTargetPercent, *in.TargetPercent); err != nil {
			return nil, err
		}
	}
	if in.TimeframeWeeks != nil {
		if a, err = a.Set(theatre.KeyTimeframeToAchieve, float64(*in.TimeframeWeeks)); err != nil {
			return nil, err
		}
	}
	snap.Assumptions = a
	snap.Mode.Calc = planner.CalcTarget

	res := planner.Compute(snap)
	k := res.KPIs

	if in.Apply {
		if err := s.ws.SetAssumptions(a); err != nil {
			return nil, err
		}
		mode := s.ws.Mode()
		mode.Calc = planner.CalcTarget
		if err := s.ws.SetMode(mode); err != nil {
			return nil, err
		}
		s.persist()
	}

	data := TargetData{
		TargetPercent:    a.RTTTargetPercent,
		TimeframeWeeks:   a.TimeframeToAchieve,
		RequiredActivity: k.RequiredActivity,
		RequiredHours:    k.RequiredHours,
		RequiredSessions: k.RequiredSessions,
		TargetSatisfied:  k.TargetSatisfied,
		CapacityCases:    k.CapacityCases,
		GapCases:         k.RequiredActivity - k.CapacityCases,
		DemandCases:      k.DemandCases,
		RTTAtTimeframe:   simulation.RTTAtWeek(res.AdmittedForecast, a.TimeframeToAchieve),
		CurrentWL:        k.CurrentWL,
		FinalWL:          k.SustainableWLSize,
	}
	return wrap(snap, data, nil, forecastWarnings(k)), nil
}

// WorkspaceView is the payload of get_workspace.
type WorkspaceView struct {
	Active    string            `json:"active"`
	Mode      planner.Mode      `json:"mode"`
	Selection theatre.Selection `json:"selection"`
	Live      BranchSummary     `json:"live"`
	Sandbox   BranchSummary     `json:"sandbox"`
	Options   SlicerOptions     `json:"options"`
}

// SlicerOptions lists the values the slicers can take for the active branch.
type SlicerOptions struct {
	Specialties []string `json:"specialties"`
	Surgeons    []string `json:"surgeons"`
	Sites       []string `json:"sites"`
}

func (s *Server) handleGetWorkspace(_ context.Context, _ EmptyInput) (any, error) {
	return s.workspaceView(), nil
}

func (s *Server) workspaceView() WorkspaceView {
	active := s.ws.Branch(s.ws.Active())
	sel := s.ws.Selection()
	return WorkspaceView{
		Active:    s.ws.Active().String(),
		Mode:      s.ws.Mode(),
		Selection: sel,
		Live:      summarize(s.ws.Branch(workspace.Live)),
		Sandbox:   summarize(s.ws.Branch(workspace.Sandbox)),
		Options: SlicerOptions{
			Specialties: active.Data.SpecialtyOptions(),
			Surgeons:    active.Data.SurgeonOptions(sel.Specialty),
			Sites:       active.Data.SiteOptions(),
		},
	}
}

func (s *Server) handleSetAssumption(_ context.Context, in SetAssumptionInput) (any, error) {
	a, err := s.ws.SetAssumption(in.Key, in.Value)
	if err != nil {
		return nil, err
	}
	s.persist()
	return s.wrapCurrent(a), nil
}

func (s *Server) handleSetSelection(_ context.Context, in SetSelectionInput) (any, error) {
	sel := s.ws.Selection()
	if in.Specialty != "" {
		sel.Specialty = in.Specialty
	}
	if in.Site != "" {
		sel.Site = in.Site
	}
	if len(in.Surgeons) > 0 {
		sel.Surgeons = in.Surgeons
	}
	if in.ToggleSurgeon != "" {
		sel = sel.ToggleSurgeon(in.ToggleSurgeon)
	}
	s.ws.SetSelection(sel)
	s.persist()
	return s.workspaceView().Options, nil
}

func (s *Server) handleSetMode(_ context.Context, in SetModeInput) (any, error) {
	m := s.ws.Mode()
	if in.Sandbox != nil {
		m.Sandbox = *in.Sandbox
	}
	if in.CalcMode != "" {
		m.Calc = planner.CalcMode(in.CalcMode)
	}
	if in.ViewMode != "" {
		m.View = planner.ViewMode(in.ViewMode)
	}
	if in.Pathway != "" {
		m.Pathway = planner.PathwayFilter(in.Pathway)
	}
	if err := s.ws.SetMode(m); err != nil {
		return nil, err
	}
	s.persist()
	return s.wrapCurrent(s.ws.Mode()), nil
}

func (s *Server) handleResetSandbox(_ context.Context, _ EmptyInput) (any, error) {
	s.ws.Reset()
	s.persist()
	return s.workspaceView(), nil
}

func (s *Server) handleCommitSandbox(_ context.Context, _ EmptyInput) (any, error) {
	s.ws.Commit()
	s.persist()
	return s.workspaceView(), nil
}

func (s *Server) handleActivityStability(_ context.Context, in StabilityInput) (any, error) {
	snap := s.ws.Snapshot()
	st := planner.AnalyzeStability(snap, time.Now())

	var charts []string
	if in.IncludeCharts || s.cfg.EnableMermaidCharts {
		if c := visuals.GenerateXmRChart(st); c != "" {
			charts = append(charts, c)
		}
	}

	var warnings []string
	switch {
	case len(st.Weeks) == 0:
		warnings = append(warnings, "No completed weeks of activity for the selection; load activity data to chart delivery.")
	case len(st.Weeks) < 6:
		warnings = append(warnings, fmt.Sprintf("Only %d weeks of activity; limits are provisional.", len(st.Weeks)))
	}
	if st.Status == stats.StatusShifted {
		warnings = append(warnings, "Delivered activity has shifted; the average no longer describes recent weeks.")
	}
	if st.PlanPosition == "above" {
		warnings = append(warnings, fmt.Sprintf("Forecast rate %.1f is above the upper natural process limit %.1f cases/week.", st.PlannedRate, st.XmR.UNPL))
	}

	return wrap(snap, st, charts, warnings), nil
}
