package mcp

import (
	"fmt"

	"rtt-forecast/internal/planner"
	"rtt-forecast/internal/theatre"
	"rtt-forecast/internal/workspace"
)

// ResponseContext tells the client which branch and slice a result was computed on.
type ResponseContext struct {
	Slot      string            `json:"slot"`
	Mode      planner.Mode      `json:"mode"`
	Selection theatre.Selection `json:"selection"`
}

// Response is the envelope every analytical tool returns.
type Response struct {
	Context  ResponseContext `json:"context"`
	Data     any             `json:"data"`
	Charts   []string        `json:"charts,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

func contextFor(mode planner.Mode, sel theatre.Selection) ResponseContext {
	return ResponseContext{
		Slot:      workspace.SlotFor(mode).String(),
		Mode:      mode,
		Selection: sel,
	}
}

// wrap labels a result with the snapshot it was computed from.
func wrap(snap planner.Snapshot, data any, charts []string, warnings []string) Response {
	return Response{
		Context:  contextFor(snap.Mode, snap.Selection),
		Data:     data,
		Charts:   charts,
		Warnings: warnings,
	}
}

// wrapCurrent labels the result of an edit with the workspace state after it.
func (s *Server) wrapCurrent(data any) Response {
	return Response{
		Context: contextFor(s.ws.Settings()),
		Data:    data,
	}
}

// forecastWarnings flags fallbacks that change how the figures should be read.
func forecastWarnings(k planner.KPISnapshot) []string {
	var w []string
	if !k.IsBacklogLoaded {
		w = append(w, "No backlog loaded: the projection starts from an empty waiting list.")
	} else if k.CurrentWL == 0 {
		w = append(w, "The selection matches no waiting-list records; RTT is reported as 0%.")
	}
	if !k.IsSandbox && !k.IsActivityLoaded && k.CalcMode == planner.CalcForecast {
		w = append(w, "No activity history loaded: the live forecast runs at timetabled capacity.")
	}
	if k.CalcMode == planner.CalcTarget && !k.TargetSatisfied {
		w = append(w, fmt.Sprintf("The RTT target was not reachable within the search range; showing current capacity (%d cases/week).", k.RequiredActivity))
	}
	if k.NetChangeCases < 0 {
		w = append(w, fmt.Sprintf("Activity is %.1f cases/week below demand; the list will grow.", -k.NetChangeCases))
	}
	return w
}

// BranchSummary describes one branch without echoing every record.
type BranchSummary struct {
	Assumptions theatre.Assumptions    `json:"assumptions"`
	Records     map[string]int         `json:"records"`
	Timetable   []theatre.TimetableRow `json:"timetable"`
}

func summarize(b workspace.Branch) BranchSummary {
	return BranchSummary{
		Assumptions: b.Assumptions,
		Records: map[string]int{
			string(workspace.DatasetTimetable): len(b.Data.Timetable),
			string(workspace.DatasetActivity):  len(b.Data.Activity),
			string(workspace.DatasetBacklog):   len(b.Data.Backlog),
			string(workspace.DatasetDemand):    len(b.Data.Demand),
			string(workspace.DatasetContract):  len(b.Data.Contract),
		},
		Timetable: b.Data.Timetable,
	}
}
