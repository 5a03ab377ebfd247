package mcp

import (
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool inputs. Fields without omitempty are required by the generated schema.

type ForecastInput struct {
	Horizon       string `json:"horizon,omitempty" jsonschema:"Display window: 3m (13 weeks), 6m (26 weeks) or 1y (52 weeks, default)"`
	Pathway       string `json:"pathway,omitempty" jsonschema:"Override the pathway filter for this call: admitted or all"`
	IncludeCharts bool   `json:"include_charts,omitempty" jsonschema:"Attach Mermaid charts even when ENABLE_MERMAID_CHARTS is off"`
}

type SolveTargetInput struct {
	TargetPercent  *float64 `json:"target_percent,omitempty" jsonschema:"RTT target in percent (0-100). Defaults to the branch assumption"`
	TimeframeWeeks *int     `json:"timeframe_weeks,omitempty" jsonschema:"Week by which the target must be met. Defaults to the branch assumption"`
	Apply          bool     `json:"apply,omitempty" jsonschema:"Store the target and timeframe on the active branch and switch to target mode"`
}

type EmptyInput struct{}

type SetAssumptionInput struct {
	Key   string  `json:"key" jsonschema:"One of hoursPerSession, theatreEfficiency, avgCasesPerSession, additionalLists, avgWeeklyDemandDTAs, demandShock, rttTargetPercent, timeframeToAchieve"`
	Value float64 `json:"value" jsonschema:"New value. Efficiency and RTT target outside 0-100 are rejected; other values are clamped"`
}

type SetSelectionInput struct {
	Specialty     string   `json:"specialty,omitempty" jsonschema:"Specialty name, TFC code or 'All Specialties'"`
	Surgeons      []string `json:"surgeons,omitempty" jsonschema:"Replace the surgeon selection; ['All Surgeons'] clears it"`
	ToggleSurgeon string   `json:"toggle_surgeon,omitempty" jsonschema:"Add or remove one surgeon from the current selection"`
	Site          string   `json:"site,omitempty" jsonschema:"Site code or 'All Sites'"`
}

type SetModeInput struct {
	Sandbox  *bool  `json:"sandbox,omitempty" jsonschema:"true edits and forecasts the sandbox branch, false the live branch"`
	CalcMode string `json:"calc_mode,omitempty" jsonschema:"forecast (project current plan) or target (solve for required activity)"`
	ViewMode string `json:"view_mode,omitempty" jsonschema:"cases or hours"`
	Pathway  string `json:"pathway,omitempty" jsonschema:"admitted (simulated list) or all (adds the static non-admitted list)"`
}

type LoadDatasetInput struct {
	Dataset string `json:"dataset" jsonschema:"timetable, activity, backlog (ptl), demand (demandProfile) or contract (contractPlan)"`
	Path    string `json:"path" jsonschema:"CSV file path; relative paths resolve against DATA_PATH"`
}

type DatasetInput struct {
	Dataset string `json:"dataset" jsonschema:"timetable, activity, backlog, demand or contract"`
}

type TimetableRowInput struct {
	ID           string  `json:"id,omitempty" jsonschema:"Existing row ID to update; omit to add a row"`
	Specialty    string  `json:"specialty,omitempty" jsonschema:"Specialty; defaults to the first known specialty"`
	Surgeon      string  `json:"surgeon,omitempty" jsonschema:"Surgeon name; defaults to Unknown"`
	Site         string  `json:"site,omitempty" jsonschema:"Site code; defaults to MT"`
	SessionsOdd  float64 `json:"sessions_odd,omitempty" jsonschema:"Sessions in odd ISO weeks"`
	SessionsEven float64 `json:"sessions_even,omitempty" jsonschema:"Sessions in even ISO weeks"`
}

type TimetableFieldInput struct {
	ID    string `json:"id" jsonschema:"Row ID"`
	Field string `json:"field" jsonschema:"sessionsOdd, sessionsEven, surgeon, specialty or site"`
	Value string `json:"value" jsonschema:"New value as text; invalid session counts become 0"`
}

type RowIDInput struct {
	ID string `json:"id" jsonschema:"Row ID"`
}

type ExportInput struct {
	Kind    string `json:"kind,omitempty" jsonschema:"forecast (default), kpis, target or skipped"`
	Dataset string `json:"dataset,omitempty" jsonschema:"Dataset whose skipped rows to export (kind=skipped)"`
	Horizon string `json:"horizon,omitempty" jsonschema:"Window for kind=forecast: 3m, 6m or 1y"`
}

type SweepInput struct {
	Specialties []string `json:"specialties,omitempty" jsonschema:"Specialties to compare; defaults to every specialty in the data"`
}

type StabilityInput struct {
	IncludeCharts bool `json:"include_charts,omitempty" jsonschema:"Attach the XmR chart even when ENABLE_MERMAID_CHARTS is off"`
}

type ScenarioInput struct {
	Path string `json:"path" jsonschema:"Scenario file (YAML, JSON or TOML); relative paths resolve against DATA_PATH"`
}

func (s *Server) registerTools(server *sdk.Server) {
	sdk.AddTool(server, &sdk.Tool{
		Name: "forecast_waiting_list",
		Description: "Project the waiting list 52 weeks ahead for the active branch and selection. " +
			"Returns headline KPIs (current list, RTT %, capacity, demand, variances) and the weekly projection for the chosen window.",
	}, handler(s.handleForecast))

	sdk.AddTool(server, &sdk.Tool{
		Name: "solve_rtt_target",
		Description: "Find the minimum weekly activity (cases) needed to reach the RTT target by the given week. " +
			"Returns required cases, hours and sessions and the gap to current capacity.",
	}, handler(s.handleSolveTarget))

	sdk.AddTool(server, &sdk.Tool{
		Name:        "get_workspace",
		Description: "Show both branches (assumptions, record counts, timetable), the active branch, mode flags, selection and slicer options.",
	}, handler(s.handleGetWorkspace))

	sdk.AddTool(server, &sdk.Tool{
		Name:        "set_assumption",
		Description: "Change one planning assumption on the active branch.",
	}, handler(s.handleSetAssumption))

	sdk.AddTool(server, &sdk.Tool{
		Name:        "set_selection",
		Description: "Change the specialty, surgeon and site slicers. Omitted fields are left unchanged.",
	}, handler(s.handleSetSelection))

	sdk.AddTool(server, &sdk.Tool{
		Name:        "set_mode",
		Description: "Switch between live and sandbox, forecast and target, cases and hours, admitted and all pathways.",
	}, handler(s.handleSetMode))

	sdk.AddTool(server, &sdk.Tool{
		Name:        "load_dataset",
		Description: "Load a CSV file into one dataset of the active branch, replacing it. Returns the validation report.",
	}, handler(s.handleLoadDataset))

	sdk.AddTool(server, &sdk.Tool{
		Name:        "clear_dataset",
		Description: "Empty one dataset of the active branch.",
	}, handler(s.handleClearDataset))

	sdk.AddTool(server, &sdk.Tool{
		Name:        "upsert_timetable_row",
		Description: "Add a timetable allocation, or update the row with the given ID. Omitted names keep their current values; session counts are always set.",
	}, handler(s.handleUpsertTimetableRow))

	sdk.AddTool(server, &sdk.Tool{
		Name:        "set_timetable_field",
		Description: "Edit one field of a timetable row.",
	}, handler(s.handleSetTimetableField))

	sdk.AddTool(server, &sdk.Tool{
		Name:        "remove_timetable_row",
		Description: "Delete a timetable row from the active branch.",
	}, handler(s.handleRemoveTimetableRow))

	sdk.AddTool(server, &sdk.Tool{
		Name:        "reset_sandbox",
		Description: "Discard sandbox edits by copying the live branch over the sandbox.",
	}, handler(s.handleResetSandbox))

	sdk.AddTool(server, &sdk.Tool{
		Name:        "commit_sandbox",
		Description: "Promote the sandbox to live and switch to the live branch.",
	}, handler(s.handleCommitSandbox))

	sdk.AddTool(server, &sdk.Tool{
		Name:        "export_forecast",
		Description: "Write the forecast, KPIs, target summary or a skipped-rows log as CSV into the export folder.",
	}, handler(s.handleExport))

	sdk.AddTool(server, &sdk.Tool{
		Name:        "sweep_specialties",
		Description: "Compute headline KPIs for several specialties at once with the active assumptions.",
	}, handler(s.handleSweep))

	sdk.AddTool(server, &sdk.Tool{
		Name:        "load_scenario",
		Description: "Apply a saved scenario file: mode, selection, assumptions and the CSV files it names.",
	}, handler(s.handleLoadScenario))

	sdk.AddTool(server, &sdk.Tool{
		Name:        "analyze_activity_stability",
		Description: "XmR chart of weekly delivered cases for the selection: natural process limits, special cause signals and whether the forecast rate is inside what the service normally delivers.",
	}, handler(s.handleActivityStability))
}
