package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rtt-forecast/internal/planner"
	"rtt-forecast/internal/theatre"
	"rtt-forecast/internal/workspace"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const scenarioYAML = `name: T&O recovery
assumptions:
  theatre_efficiency: 90
  avg_weekly_demand: 12
selection:
  specialty: "110 - Trauma and Orthopaedics"
mode:
  sandbox: false
  calc: Target
data:
  backlog: data/ptl.csv
  timetable: data/timetable.csv
`

func TestLoad_YAMLWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "recovery.yaml", scenarioYAML)

	s, err := Load(path, theatre.DefaultAssumptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Name != "T&O recovery" {
		t.Errorf("Expected name from file, got %q", s.Name)
	}
	if s.Assumptions.TheatreEfficiency != 90 || s.Assumptions.AvgWeeklyDemand != 12 {
		t.Errorf("Expected overridden efficiency/demand, got %+v", s.Assumptions)
	}
	if s.Assumptions.HoursPerSession != 4 || s.Assumptions.RTTTargetPercent != 92 {
		t.Errorf("Expected defaults for unset assumptions, got %+v", s.Assumptions)
	}
	if s.Selection.Specialty != "110 - Trauma and Orthopaedics" || s.Selection.Site != theatre.AllSites {
		t.Errorf("Unexpected selection: %+v", s.Selection)
	}
	if len(s.Selection.Surgeons) != 1 || s.Selection.Surgeons[0] != theatre.AllSurgeons {
		t.Errorf("Expected all surgeons by default, got %v", s.Selection.Surgeons)
	}

	want := planner.Mode{Sandbox: false, Calc: planner.CalcTarget, View: planner.ViewCases, Pathway: planner.PathwayAdmitted}
	if s.Mode != want {
		t.Errorf("Expected mode %+v, got %+v", want, s.Mode)
	}
	if got := s.Path(s.Data.Backlog); got != filepath.Join(dir, "data", "ptl.csv") {
		t.Errorf("Expected path relative to scenario, got %s", got)
	}
}

func TestLoad_JSONNameFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "baseline.json", `{"assumptions": {"demand_shock": 10}}`)

	s, err := Load(path, theatre.DefaultAssumptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Name != "baseline" {
		t.Errorf("Expected name from file name, got %q", s.Name)
	}
	if s.Assumptions.DemandShock != 10 {
		t.Errorf("Expected shock 10, got %v", s.Assumptions.DemandShock)
	}
	if s.Mode != planner.DefaultMode() {
		t.Errorf("Expected default mode, got %+v", s.Mode)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RTT_ASSUMPTIONS_ADDITIONAL_LISTS", "3")
	dir := t.TempDir()
	path := writeFile(t, dir, "env.toml", "name = \"env\"\n")

	s, err := Load(path, theatre.DefaultAssumptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Assumptions.AdditionalLists != 3 {
		t.Errorf("Expected additional lists 3 from env, got %v", s.Assumptions.AdditionalLists)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"EfficiencyOver100", "assumptions:\n  theatre_efficiency: 120\n"},
		{"UnknownCalcMode", "mode:\n  calc: optimise\n"},
		{"ZeroTimeframe", "assumptions:\n  timeframe_to_achieve: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "bad.yaml", tt.content)
			if _, err := Load(path, theatre.DefaultAssumptions()); err == nil {
				t.Errorf("Expected validation error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), theatre.DefaultAssumptions()); err == nil {
		t.Errorf("Expected error for a missing file")
	}
}

func setupScenarioWithData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "data/ptl.csv", "Specialty,Weeks Wait,Pathway Type,Patient Count\nT&O,2,Admitted,30\nT&O,20,Admitted,10\nUrology,1,Admitted,5\n")
	writeFile(t, dir, "data/timetable.csv", "Specialty,Surgeon,Site,Sessions Odd,Sessions Even\nT&O,\"Smith, Mr John\",MT,2,2\n")
	return writeFile(t, dir, "recovery.yaml", scenarioYAML)
}

func TestLoadData(t *testing.T) {
	s, err := Load(setupScenarioWithData(t), theatre.DefaultAssumptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	data, reports, err := s.LoadData()
	if err != nil {
		t.Fatalf("LoadData failed: %v", err)
	}
	if len(data.Backlog) != 3 || len(data.Timetable) != 1 {
		t.Errorf("Expected 3 backlog cohorts and 1 timetable row, got %d / %d", len(data.Backlog), len(data.Timetable))
	}
	if len(data.Activity) != 0 || len(data.Demand) != 0 {
		t.Errorf("Expected unnamed datasets to stay empty")
	}
	if len(reports) != 2 || reports[0].Dataset != workspace.DatasetTimetable || reports[1].Dataset != workspace.DatasetBacklog {
		t.Errorf("Expected timetable then backlog reports, got %+v", reports)
	}

	res := planner.Compute(s.Snapshot(data))
	if res.KPIs.CurrentWL != 40 {
		t.Errorf("Expected T&O list of 40, got %d", res.KPIs.CurrentWL)
	}
}

func TestLoadData_MissingFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "s.yaml", "data:\n  backlog: nowhere.csv\n")
	s, err := Load(path, theatre.DefaultAssumptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, _, err := s.LoadData(); err == nil || !strings.Contains(err.Error(), "nowhere.csv") {
		t.Errorf("Expected error naming the missing file, got %v", err)
	}
}

func TestApply(t *testing.T) {
	s, err := Load(setupScenarioWithData(t), theatre.DefaultAssumptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	w := workspace.New(theatre.DefaultAssumptions())
	if _, err := s.Apply(w); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if w.Active() != workspace.Live {
		t.Errorf("Expected scenario mode to select the live branch")
	}
	live := w.Branch(workspace.Live)
	if live.Assumptions.TheatreEfficiency != 90 || len(live.Data.Backlog) != 3 {
		t.Errorf("Expected scenario loaded into live, got %+v", live.Assumptions)
	}
	if sandbox := w.Branch(workspace.Sandbox); len(sandbox.Data.Backlog) != 0 {
		t.Errorf("Expected sandbox untouched")
	}
	if w.Selection().Specialty != "110 - Trauma and Orthopaedics" {
		t.Errorf("Expected selection applied, got %+v", w.Selection())
	}
}
