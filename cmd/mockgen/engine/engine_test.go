package engine

import (
	"testing"
	"time"

	"rtt-forecast/internal/planner"
	"rtt-forecast/internal/theatre"
	"rtt-forecast/internal/workspace"
)

func TestGenerate_IsDeterministicPerSeed(t *testing.T) {
	cfg := GeneratorConfig{Scenario: "steady", Specialties: []string{"Urology"}, Weeks: 4, Seed: 7, Now: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)}

	a, b := Generate(cfg), Generate(cfg)
	if len(a) != 5 {
		t.Fatalf("Expected 5 tables, got %d", len(a))
	}
	for i := range a {
		if len(a[i].Rows) != len(b[i].Rows) {
			t.Errorf("Table %s differs between runs with the same seed", a[i].Name)
		}
	}
	if got := a[4].Headers; len(got) != 4 || got[1] != "Mar-25" || got[3] != "May-25" {
		t.Errorf("Expected contract months Mar-25..May-25, got %v", got)
	}
	// 3 surgeons x 4 weeks
	if len(a[1].Rows) != 12 {
		t.Errorf("Expected 12 activity rows, got %d", len(a[1].Rows))
	}
}

func TestSaveAndCheck_LoadsCleanly(t *testing.T) {
	dir := t.TempDir()
	cfg := GeneratorConfig{
		Scenario:    "backlog",
		Specialties: []string{"Trauma & Orthopaedics", "Urology"},
		Weeks:       6,
		Seed:        42,
		Now:         time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	tables := Generate(cfg)
	if err := Save(dir, tables); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reports, err := Check(dir, tables)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(reports) != 5 {
		t.Fatalf("Expected 5 reports, got %d", len(reports))
	}
	for _, rep := range reports {
		if rep.SkippedCount() != 0 {
			t.Errorf("Expected no skipped rows in %s, got %+v", rep.Dataset, rep.Skipped)
		}
		if rep.Records == 0 {
			t.Errorf("Expected records in %s", rep.Dataset)
		}
	}
}

func TestGenerate_FeedsAForecast(t *testing.T) {
	dir := t.TempDir()
	tables := Generate(GeneratorConfig{Scenario: "recovery", Specialties: []string{"Urology"}, Weeks: 8, Seed: 1})
	if err := Save(dir, tables); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ws := workspace.New(theatre.DefaultAssumptions())
	for _, tbl := range tables {
		data, _, err := loadTable(dir, tbl)
		if err != nil {
			t.Fatalf("load %s: %v", tbl.Name, err)
		}
		if err := ws.ReplaceData(datasetFor[tbl.Name], data); err != nil {
			t.Fatal(err)
		}
	}

	res := ws.Compute()
	if res.KPIs.CurrentWL == 0 || len(res.AdmittedForecast) != 52 {
		t.Errorf("Expected a populated 52-week forecast, got WL %d over %d weeks", res.KPIs.CurrentWL, len(res.AdmittedForecast))
	}
	if res.KPIs.CalcMode != planner.CalcForecast {
		t.Errorf("Expected default forecast mode")
	}
}
