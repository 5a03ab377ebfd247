package planner

import (
	"testing"
	"time"
)

func TestAnalyzeStability(t *testing.T) {
	snap := fixture(Mode{Sandbox: false, Calc: CalcForecast})

	res := AnalyzeStability(snap, time.Time{})

	if len(res.Weeks) != 2 {
		t.Fatalf("Expected 2 delivered weeks, got %d", len(res.Weeks))
	}
	if res.XmR.Average != 4 {
		t.Errorf("Expected average 4 cases/week, got %v", res.XmR.Average)
	}
	if res.PlannedRate != 4 || res.PlanPosition != "within" {
		t.Errorf("Expected delivered rate 4 within limits, got %v %s", res.PlannedRate, res.PlanPosition)
	}
}

func TestAnalyzeStability_TargetAboveHistory(t *testing.T) {
	snap := fixture(Mode{Sandbox: true, Calc: CalcTarget})
	snap.Assumptions.RTTTargetPercent = 100
	snap.Assumptions.TimeframeToAchieve = 1

	res := AnalyzeStability(snap, time.Time{})

	if res.PlannedRate <= res.XmR.UNPL {
		t.Errorf("Expected required rate %v above UNPL %v", res.PlannedRate, res.XmR.UNPL)
	}
	if res.PlanPosition != "above" {
		t.Errorf("Expected plan above limits, got %s", res.PlanPosition)
	}
}
