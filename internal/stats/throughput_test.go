package stats

import (
	"math"
	"testing"

	"rtt-forecast/internal/theatre"
)

func sampleActivity() []theatre.ActivityRecord {
	return []theatre.ActivityRecord{
		// Smith: 2 distinct sessions, 9 cases -> 4.5
		{Surgeon: "SMITH, MR JOHN", SessionID: "A", Date: "2025-01-06", WeekIndex: 1, Completed: 3},
		{Surgeon: "Smith, Mr John", SessionID: "A", Date: "2025-01-06", WeekIndex: 1, Completed: 2},
		{Surgeon: "Smith, Mr John", SessionID: "A", Date: "2025-01-13", WeekIndex: 2, Completed: 4},
		// Patel: 1 session, 6 cases -> 6
		{Surgeon: "Patel, Miss Sunita", SessionID: "B", Date: "2025-01-06", WeekIndex: 1, Completed: 6},
	}
}

func TestEstimateThroughput_Live(t *testing.T) {
	tp := EstimateThroughput(sampleActivity(), false, 5, 4)

	if tp.BySurgeon["Smith, Mr John"] != 4.5 {
		t.Errorf("Expected Smith rate 4.5, got %v", tp.BySurgeon["Smith, Mr John"])
	}
	if tp.BySurgeon["Patel, Miss Sunita"] != 6 {
		t.Errorf("Expected Patel rate 6, got %v", tp.BySurgeon["Patel, Miss Sunita"])
	}
	if tp.UniqueSessions != 3 || tp.TotalCases != 15 {
		t.Errorf("Expected 3 sessions / 15 cases, got %d / %v", tp.UniqueSessions, tp.TotalCases)
	}
	if tp.OverallRate != 5 || tp.EffectiveRate != 5 {
		t.Errorf("Expected overall and effective rate 5, got %v / %v", tp.OverallRate, tp.EffectiveRate)
	}
	if tp.AvgCaseDuration != 0.8 {
		t.Errorf("Expected case duration 0.8h, got %v", tp.AvgCaseDuration)
	}
	if tp.WeeksWithActuals != 2 || tp.AvgActualCases != 7.5 {
		t.Errorf("Expected 7.5 cases/week over 2 weeks, got %v over %d", tp.AvgActualCases, tp.WeeksWithActuals)
	}
	if tp.RateFor("smith, mr john") != 4.5 {
		t.Errorf("Expected per-surgeon rate in live mode, got %v", tp.RateFor("smith, mr john"))
	}
	if tp.RateFor("Nobody, Dr") != 5 {
		t.Errorf("Expected overall rate for unknown surgeon, got %v", tp.RateFor("Nobody, Dr"))
	}
}

func TestEstimateThroughput_SandboxUsesManualRate(t *testing.T) {
	tp := EstimateThroughput(sampleActivity(), true, 8, 4)

	if tp.OverallRate != 5 {
		t.Errorf("Expected derived overall rate to stay 5, got %v", tp.OverallRate)
	}
	if tp.EffectiveRate != 8 {
		t.Errorf("Expected sandbox effective rate 8, got %v", tp.EffectiveRate)
	}
	if tp.RateFor("Smith, Mr John") != 8 {
		t.Errorf("Expected sandbox to ignore per-surgeon rates, got %v", tp.RateFor("Smith, Mr John"))
	}
	if tp.AvgCaseDuration != 0.5 {
		t.Errorf("Expected duration 0.5h, got %v", tp.AvgCaseDuration)
	}
}

func TestEstimateThroughput_NoActivity(t *testing.T) {
	tp := EstimateThroughput(nil, false, 0, 4)

	if tp.OverallRate != 0 {
		t.Errorf("Expected fallback rate 0, got %v", tp.OverallRate)
	}
	// A zero rate divides by 1 rather than 0.
	if tp.AvgCaseDuration != 4 {
		t.Errorf("Expected duration 4h, got %v", tp.AvgCaseDuration)
	}
	if tp.HasActuals() {
		t.Errorf("Expected no actuals")
	}
}

func TestEstimateThroughput_DegenerateDuration(t *testing.T) {
	tp := EstimateThroughput(nil, true, math.Inf(1), 4)
	if tp.AvgCaseDuration != 1 {
		t.Errorf("Expected duration to default to 1, got %v", tp.AvgCaseDuration)
	}
}
