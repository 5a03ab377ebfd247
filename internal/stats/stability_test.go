package stats

import (
	"fmt"
	"math"
	"testing"
	"time"

	"rtt-forecast/internal/theatre"
)

func TestCalculateXmR(t *testing.T) {
	values := []float64{10, 12, 11, 13, 11}
	result := CalculateXmR(values)

	if math.Abs(result.Average-11.4) > 0.001 {
		t.Errorf("Expected average 11.4, got %v", result.Average)
	}
	if math.Abs(result.AmR-1.75) > 0.001 {
		t.Errorf("Expected AmR 1.75, got %v", result.AmR)
	}
	if math.Abs(result.UNPL-16.055) > 0.001 {
		t.Errorf("Expected UNPL 16.055, got %v", result.UNPL)
	}
	if math.Abs(result.LNPL-6.745) > 0.001 {
		t.Errorf("Expected LNPL 6.745, got %v", result.LNPL)
	}
	if len(result.Signals) != 0 {
		t.Errorf("Expected 0 signals, got %v", len(result.Signals))
	}
}

func TestCalculateXmR_LowerLimitFloor(t *testing.T) {
	result := CalculateXmR([]float64{0, 20, 0, 20})
	if result.LNPL != 0 {
		t.Errorf("Expected LNPL floored at 0, got %v", result.LNPL)
	}
	if empty := CalculateXmR(nil); empty.UNPL != 0 || empty.Signals != nil {
		t.Errorf("Expected zero result for no values, got %+v", empty)
	}
}

func TestXmRSignals(t *testing.T) {
	values := []float64{10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 100}
	result := CalculateXmR(values)
	foundOutlier := false
	for _, s := range result.Signals {
		if s.Type == "outlier" && s.Index == 10 {
			foundOutlier = true
		}
	}
	if !foundOutlier {
		t.Errorf("Expected outlier at index 10 not found. UNPL was %v", result.UNPL)
	}

	values = []float64{10, 10, 10, 10, 10, 10, 10, 10, 2, 2, 2, 2, 2, 2, 2, 2}
	result = CalculateXmR(values)
	shifts := 0
	for _, s := range result.Signals {
		if s.Type == "shift" {
			shifts++
		}
	}
	if shifts != 2 {
		t.Errorf("Expected 2 shift signals, got %v", shifts)
	}
}

func activityWeeks(cases ...float64) []theatre.ActivityRecord {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	var out []theatre.ActivityRecord
	for i, c := range cases {
		day := start.AddDate(0, 0, 7*i+2)
		out = append(out, theatre.ActivityRecord{
			Surgeon:   "Smith, Mr John",
			SessionID: fmt.Sprintf("S%d", i),
			Date:      day.Format(time.DateOnly),
			Completed: c,
		})
	}
	return out
}

func TestWeeklyDelivered(t *testing.T) {
	activity := []theatre.ActivityRecord{
		{Date: "2025-01-13", Completed: 4},
		{Date: "2025-01-06", Completed: 3},
		{Date: "2025-01-08", Completed: 2},
		{Date: "2025-01-12", Completed: 1}, // Sunday closes the first week
		{Date: "not a date", Completed: 99},
	}

	weeks := WeeklyDelivered(activity)

	expected := []WeekTotal{
		{WeekStart: "2025-01-06", Cases: 6},
		{WeekStart: "2025-01-13", Cases: 4},
	}
	if len(weeks) != len(expected) {
		t.Fatalf("Expected %d weeks, got %d", len(expected), len(weeks))
	}
	for i := range expected {
		if weeks[i] != expected[i] {
			t.Errorf("Expected %+v, got %+v", expected[i], weeks[i])
		}
	}
}

func TestAnalyzeActivityStability(t *testing.T) {
	tests := []struct {
		name     string
		cases    []float64
		planned  float64
		status   string
		position string
	}{
		{"Stable", []float64{10, 12, 11, 13, 11}, 12, StatusStable, "within"},
		{"PlanAboveLimits", []float64{10, 12, 11, 13, 11}, 20, StatusStable, "above"},
		{"PlanBelowLimits", []float64{10, 12, 11, 13, 11}, 5, StatusStable, "below"},
		{"Volatile", []float64{10, 11, 10, 11, 10, 100}, 12, StatusVolatile, "within"},
		{"Shifted", []float64{10, 10, 10, 10, 10, 10, 10, 10, 2, 2, 2, 2, 2, 2, 2, 2}, 6, StatusShifted, "within"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := AnalyzeActivityStability(activityWeeks(tt.cases...), tt.planned, time.Time{})
			if len(res.Weeks) != len(tt.cases) {
				t.Errorf("Expected %d weeks, got %d", len(tt.cases), len(res.Weeks))
			}
			if res.Status != tt.status {
				t.Errorf("Expected status %s, got %s", tt.status, res.Status)
			}
			if res.PlanPosition != tt.position {
				t.Errorf("Expected plan %s limits, got %s", tt.position, res.PlanPosition)
			}
		})
	}
}

func TestAnalyzeActivityStability_DropsPartialWeek(t *testing.T) {
	activity := activityWeeks(10, 12, 11, 1)
	// Wednesday of the fourth week.
	now := time.Date(2025, 1, 29, 9, 0, 0, 0, time.UTC)

	res := AnalyzeActivityStability(activity, 11, now)

	if len(res.Weeks) != 3 {
		t.Fatalf("Expected the in-progress week to be dropped, got %d weeks", len(res.Weeks))
	}
	if res.Weeks[2].WeekStart != "2025-01-20" {
		t.Errorf("Expected last week 2025-01-20, got %s", res.Weeks[2].WeekStart)
	}
}

func TestAnalyzeActivityStability_NoActivity(t *testing.T) {
	res := AnalyzeActivityStability(nil, 8, time.Now())
	if res.Status != StatusStable || res.PlanPosition != "" {
		t.Errorf("Expected an empty stable result, got %+v", res)
	}
	if res.PlannedRate != 8 {
		t.Errorf("Expected planned rate 8, got %v", res.PlannedRate)
	}
}
