package simulation

import (
	"testing"

	"rtt-forecast/internal/stats"
)

func TestCombine(t *testing.T) {
	admitted := []WeekRecord{
		{Week: 1, TotalWL: 10, DemandCases: 3, ProjectedRTTPercent: 100, WaitBands: stats.WaitBands{Within18: 10}},
		{Week: 2, TotalWL: 0, ProjectedRTTPercent: 100},
	}
	nonAdmitted := stats.BacklogMetrics{
		TotalCount:  10,
		LongestWait: 30,
		Bands:       stats.WaitBands{Within18: 5, Weeks27To52: 5},
	}

	combined := Combine(admitted, nonAdmitted)

	if len(combined) != 2 {
		t.Fatalf("Expected 2 weeks, got %d", len(combined))
	}
	if combined[0].TotalWL != 20 || combined[0].ProjectedRTTPercent != 75 {
		t.Errorf("Expected 20 at 75%%, got %d at %.2f", combined[0].TotalWL, combined[0].ProjectedRTTPercent)
	}
	if combined[0].DemandCases != 3 {
		t.Errorf("Expected demand to carry over, got %d", combined[0].DemandCases)
	}
	if combined[1].TotalWL != 10 || combined[1].ProjectedRTTPercent != 50 {
		t.Errorf("Expected 10 at 50%%, got %d at %.2f", combined[1].TotalWL, combined[1].ProjectedRTTPercent)
	}
	if combined[1].Total() != combined[1].TotalWL || combined[1].LongestWait != 30 {
		t.Errorf("Expected consistent bands and longest wait 30, got %+v", combined[1])
	}
	if admitted[0].TotalWL != 10 {
		t.Errorf("Expected admitted forecast to stay untouched, got %d", admitted[0].TotalWL)
	}
}

func TestCombine_EmptyList(t *testing.T) {
	combined := Combine([]WeekRecord{{Week: 1}}, stats.BacklogMetrics{})
	if combined[0].ProjectedRTTPercent != 100 {
		t.Errorf("Expected empty combined list at 100%%, got %.2f", combined[0].ProjectedRTTPercent)
	}
}
