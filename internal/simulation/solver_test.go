package simulation

import (
	"testing"

	"rtt-forecast/internal/stats"
)

func solverFixture() (*Engine, TargetRequest) {
	e := NewEngine(stats.BuildDemandPlan(nil, 20, 0), stats.BuildContractPlan(nil), 0.8, 0)
	req := TargetRequest{
		Initial:   NewBacklogState(map[int]int{30: 200, 10: 100, 0: 50}),
		Capacity:  20,
		Demand:    20,
		Timeframe: 26,
	}
	return e, req
}

func TestSearchUpperBound(t *testing.T) {
	_, req := solverFixture()
	// max(40, 40 + 350/26)
	want := 40 + 350.0/26
	if got := SearchUpperBound(req); got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}

	req.Timeframe = 0
	if got := SearchUpperBound(req); got != 390 {
		t.Errorf("Expected timeframe 0 to divide by 1 (390), got %v", got)
	}
}

func TestSolveRequiredActivity_Monotone(t *testing.T) {
	e, req := solverFixture()

	previous := 0
	for _, target := range []float64{50, 70, 90} {
		req.TargetPercent = target
		sol := e.SolveRequiredActivity(req)

		if !sol.Satisfied {
			t.Fatalf("Target %.0f%%: expected a satisfying rate", target)
		}
		if sol.RequiredActivity < previous {
			t.Errorf("Target %.0f%%: expected >= %d, got %d", target, previous, sol.RequiredActivity)
		}
		previous = sol.RequiredActivity

		rtt := RTTAtWeek(e.Run(req.Initial, float64(sol.RequiredActivity)), req.Timeframe)
		if rtt < target {
			t.Errorf("Target %.0f%%: running at %d reaches only %.2f%%", target, sol.RequiredActivity, rtt)
		}
	}
}

func TestSolveRequiredActivity_UnreachableFallsBackToCapacity(t *testing.T) {
	e, req := solverFixture()
	req.TargetPercent = 101

	sol := e.SolveRequiredActivity(req)
	if sol.Satisfied {
		t.Errorf("Expected target above 100%% to be unreachable")
	}
	if sol.RequiredActivity != req.Capacity {
		t.Errorf("Expected capacity %d, got %d", req.Capacity, sol.RequiredActivity)
	}
}

func TestSolveRequiredActivity_TimeframeBeyondHorizon(t *testing.T) {
	e, req := solverFixture()
	req.TargetPercent = 92
	req.Timeframe = 60

	sol := e.SolveRequiredActivity(req)
	if !sol.Satisfied || sol.RequiredActivity > 1 {
		t.Errorf("Expected any rate to satisfy beyond the horizon, got %+v", sol)
	}
}
