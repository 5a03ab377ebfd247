package simulation

import (
	"testing"

	"rtt-forecast/internal/theatre"
)

func TestBacklogState_TreatedOldestFirst(t *testing.T) {
	s := NewBacklogState(map[int]int{1: 5, 3: 4, 10: 2})
	next, treated := s.Treated(7)

	if treated != 7 {
		t.Errorf("Expected 7 treated, got %d", treated)
	}
	if next.Count(10) != 0 || next.Count(3) != 0 || next.Count(1) != 4 {
		t.Errorf("Expected only 4 left at 1w, got %v", next.Counts())
	}
	if len(next.Counts()) != 1 {
		t.Errorf("Expected emptied buckets to be dropped, got %v", next.Counts())
	}
}

func TestBacklogState_TreatedMoreThanWaiting(t *testing.T) {
	s := NewBacklogState(map[int]int{2: 3})
	next, treated := s.Treated(10)

	if treated != 3 || !next.Empty() {
		t.Errorf("Expected 3 treated and an empty list, got %d and %v", treated, next.Counts())
	}
	if next.RTTPercent() != 100 {
		t.Errorf("Expected empty list at 100%%, got %.2f", next.RTTPercent())
	}
}

func TestBacklogState_AgedSkipsEmpty(t *testing.T) {
	s := BacklogState{counts: map[int]int{0: 0, 4: 2}}
	aged := s.Aged()

	if aged.Count(1) != 0 || aged.Count(5) != 2 || len(aged.Counts()) != 1 {
		t.Errorf("Expected {5:2}, got %v", aged.Counts())
	}
}

func TestStateFromRecords(t *testing.T) {
	s := StateFromRecords([]theatre.BacklogRecord{
		{WeeksWait: 4, PatientCount: 2},
		{WeeksWait: 4, PatientCount: 3},
		{WeeksWait: 20, PatientCount: 1},
		{WeeksWait: 9, PatientCount: 0},
	})

	if s.Count(4) != 5 || s.Count(20) != 1 || s.Total() != 6 {
		t.Errorf("Expected {4:5, 20:1}, got %v", s.Counts())
	}
	if s.LongestWait() != 20 {
		t.Errorf("Expected longest wait 20, got %d", s.LongestWait())
	}
	b := s.Bands()
	if b.Within18 != 5 || b.Weeks19To26 != 1 {
		t.Errorf("Expected 5 within 18w and 1 in 19-26w, got %+v", b)
	}
}
