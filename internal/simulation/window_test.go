package simulation

import "testing"

func TestParseHorizon(t *testing.T) {
	tests := []struct {
		in      string
		weeks   int
		wantErr bool
	}{
		{"3m", 13, false},
		{"6M", 26, false},
		{"1y", 52, false},
		{"", 52, false},
		{"2y", 0, true},
	}

	for _, tt := range tests {
		h, err := ParseHorizon(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHorizon(%q): expected error=%v, got %v", tt.in, tt.wantErr, err)
			continue
		}
		if !tt.wantErr && h.Weeks() != tt.weeks {
			t.Errorf("ParseHorizon(%q): expected %d weeks, got %d", tt.in, tt.weeks, h.Weeks())
		}
	}
}

func TestSliceWindow(t *testing.T) {
	records := flatEngine(1).Run(NewBacklogState(nil), 1)

	if got := SliceWindow(records, 13); len(got) != 13 || got[12].Week != 13 {
		t.Errorf("Expected 13 weeks ending at week 13, got %d", len(got))
	}
	if got := SliceWindow(records, 100); len(got) != HorizonWeeks {
		t.Errorf("Expected the window to cap at %d, got %d", HorizonWeeks, len(got))
	}
	if got := SliceWindow(records, -1); len(got) != 0 {
		t.Errorf("Expected an empty window, got %d", len(got))
	}
}
