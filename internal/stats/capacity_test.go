package stats

import (
	"testing"

	"rtt-forecast/internal/theatre"
)

func TestCalculateCapacity(t *testing.T) {
	rows := []theatre.TimetableRow{
		{Surgeon: "Smith, Mr John", SessionsOdd: 2, SessionsEven: 1},     // 1.5 x 4 = 6
		{Surgeon: "Unknown Locum", SessionsOdd: 1, SessionsEven: 1},      // 1 x 5 = 5
		{Surgeon: "Patel, Miss Sunita", SessionsOdd: 0, SessionsEven: 0}, // 0
	}

	tests := []struct {
		name       string
		tp         Throughput
		lists      float64
		efficiency float64
		wantCases  int
		wantHours  float64
	}{
		{
			name: "LivePerSurgeonRates",
			tp: Throughput{
				BySurgeon:       map[string]float64{"Smith, Mr John": 4, "Patel, Miss Sunita": 9},
				EffectiveRate:   5,
				AvgCaseDuration: 0.5,
			},
			lists:      2,
			efficiency: 100,
			wantCases:  21, // 6 + 5 + 2x5
			wantHours:  10.5,
		},
		{
			name: "EfficiencyRoundsUp",
			tp: Throughput{
				BySurgeon:       map[string]float64{"Smith, Mr John": 4},
				EffectiveRate:   5,
				AvgCaseDuration: 1,
			},
			lists:      0,
			efficiency: 85,
			wantCases:  10, // ceil(11 x 0.85 = 9.35)
			wantHours:  10,
		},
		{
			name: "SandboxIgnoresHistory",
			tp: Throughput{
				BySurgeon:       map[string]float64{"Smith, Mr John": 4},
				EffectiveRate:   2,
				AvgCaseDuration: 2,
				Sandbox:         true,
			},
			lists:      1,
			efficiency: 100,
			wantCases:  7, // 1.5x2 + 1x2 + 1x2
			wantHours:  14,
		},
		{
			name:       "ZeroEfficiency",
			tp:         Throughput{EffectiveRate: 5, AvgCaseDuration: 1},
			lists:      3,
			efficiency: 0,
			wantCases:  0,
			wantHours:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CalculateCapacity(rows, tt.tp, tt.lists, tt.efficiency)
			if c.Cases != tt.wantCases {
				t.Errorf("Expected %d cases, got %d", tt.wantCases, c.Cases)
			}
			if c.Hours != tt.wantHours {
				t.Errorf("Expected %.2f hours, got %.2f", tt.wantHours, c.Hours)
			}
		})
	}
}
