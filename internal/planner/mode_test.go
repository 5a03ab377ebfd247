package planner

import "testing"

func TestMode_WithDefaults(t *testing.T) {
	m := Mode{Calc: " TARGET "}.WithDefaults()

	if m.Calc != CalcTarget || m.View != ViewCases || m.Pathway != PathwayAdmitted {
		t.Errorf("Unexpected defaults: %+v", m)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Expected valid mode, got %v", err)
	}
}

func TestMode_Validate(t *testing.T) {
	if err := (Mode{Calc: "banana", View: ViewCases, Pathway: PathwayAll}).Validate(); err == nil {
		t.Errorf("Expected unknown calc mode to fail validation")
	}
}
