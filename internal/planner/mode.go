package planner

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CalcMode selects between projecting the current plan and solving for a target.
type CalcMode string

const (
	CalcForecast CalcMode = "forecast"
	CalcTarget   CalcMode = "target"
)

// ViewMode selects whether variances are reported in cases or theatre hours.
type ViewMode string

const (
	ViewCases ViewMode = "cases"
	ViewHours ViewMode = "hours"
)

// PathwayFilter selects the admitted-only forecast or the combined list.
type PathwayFilter string

const (
	PathwayAdmitted PathwayFilter = "admitted"
	PathwayAll      PathwayFilter = "all"
)

// Mode carries the display and calculation flags of a recompute.
type Mode struct {
	Sandbox bool          `json:"sandbox" mapstructure:"sandbox"`
	Calc    CalcMode      `json:"calcMode" mapstructure:"calc" validate:"oneof=forecast target"`
	View    ViewMode      `json:"viewMode" mapstructure:"view" validate:"oneof=cases hours"`
	Pathway PathwayFilter `json:"pathwayFilter" mapstructure:"pathway" validate:"oneof=admitted all"`
}

// DefaultMode starts in the sandbox, forecasting the admitted list in cases.
func DefaultMode() Mode {
	return Mode{Sandbox: true, Calc: CalcForecast, View: ViewCases, Pathway: PathwayAdmitted}
}

// WithDefaults fills blank flags from DefaultMode and lowercases the rest.
func (m Mode) WithDefaults() Mode {
	d := DefaultMode()
	m.Calc = CalcMode(orDefault(string(m.Calc), string(d.Calc)))
	m.View = ViewMode(orDefault(string(m.View), string(d.View)))
	m.Pathway = PathwayFilter(orDefault(string(m.Pathway), string(d.Pathway)))
	return m
}

func orDefault(v, fallback string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return fallback
	}
	return v
}

var validate = validator.New()

// Validate checks that every flag is one of the known values.
func (m Mode) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid mode: %w", err)
	}
	return nil
}
