package theatre

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrOutOfRange is returned when an edit falls outside a bound that is rejected rather than clamped.
	ErrOutOfRange = errors.New("assumption out of range")
	// ErrUnknownAssumption is returned for an edit naming no known assumption.
	ErrUnknownAssumption = errors.New("unknown assumption")
)

// Assumptions is the scalar configuration of one branch (live or sandbox).
type Assumptions struct {
	HoursPerSession    float64 `json:"hoursPerSession" mapstructure:"hours_per_session" validate:"gte=0.1"`
	TheatreEfficiency  float64 `json:"theatreEfficiency" mapstructure:"theatre_efficiency" validate:"gte=0,lte=100"`
	AvgCasesPerSession float64 `json:"avgCasesPerSession" mapstructure:"avg_cases_per_session" validate:"gte=0"`
	AdditionalLists    float64 `json:"additionalLists" mapstructure:"additional_lists" validate:"gte=0"`
	AvgWeeklyDemand    float64 `json:"avgWeeklyDemandDTAs" mapstructure:"avg_weekly_demand" validate:"gte=0"`
	DemandShock        float64 `json:"demandShock" mapstructure:"demand_shock" validate:"gte=-100"`
	RTTTargetPercent   float64 `json:"rttTargetPercent" mapstructure:"rtt_target_percent" validate:"gte=0,lte=100"`
	TimeframeToAchieve int     `json:"timeframeToAchieve" mapstructure:"timeframe_to_achieve" validate:"gte=1,lte=2147483647"`
}

// DefaultAssumptions returns the out-of-the-box planning baseline.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		HoursPerSession:    4.0,
		TheatreEfficiency:  85,
		AvgCasesPerSession: 5.0,
		AdditionalLists:    0,
		AvgWeeklyDemand:    100,
		DemandShock:        0,
		RTTTargetPercent:   92,
		TimeframeToAchieve: 52,
	}
}

// Assumption keys accepted by Set.
const (
	KeyHoursPerSession    = "hoursPerSession"
	KeyTheatreEfficiency  = "theatreEfficiency"
	KeyAvgCasesPerSession = "avgCasesPerSession"
	KeyAdditionalLists    = "additionalLists"
	KeyAvgWeeklyDemand    = "avgWeeklyDemandDTAs"
	KeyDemandShock        = "demandShock"
	KeyRTTTargetPercent   = "rttTargetPercent"
	KeyTimeframeToAchieve = "timeframeToAchieve"
)

// AssumptionKeys lists every editable key.
var AssumptionKeys = []string{
	KeyHoursPerSession, KeyTheatreEfficiency, KeyAvgCasesPerSession, KeyAdditionalLists,
	KeyAvgWeeklyDemand, KeyDemandShock, KeyRTTTargetPercent, KeyTimeframeToAchieve,
}

// MaxTimeframeWeeks caps the target timeframe. Anything past the 52-week horizon
// already counts as met.
const MaxTimeframeWeeks = math.MaxInt32

// Set applies a single edit at the edit boundary and returns the updated value; every
// accepted result passes Validate.
//
// Efficiency and RTT target outside 0-100 are rejected; the timeframe is clamped to
// 1..MaxTimeframeWeeks, hours per session to >= 0.1, demand shock to >= -100, and rates,
// demand and lists to >= 0. Non-finite input is read as 0.
func (a Assumptions) Set(key string, value float64) (Assumptions, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}

	switch key {
	case KeyTheatreEfficiency, KeyRTTTargetPercent:
		if value < 0 || value > 100 {
			return a, fmt.Errorf("%s=%v: %w (0-100)", key, value, ErrOutOfRange)
		}
	case KeyTimeframeToAchieve:
		value = math.Min(math.Max(value, 1), MaxTimeframeWeeks)
	case KeyHoursPerSession:
		if value < 0.1 {
			value = 0.1
		}
	case KeyAvgCasesPerSession, KeyAvgWeeklyDemand, KeyAdditionalLists:
		if value < 0 {
			value = 0
		}
	case KeyDemandShock:
		if value < -100 {
			value = -100
		}
	default:
		return a, fmt.Errorf("%q: %w", key, ErrUnknownAssumption)
	}

	switch key {
	case KeyHoursPerSession:
		a.HoursPerSession = value
	case KeyTheatreEfficiency:
		a.TheatreEfficiency = value
	case KeyAvgCasesPerSession:
		a.AvgCasesPerSession = value
	case KeyAdditionalLists:
		a.AdditionalLists = value
	case KeyAvgWeeklyDemand:
		a.AvgWeeklyDemand = value
	case KeyDemandShock:
		a.DemandShock = value
	case KeyRTTTargetPercent:
		a.RTTTargetPercent = value
	case KeyTimeframeToAchieve:
		a.TimeframeToAchieve = int(value)
	}
	return a, nil
}

var validate = validator.New()

// Validate checks a whole assumption set, e.g. one read from a scenario file.
func (a Assumptions) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("invalid assumptions: %w", err)
	}
	return nil
}
