package stats

import (
	"math"
	"slices"
	"time"

	"rtt-forecast/internal/theatre"
)

// Stability statuses.
const (
	StatusStable   = "stable"
	StatusVolatile = "volatile"
	StatusShifted  = "shifted"
)

// XmRResult is an Individuals and Moving Range chart.
type XmRResult struct {
	Average     float64   `json:"average"`
	AmR         float64   `json:"average_moving_range"`
	UNPL        float64   `json:"upper_natural_process_limit"`
	LNPL        float64   `json:"lower_natural_process_limit"`
	Values      []float64 `json:"values"`
	MovingRange []float64 `json:"moving_ranges"`
	Signals     []Signal  `json:"signals"`
}

// Signal is a point of special cause variation.
type Signal struct {
	Index       int    `json:"index"`
	Key         string `json:"key"`
	Type        string `json:"type"` // "outlier", "shift"
	Description string `json:"description"`
}

// CalculateXmR computes natural process limits for values.
func CalculateXmR(values []float64) XmRResult {
	return CalculateXmRWithKeys(values, nil)
}

// CalculateXmRWithKeys computes natural process limits and labels signals with keys.
func CalculateXmRWithKeys(values []float64, keys []string) XmRResult {
	if len(values) == 0 {
		return XmRResult{}
	}

	result := XmRResult{Values: values}

	// 1. Average
	result.Average = CalculateMean(values)

	// 2. Moving ranges
	if len(values) > 1 {
		result.MovingRange = make([]float64, len(values)-1)
		for i := 0; i < len(values)-1; i++ {
			result.MovingRange[i] = math.Abs(values[i+1] - values[i])
		}
		result.AmR = CalculateMean(result.MovingRange)
	}

	// 3. Limits (2.66 is the scaling constant for individuals); activity is never negative
	result.UNPL = result.Average + 2.66*result.AmR
	result.LNPL = math.Max(0, result.Average-2.66*result.AmR)

	// 4. Signals
	result.Signals = detectSignals(values, result.Average, result.UNPL, result.LNPL, keys)

	return result
}

// WeekTotal is delivered activity for one calendar week.
type WeekTotal struct {
	WeekStart string  `json:"weekStart"` // Monday, yyyy-mm-dd
	Cases     float64 `json:"cases"`
}

// ActivityStability judges whether weekly delivered activity is predictable and whether a
// planned weekly rate sits inside what the process naturally delivers.
type ActivityStability struct {
	Weeks  []WeekTotal `json:"weeks"`
	XmR    XmRResult   `json:"xmr"`
	Status string      `json:"status"`

	PlannedRate float64 `json:"plannedRate"`
	// PlanPosition is "within", "above" or "below" the natural process limits.
	PlanPosition string `json:"planPosition,omitempty"`
}

// WeeklyDelivered totals completed cases per calendar week in chronological order. Rows
// with unparseable dates are ignored.
func WeeklyDelivered(activity []theatre.ActivityRecord) []WeekTotal {
	byWeek := make(map[string]float64)
	for _, r := range activity {
		d, err := time.Parse(time.DateOnly, r.Date)
		if err != nil {
			continue
		}
		offset := (int(d.Weekday()) + 6) % 7
		key := d.AddDate(0, 0, -offset).Format(time.DateOnly)
		byWeek[key] += r.Completed
	}

	keys := make([]string, 0, len(byWeek))
	for k := range byWeek {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	weeks := make([]WeekTotal, len(keys))
	for i, k := range keys {
		weeks[i] = WeekTotal{WeekStart: k, Cases: byWeek[k]}
	}
	return weeks
}

// AnalyzeActivityStability builds an XmR chart over weekly delivered cases.
//
// A week still in progress at now is excluded so a partial week does not read as an
// outlier. A zero now keeps every week.
func AnalyzeActivityStability(activity []theatre.ActivityRecord, plannedRate float64, now time.Time) ActivityStability {
	weeks := WeeklyDelivered(activity)
	if !now.IsZero() && len(weeks) > 0 {
		last, _ := time.Parse(time.DateOnly, weeks[len(weeks)-1].WeekStart)
		if now.Before(last.AddDate(0, 0, 7)) {
			weeks = weeks[:len(weeks)-1]
		}
	}

	result := ActivityStability{
		Weeks:       weeks,
		Status:      StatusStable,
		PlannedRate: FiniteOr(plannedRate, 0),
	}
	if len(weeks) == 0 {
		return result
	}

	values := make([]float64, len(weeks))
	keys := make([]string, len(weeks))
	for i, w := range weeks {
		values[i] = w.Cases
		keys[i] = w.WeekStart
	}
	result.XmR = CalculateXmRWithKeys(values, keys)

	for _, s := range result.XmR.Signals {
		if s.Type == "shift" {
			result.Status = StatusShifted
			break
		}
		result.Status = StatusVolatile
	}

	switch {
	case result.PlannedRate > result.XmR.UNPL:
		result.PlanPosition = "above"
	case result.PlannedRate < result.XmR.LNPL:
		result.PlanPosition = "below"
	default:
		result.PlanPosition = "within"
	}

	return result
}

func detectSignals(values []float64, avg, unpl, lnpl float64, keys []string) []Signal {
	var signals []Signal

	keyAt := func(i int) string {
		if i < len(keys) {
			return keys[i]
		}
		return ""
	}

	for i, v := range values {
		if v > unpl {
			signals = append(signals, Signal{
				Index:       i,
				Key:         keyAt(i),
				Type:        "outlier",
				Description: "Week above the upper natural process limit",
			})
		} else if v < lnpl {
			signals = append(signals, Signal{
				Index:       i,
				Key:         keyAt(i),
				Type:        "outlier",
				Description: "Week below the lower natural process limit",
			})
		}
	}

	if len(values) >= 8 {
		side := 0
		count := 0
		for i, v := range values {
			currentSide := 0
			if v > avg {
				currentSide = 1
			} else if v < avg {
				currentSide = -1
			}

			if currentSide == side && currentSide != 0 {
				count++
			} else {
				side = currentSide
				count = 1
			}

			if count == 8 {
				signals = append(signals, Signal{
					Index:       i,
					Key:         keyAt(i),
					Type:        "shift",
					Description: "8 consecutive weeks on one side of the average",
				})
			}
		}
	}

	return signals
}
