package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"rtt-forecast/internal/planner"
	"rtt-forecast/internal/simulation"
)

// ForecastColumns is the column order of a forecast export.
var ForecastColumns = []string{
	"week", "demandCases", "capacityCases", "netChange", "totalWL", "projectedRttPercent",
	"demandHours", "capacityHours", "netChangeHours", "activityPlanContract", "actualActivity",
	"wl_0_18w", "wl_18_26w", "wl_26_52w", "wl_52wplus",
}

// Percentages keep two decimals; every other number is rounded up to a whole value.
var percentColumns = map[string]bool{
	"projectedRttPercent": true,
	"currentRttPercent":   true,
}

// FormatValue renders a numeric cell for the named column.
func FormatValue(column string, v float64) string {
	d := decimal.NewFromFloat(v)
	if percentColumns[column] {
		return d.StringFixed(2)
	}
	return d.Ceil().StringFixed(0)
}

func forecastValue(r simulation.WeekRecord, column string) float64 {
	switch column {
	case "week":
		return float64(r.Week)
	case "demandCases":
		return float64(r.DemandCases)
	case "capacityCases":
		return float64(r.CapacityCases)
	case "netChange":
		return float64(r.NetChange)
	case "totalWL":
		return float64(r.TotalWL)
	case "projectedRttPercent":
		return r.ProjectedRTTPercent
	case "demandHours":
		return r.DemandHours
	case "capacityHours":
		return r.CapacityHours
	case "netChangeHours":
		return r.NetChangeHours
	case "activityPlanContract":
		return r.ActivityPlanContract
	case "actualActivity":
		return r.ActualActivity
	case "wl_0_18w":
		return float64(r.Within18)
	case "wl_18_26w":
		return float64(r.Weeks19To26)
	case "wl_26_52w":
		return float64(r.Weeks27To52)
	case "wl_52wplus":
		return float64(r.Over52)
	}
	return 0
}

// ForecastFileName names a forecast export for the pathway view.
func ForecastFileName(p planner.PathwayFilter) string {
	return fmt.Sprintf("theatre_forecast_export_%s.csv", p)
}

// WriteForecastCSV writes one row per projected week.
func WriteForecastCSV(w io.Writer, records []simulation.WeekRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("no forecast data to export")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ForecastColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	row := make([]string, len(ForecastColumns))
	for _, r := range records {
		for i, col := range ForecastColumns {
			row[i] = FormatValue(col, forecastValue(r, col))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write week %d: %w", r.Week, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTargetSummaryCSV writes the single-row demand vs required plan comparison.
func WriteTargetSummaryCSV(w io.Writer, k planner.KPISnapshot) error {
	name, demand, required := "Cases per Week", k.DemandCases, float64(k.RequiredActivity)
	if k.ViewMode == planner.ViewHours {
		name, demand, required = "Hours per Week", k.DemandHours, k.RequiredHours
	}

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"name", "Average Demand", "Required Plan"})
	_ = cw.Write([]string{name, FormatValue("demand", demand), FormatValue("required", required)})
	cw.Flush()
	return cw.Error()
}

// KPIColumns is the column order of a KPI export.
var KPIColumns = []string{
	"currentWL", "currentRttPercent", "currentLongestWait", "capacityCases", "capacityHours",
	"demandCases", "demandHours", "netChangeCases", "netChangeHours", "requiredActivity",
	"requiredHours", "requiredSessions", "sustainableWlSize", "varianceVsContract",
	"varianceVsDelivered", "hypotheticalListsFreed",
}

// WriteKPIsCSV writes the headline KPIs as a single row.
func WriteKPIsCSV(w io.Writer, k planner.KPISnapshot) error {
	values := map[string]float64{
		"currentWL":              float64(k.CurrentWL),
		"currentRttPercent":      k.CurrentRTTPercent,
		"currentLongestWait":     float64(k.CurrentLongestWait),
		"capacityCases":          float64(k.CapacityCases),
		"capacityHours":          k.CapacityHours,
		"demandCases":            k.DemandCases,
		"demandHours":            k.DemandHours,
		"netChangeCases":         k.NetChangeCases,
		"netChangeHours":         k.NetChangeHours,
		"requiredActivity":       float64(k.RequiredActivity),
		"requiredHours":          k.RequiredHours,
		"requiredSessions":       k.RequiredSessions,
		"sustainableWlSize":      float64(k.SustainableWLSize),
		"varianceVsContract":     k.VarianceVsContract,
		"varianceVsDelivered":    k.VarianceVsDelivered,
		"hypotheticalListsFreed": k.HypotheticalListsFreed,
	}

	row := make([]string, len(KPIColumns))
	for i, col := range KPIColumns {
		row[i] = FormatValue(col, values[col])
	}

	cw := csv.NewWriter(w)
	_ = cw.Write(KPIColumns)
	_ = cw.Write(row)
	cw.Flush()
	return cw.Error()
}
