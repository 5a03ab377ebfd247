package visuals

import (
	"fmt"
	"math"
	"strings"

	"rtt-forecast/internal/planner"
	"rtt-forecast/internal/simulation"
	"rtt-forecast/internal/stats"
)

// Mermaid xychart starts overlapping labels at around 60 points.
const maxPoints = 60

func weekLabels(records []simulation.WeekRecord) (labels []string, keep func(i int) bool) {
	rate := 1
	if len(records) > maxPoints {
		rate = int(math.Ceil(float64(len(records)) / maxPoints))
	}
	keep = func(i int) bool { return i%rate == 0 || i == len(records)-1 }
	for i, r := range records {
		if keep(i) {
			labels = append(labels, fmt.Sprintf("\"W%d\"", r.Week))
		}
	}
	return labels, keep
}

// GenerateWaitingListChart plots projected list size against weekly demand and activity.
func GenerateWaitingListChart(records []simulation.WeekRecord) string {
	if len(records) == 0 {
		return ""
	}

	labels, keep := weekLabels(records)
	var totals, demand, capacity []string
	maxY := 0
	for i, r := range records {
		if !keep(i) {
			continue
		}
		totals = append(totals, fmt.Sprintf("%d", r.TotalWL))
		demand = append(demand, fmt.Sprintf("%d", r.DemandCases))
		capacity = append(capacity, fmt.Sprintf("%d", r.CapacityCases))
		maxY = max(maxY, r.TotalWL, r.DemandCases, r.CapacityCases)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Projected Waiting List\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Patients\" 0 --> %d\n", maxY+int(math.Max(1, float64(maxY)*0.1))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(totals, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(demand, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(capacity, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateRTTChart plots projected 18-week performance with the target as a flat line.
func GenerateRTTChart(records []simulation.WeekRecord, target float64) string {
	if len(records) == 0 {
		return ""
	}

	labels, keep := weekLabels(records)
	var rtt, targets []string
	for i, r := range records {
		if keep(i) {
			rtt = append(rtt, fmt.Sprintf("%.1f", r.ProjectedRTTPercent))
			targets = append(targets, fmt.Sprintf("%.1f", target))
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Projected RTT Performance (18 weeks)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"% within 18 weeks\" 0 --> 100\n")
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(rtt, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(targets, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateWaitBandChart plots the four wait bands week by week.
func GenerateWaitBandChart(records []simulation.WeekRecord) string {
	if len(records) == 0 {
		return ""
	}

	labels, keep := weekLabels(records)
	bands := make([][]string, 4)
	maxY := 0
	for i, r := range records {
		if !keep(i) {
			continue
		}
		for b, v := range []int{r.Within18, r.Weeks19To26, r.Weeks27To52, r.Over52} {
			bands[b] = append(bands[b], fmt.Sprintf("%d", v))
			maxY = max(maxY, v)
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Waiting List by Wait Band (0-18w, 19-26w, 27-52w, 52w+)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Patients\" 0 --> %d\n", maxY+int(math.Max(1, float64(maxY)*0.1))))
	for _, values := range bands {
		sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateBandPie shows the current list split by wait band.
func GenerateBandPie(m stats.BacklogMetrics) string {
	if m.TotalCount == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Current Waiting List by Wait Band\n")
	sb.WriteString(fmt.Sprintf("    \"0-18 weeks\" : %d\n", m.Bands.Within18))
	sb.WriteString(fmt.Sprintf("    \"19-26 weeks\" : %d\n", m.Bands.Weeks19To26))
	sb.WriteString(fmt.Sprintf("    \"27-52 weeks\" : %d\n", m.Bands.Weeks27To52))
	sb.WriteString(fmt.Sprintf("    \"52+ weeks\" : %d\n", m.Bands.Over52))
	sb.WriteString("```")
	return sb.String()
}

// GenerateActivityComparisonChart compares weekly demand, plan, contract, delivery and requirement.
func GenerateActivityComparisonChart(k planner.KPISnapshot) string {
	type bar struct {
		label string
		cases float64
		hours float64
	}
	bars := []bar{
		{"Demand", k.DemandCases, k.DemandHours},
		{"Timetable", float64(k.CapacityCases), k.CapacityHours},
		{"Contract", k.ContractCases, k.ContractHours},
		{"Delivered", k.ActualCases, k.ActualHours},
	}
	if k.CalcMode == planner.CalcTarget {
		bars = append(bars, bar{"Required", float64(k.RequiredActivity), k.RequiredHours})
	}

	unit := "Cases per Week"
	var labels, values []string
	maxVal := 0.0
	for _, b := range bars {
		v := b.cases
		if k.ViewMode == planner.ViewHours {
			v = b.hours
			unit = "Hours per Week"
		}
		labels = append(labels, fmt.Sprintf("\"%s\"", b.label))
		values = append(values, fmt.Sprintf("%.1f", v))
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Weekly Activity Comparison\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"%s\" 0 --> %d\n", unit, int(math.Ceil(maxVal*1.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateXmRChart plots weekly delivered cases with their natural process limits and the
// planned rate.
func GenerateXmRChart(st stats.ActivityStability) string {
	n := len(st.Weeks)
	if n == 0 {
		return ""
	}

	rate := 1
	if n > maxPoints {
		rate = int(math.Ceil(float64(n) / maxPoints))
	}
	flat := func(v float64) string { return fmt.Sprintf("%.1f", v) }

	var labels, cases, avg, unpl, lnpl, plan []string
	maxY := math.Max(st.XmR.UNPL, st.PlannedRate)
	for i, w := range st.Weeks {
		if i%rate != 0 && i != n-1 {
			continue
		}
		labels = append(labels, fmt.Sprintf("\"%s\"", w.WeekStart))
		cases = append(cases, flat(w.Cases))
		avg = append(avg, flat(st.XmR.Average))
		unpl = append(unpl, flat(st.XmR.UNPL))
		lnpl = append(lnpl, flat(st.XmR.LNPL))
		plan = append(plan, flat(st.PlannedRate))
		maxY = math.Max(maxY, w.Cases)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Delivered Activity (XmR)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Cases per Week\" 0 --> %d\n", int(math.Ceil(maxY*1.1))+1))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(cases, ", ")))
	for _, line := range [][]string{avg, unpl, lnpl, plan} {
		sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(line, ", ")))
	}
	sb.WriteString("```")
	return sb.String()
}

// ForecastCharts renders every chart for a recompute, skipping empty ones.
func ForecastCharts(res planner.Result, target float64, h simulation.Horizon) []string {
	records := res.Window(res.KPIs.PathwayFilter, h)
	var charts []string
	for _, c := range []string{
		GenerateWaitingListChart(records),
		GenerateRTTChart(records, target),
		GenerateWaitBandChart(records),
		GenerateActivityComparisonChart(res.KPIs),
	} {
		if c != "" {
			charts = append(charts, c)
		}
	}
	return charts
}
