package visuals

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"rtt-forecast/internal/planner"
	"rtt-forecast/internal/simulation"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs";
mermaid.initialize({ startOnLoad: true });
</script>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; margin-bottom: 2rem; }
td, th { border: 1px solid #ccc; padding: 4px 10px; text-align: right; }
th { background: #f0f0f0; }
td:first-child { text-align: left; }
.chart { margin-bottom: 2rem; max-width: 1100px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Subtitle}}</p>
<table>
<tr><th>Measure</th><th>Value</th></tr>
{{range .KPIs}}<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
{{range .Charts}}<div class="chart"><pre class="mermaid">
{{.}}
</pre></div>
{{end}}
<h2>Weekly projection</h2>
<table>
<tr><th>Week</th><th>Waiting list</th><th>Demand</th><th>Activity</th><th>RTT %</th><th>Longest wait</th></tr>
{{range .Weeks}}<tr><td>{{.Week}}</td><td>{{.TotalWL}}</td><td>{{.DemandCases}}</td><td>{{.CapacityCases}}</td><td>{{printf "%.1f" .ProjectedRTTPercent}}</td><td>{{.LongestWait}}</td></tr>
{{end}}</table>
</body>
</html>
`))

type kpiRow struct {
	Label string
	Value string
}

type reportData struct {
	Title    string
	Subtitle string
	KPIs     []kpiRow
	Charts   []string
	Weeks    []simulation.WeekRecord
}

// ReportOptions labels a rendered report.
type ReportOptions struct {
	Title       string
	Specialty   string
	TargetRTT   float64
	Horizon     simulation.Horizon
	GeneratedAt time.Time
}

// RenderHTMLReport writes a standalone page with the KPI table, the charts and the
// weekly projection for the horizon.
func RenderHTMLReport(w io.Writer, res planner.Result, opts ReportOptions) error {
	if opts.Title == "" {
		opts.Title = "Theatre RTT Forecast"
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}
	k := res.KPIs

	var charts []string
	for _, c := range ForecastCharts(res, opts.TargetRTT, opts.Horizon) {
		charts = append(charts, stripFence(c))
	}

	mode := "Live"
	if k.IsSandbox {
		mode = "Sandbox"
	}
	data := reportData{
		Title: opts.Title,
		Subtitle: fmt.Sprintf("%s | %s | %s pathway | %s mode | generated %s",
			orAll(opts.Specialty), mode, k.PathwayFilter, k.CalcMode, opts.GeneratedAt.Format("2006-01-02 15:04")),
		Charts: charts,
		Weeks:  res.Window(k.PathwayFilter, opts.Horizon),
		KPIs: []kpiRow{
			{"Current waiting list", fmt.Sprintf("%d", k.CurrentWL)},
			{"Current RTT (18 weeks)", fmt.Sprintf("%.1f%%", k.CurrentRTTPercent)},
			{"Longest wait (weeks)", fmt.Sprintf("%d", k.CurrentLongestWait)},
			{"Weekly demand", fmt.Sprintf("%.1f", k.DemandCases)},
			{"Timetabled capacity", fmt.Sprintf("%d cases / %.1f h", k.CapacityCases, k.CapacityHours)},
			{"Forecast activity rate", fmt.Sprintf("%.1f", k.ActivityRate)},
			{"Weekly net change", fmt.Sprintf("%.1f", k.NetChangeCases)},
			{"Contracted activity", fmt.Sprintf("%.1f", k.ContractCases)},
			{"Delivered activity", fmt.Sprintf("%.1f", k.ActualCases)},
			{"Sustainable list size (week 52)", fmt.Sprintf("%d", k.SustainableWLSize)},
		},
	}
	if k.CalcMode == planner.CalcTarget {
		data.KPIs = append(data.KPIs,
			kpiRow{"Required weekly activity", fmt.Sprintf("%d cases / %.1f h", k.RequiredActivity, k.RequiredHours)},
			kpiRow{"Required sessions", fmt.Sprintf("%.1f", k.RequiredSessions)},
			kpiRow{"Target reachable", fmt.Sprintf("%t", k.TargetSatisfied)},
		)
	}

	return reportTemplate.Execute(w, data)
}

func stripFence(chart string) string {
	chart = strings.TrimPrefix(chart, "```mermaid\n")
	return strings.TrimSuffix(chart, "```")
}

func orAll(specialty string) string {
	if specialty == "" {
		return "All specialties"
	}
	return specialty
}
