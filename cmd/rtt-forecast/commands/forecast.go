package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rtt-forecast/internal/export"
	"rtt-forecast/internal/planner"
	"rtt-forecast/internal/simulation"
)

var (
	forecastFlags   snapshotFlags
	forecastHorizon string
	forecastFormat  string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Print the 52-week waiting-list projection and headline KPIs",
	RunE: func(cmd *cobra.Command, args []string) error {
		horizon, err := simulation.ParseHorizon(forecastHorizon)
		if err != nil {
			return err
		}
		snap, err := forecastFlags.snapshot(cmd)
		if err != nil {
			return err
		}

		res := planner.Compute(snap)
		weeks := res.Window(res.KPIs.PathwayFilter, horizon)
		out := cmd.OutOrStdout()

		switch forecastFormat {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"kpis": res.KPIs, "weeks": weeks})
		case "csv":
			return export.WriteForecastCSV(out, weeks)
		case "table", "":
			return printForecast(out, res.KPIs, weeks)
		default:
			return fmt.Errorf("unknown format %q (expected table, json or csv)", forecastFormat)
		}
	},
}

func printForecast(w io.Writer, k planner.KPISnapshot, weeks []simulation.WeekRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Current list\t%d\tRTT\t%.1f%%\tLongest wait\t%dw\t\n", k.CurrentWL, k.CurrentRTTPercent, k.CurrentLongestWait)
	fmt.Fprintf(tw, "Demand/wk\t%.1f\tCapacity/wk\t%d\tRate used\t%.1f\t\n", k.DemandCases, k.CapacityCases, k.ActivityRate)
	fmt.Fprintf(tw, "Contract/wk\t%.1f\tDelivered/wk\t%.1f\tNet/wk\t%.1f\t\n", k.ContractCases, k.ActualCases, k.NetChangeCases)
	if k.CalcMode == planner.CalcTarget {
		fmt.Fprintf(tw, "Required/wk\t%d\tSessions\t%.1f\tReachable\t%t\t\n", k.RequiredActivity, k.RequiredSessions, k.TargetSatisfied)
	}
	fmt.Fprintln(tw, "\t\t\t\t\t\t")
	fmt.Fprintln(tw, "Week\tList\tDemand\tActivity\tRTT %\tLongest\t")
	for _, r := range weeks {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%.1f\t%d\t\n", r.Week, r.TotalWL, r.DemandCases, r.CapacityCases, r.ProjectedRTTPercent, r.LongestWait)
	}
	return tw.Flush()
}

func init() {
	forecastFlags.register(forecastCmd)
	forecastCmd.Flags().StringVar(&forecastHorizon, "horizon", "1y", "window to print: 3m, 6m or 1y")
	forecastCmd.Flags().StringVarP(&forecastFormat, "format", "f", "table", "output format: table, json or csv")
	rootCmd.AddCommand(forecastCmd)
}

