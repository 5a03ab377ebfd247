package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"rtt-forecast/internal/planner"
)

var stabilityFlags snapshotFlags

var stabilityCmd = &cobra.Command{
	Use:   "stability",
	Short: "XmR analysis of weekly delivered activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := stabilityFlags.snapshot(cmd)
		if err != nil {
			return err
		}

		st := planner.AnalyzeStability(snap, time.Now())
		out := cmd.OutOrStdout()
		if len(st.Weeks) == 0 {
			fmt.Fprintln(out, "No completed weeks of activity for the selection.")
			return nil
		}

		signals := make(map[int]string)
		for _, s := range st.XmR.Signals {
			signals[s.Index] = s.Type
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Week\tCases\tSignal\t")
		for i, w := range st.Weeks {
			fmt.Fprintf(tw, "%s\t%.0f\t%s\t\n", w.WeekStart, w.Cases, signals[i])
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\nAverage %.1f, limits %.1f - %.1f, status %s\n", st.XmR.Average, st.XmR.LNPL, st.XmR.UNPL, st.Status)
		fmt.Fprintf(out, "Forecast rate %.1f is %s the natural process limits\n", st.PlannedRate, st.PlanPosition)
		return nil
	},
}

func init() {
	stabilityFlags.register(stabilityCmd)
	rootCmd.AddCommand(stabilityCmd)
}
