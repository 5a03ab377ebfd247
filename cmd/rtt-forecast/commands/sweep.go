package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rtt-forecast/internal/planner"
)

var (
	sweepFlags       snapshotFlags
	sweepSpecialties []string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Compare headline KPIs across specialties",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := sweepFlags.snapshot(cmd)
		if err != nil {
			return err
		}

		results, err := planner.Sweep(cmd.Context(), snap, sweepSpecialties, cfg.SweepConcurrency)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Specialty\tList\tRTT %\tLongest\tDemand\tCapacity\tNet\tRequired\tWeek 52 list\t")
		for _, r := range results {
			k := r.KPIs
			fmt.Fprintf(tw, "%s\t%d\t%.1f\t%d\t%.1f\t%d\t%.1f\t%d\t%d\t\n",
				r.Specialty, k.CurrentWL, k.CurrentRTTPercent, k.CurrentLongestWait,
				k.DemandCases, k.CapacityCases, k.NetChangeCases, k.RequiredActivity, k.SustainableWLSize)
		}
		return tw.Flush()
	},
}

func init() {
	sweepFlags.register(sweepCmd)
	sweepCmd.Flags().StringSliceVar(&sweepSpecialties, "specialties", nil, "specialties to compare (default: all in the data)")
	rootCmd.AddCommand(sweepCmd)
}
