package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"rtt-forecast/internal/planner"
	"rtt-forecast/internal/simulation"
	"rtt-forecast/internal/visuals"
)

var (
	reportFlags   snapshotFlags
	reportHorizon string
	reportOut     string
	reportOpen    bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render an HTML report with KPIs, charts and the weekly projection",
	RunE: func(cmd *cobra.Command, args []string) error {
		horizon, err := simulation.ParseHorizon(reportHorizon)
		if err != nil {
			return err
		}
		snap, err := reportFlags.snapshot(cmd)
		if err != nil {
			return err
		}
		res := planner.Compute(snap)

		path := reportOut
		if path == "" {
			path = filepath.Join(cfg.ExportDir, "rtt_forecast_report.html")
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		defer f.Close()

		w := bufio.NewWriter(f)
		err = visuals.RenderHTMLReport(w, res, visuals.ReportOptions{
			Specialty: snap.Selection.Specialty,
			TargetRTT: snap.Assumptions.RTTTargetPercent,
			Horizon:   horizon,
		})
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("Report written")
		fmt.Fprintln(cmd.OutOrStdout(), path)

		if reportOpen {
			if err := browser.OpenFile(path); err != nil {
				log.Warn().Err(err).Msg("Failed to open browser")
			}
		}
		return nil
	},
}

func init() {
	reportFlags.register(reportCmd)
	reportCmd.Flags().StringVar(&reportHorizon, "horizon", "1y", "window to chart: 3m, 6m or 1y")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output file (default: <DATA_PATH>/exports/rtt_forecast_report.html)")
	reportCmd.Flags().BoolVar(&reportOpen, "open", false, "open the report in the default browser")
	rootCmd.AddCommand(reportCmd)
}
