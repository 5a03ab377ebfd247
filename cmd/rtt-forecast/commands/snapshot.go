package commands

import (
	"github.com/spf13/cobra"

	"rtt-forecast/internal/planner"
)

// Slicer and mode overrides shared by the analytical subcommands.
type snapshotFlags struct {
	specialty string
	surgeons  []string
	site      string
	calc      string
	view      string
	pathway   string
	live      bool
}

func (f *snapshotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.specialty, "specialty", "", "restrict to one specialty (name or TFC code)")
	cmd.Flags().StringSliceVar(&f.surgeons, "surgeon", nil, "restrict to these surgeons (repeatable)")
	cmd.Flags().StringVar(&f.site, "site", "", "restrict to one site")
	cmd.Flags().StringVar(&f.calc, "calc", "", "calculation mode: forecast or target")
	cmd.Flags().StringVar(&f.view, "view", "", "variance view: cases or hours")
	cmd.Flags().StringVar(&f.pathway, "pathway", "", "pathway filter: admitted or all")
	cmd.Flags().BoolVar(&f.live, "live", false, "use the live branch instead of the sandbox")
}

// snapshot reads the workspace (plus --scenario) and applies the flag overrides.
func (f *snapshotFlags) snapshot(cmd *cobra.Command) (planner.Snapshot, error) {
	ws, err := openWorkspace()
	if err != nil {
		return planner.Snapshot{}, err
	}

	if cmd.Flags().Changed("live") {
		m := ws.Mode()
		m.Sandbox = !f.live
		if err := ws.SetMode(m); err != nil {
			return planner.Snapshot{}, err
		}
	}

	snap := ws.Snapshot()
	if f.specialty != "" {
		snap.Selection.Specialty = f.specialty
	}
	if len(f.surgeons) > 0 {
		snap.Selection.Surgeons = f.surgeons
	}
	if f.site != "" {
		snap.Selection.Site = f.site
	}
	if f.calc != "" {
		snap.Mode.Calc = planner.CalcMode(f.calc)
	}
	if f.view != "" {
		snap.Mode.View = planner.ViewMode(f.view)
	}
	if f.pathway != "" {
		snap.Mode.Pathway = planner.PathwayFilter(f.pathway)
	}
	snap.Mode = snap.Mode.WithDefaults()
	if err := snap.Mode.Validate(); err != nil {
		return planner.Snapshot{}, err
	}
	return snap, nil
}
