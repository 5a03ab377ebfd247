// Package scenario reads saved planning setups (assumptions, slicer state, mode flags and
// the CSV files to load) from YAML, JSON or TOML files.
package scenario

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"rtt-forecast/internal/ingest"
	"rtt-forecast/internal/planner"
	"rtt-forecast/internal/theatre"
	"rtt-forecast/internal/workspace"
)

// EnvPrefix namespaces environment overrides, e.g. RTT_ASSUMPTIONS_DEMAND_SHOCK=10.
const EnvPrefix = "RTT"

// DataFiles names the CSV file for each dataset. Relative paths are resolved against
// the scenario file's directory.
type DataFiles struct {
	Timetable string `mapstructure:"timetable"`
	Activity  string `mapstructure:"activity"`
	Backlog   string `mapstructure:"backlog"`
	Demand    string `mapstructure:"demand_profile"`
	Contract  string `mapstructure:"contract_plan"`
}

func (d DataFiles) paths() map[workspace.Dataset]string {
	return map[workspace.Dataset]string{
		workspace.DatasetTimetable: d.Timetable,
		workspace.DatasetActivity:  d.Activity,
		workspace.DatasetBacklog:   d.Backlog,
		workspace.DatasetDemand:    d.Demand,
		workspace.DatasetContract:  d.Contract,
	}
}

// Scenario is one saved planning setup.
type Scenario struct {
	Name        string              `mapstructure:"name"`
	Assumptions theatre.Assumptions `mapstructure:"assumptions"`
	Selection   theatre.Selection   `mapstructure:"selection"`
	Mode        planner.Mode        `mapstructure:"mode"`
	Data        DataFiles           `mapstructure:"data"`

	dir string
}

// Load reads a scenario file. Anything the file leaves out comes from defaults, the
// all-records selection and the default mode.
func Load(path string, defaults theatre.Assumptions) (Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, defaults)

	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := v.Unmarshal(&s); err != nil {
		return Scenario{}, fmt.Errorf("failed to decode scenario %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	s.Mode = s.Mode.WithDefaults()
	s.dir = filepath.Dir(path)

	if err := s.Assumptions.Validate(); err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	if err := s.Mode.Validate(); err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return s, nil
}

func setDefaults(v *viper.Viper, a theatre.Assumptions) {
	v.SetDefault("assumptions.hours_per_session", a.HoursPerSession)
	v.SetDefault("assumptions.theatre_efficiency", a.TheatreEfficiency)
	v.SetDefault("assumptions.avg_cases_per_session", a.AvgCasesPerSession)
	v.SetDefault("assumptions.additional_lists", a.AdditionalLists)
	v.SetDefault("assumptions.avg_weekly_demand", a.AvgWeeklyDemand)
	v.SetDefault("assumptions.demand_shock", a.DemandShock)
	v.SetDefault("assumptions.rtt_target_percent", a.RTTTargetPercent)
	v.SetDefault("assumptions.timeframe_to_achieve", a.TimeframeToAchieve)

	sel := theatre.AllSelection()
	v.SetDefault("selection.specialty", sel.Specialty)
	v.SetDefault("selection.surgeons", sel.Surgeons)
	v.SetDefault("selection.site", sel.Site)

	m := planner.DefaultMode()
	v.SetDefault("mode.sandbox", m.Sandbox)
	v.SetDefault("mode.calc", string(m.Calc))
	v.SetDefault("mode.view", string(m.View))
	v.SetDefault("mode.pathway", string(m.Pathway))

	for _, key := range []string{"timetable", "activity", "backlog", "demand_profile", "contract_plan"} {
		v.SetDefault("data."+key, "")
	}
}

// Path resolves a data file path against the scenario directory.
func (s Scenario) Path(file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(s.dir, file)
}

// LoadData reads every data file the scenario names, concurrently. Datasets with no
// file stay empty. Reports come back in workspace.Datasets order, one per file read.
func (s Scenario) LoadData() (theatre.Datasets, []ingest.Report, error) {
	paths := s.Data.paths()
	parts := make([]theatre.Datasets, len(workspace.Datasets))
	reports := make([]*ingest.Report, len(workspace.Datasets))

	var eg errgroup.Group
	for i, ds := range workspace.Datasets {
		path := s.Path(paths[ds])
		if path == "" {
			continue
		}
		eg.Go(func() error {
			data, rep, err := ingest.LoadFile(ds, path)
			if err != nil {
				return err
			}
			parts[i], reports[i] = data, &rep
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return theatre.Datasets{}, nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	var out theatre.Datasets
	var reps []ingest.Report
	for i, p := range parts {
		out.Timetable = append(out.Timetable, p.Timetable...)
		out.Activity = append(out.Activity, p.Activity...)
		out.Backlog = append(out.Backlog, p.Backlog...)
		out.Demand = append(out.Demand, p.Demand...)
		out.Contract = append(out.Contract, p.Contract...)
		if reports[i] != nil {
			reps = append(reps, *reports[i])
		}
	}
	return out, reps, nil
}

// Snapshot builds a recompute input from the scenario and its loaded data.
func (s Scenario) Snapshot(data theatre.Datasets) planner.Snapshot {
	return planner.Snapshot{
		Assumptions: s.Assumptions,
		Data:        data,
		Selection:   s.Selection,
		Mode:        s.Mode,
	}
}

// Apply loads the scenario into the workspace: mode first (it picks the active
// branch), then selection, assumptions and every dataset the scenario names.
func (s Scenario) Apply(w *workspace.Workspace) ([]ingest.Report, error) {
	data, reports, err := s.LoadData()
	if err != nil {
		return nil, err
	}
	if err := w.SetMode(s.Mode); err != nil {
		return nil, err
	}
	w.SetSelection(s.Selection)
	if err := w.SetAssumptions(s.Assumptions); err != nil {
		return nil, err
	}
	for _, rep := range reports {
		if err := w.ReplaceData(rep.Dataset, data); err != nil {
			return nil, err
		}
	}
	return reports, nil
}
