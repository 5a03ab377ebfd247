package engine

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"rtt-forecast/internal/ingest"
	"rtt-forecast/internal/theatre"
	"rtt-forecast/internal/workspace"
)

var surnames = []string{"Smith", "Patel", "Jones", "Khan", "Williams", "Okafor", "Brown", "Singh"}

var datasetFor = map[string]workspace.Dataset{
	"timetable.csv":      workspace.DatasetTimetable,
	"activity.csv":       workspace.DatasetActivity,
	"ptl.csv":            workspace.DatasetBacklog,
	"demand_profile.csv": workspace.DatasetDemand,
	"contract_plan.csv":  workspace.DatasetContract,
}

type GeneratorConfig struct {
	Scenario    string // "steady", "backlog" or "recovery"
	Specialties []string
	Weeks       int // weeks of activity history
	Seed        int64
	Now         time.Time
}

// Table is one generated CSV file.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// profile holds the per-specialty shape behind a scenario.
type profile struct {
	demand      float64 // weekly DTAs
	casesPerSes float64
	surgeons    int
	waitScale   float64 // mean weeks waited of the initial list
	listSize    int
}

func scenarioProfile(scenario string, i int) profile {
	p := profile{demand: 20 + float64(i*5), casesPerSes: 4, surgeons: 3, waitScale: 10, listSize: 300 + i*50}
	switch scenario {
	case "backlog":
		p.waitScale = 30
		p.listSize *= 2
	case "recovery":
		p.waitScale = 22
		p.casesPerSes = 5
	}
	return p
}

// Generate builds the five input files for the scenario.
func Generate(cfg GeneratorConfig) []Table {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Weeks <= 0 {
		cfg.Weeks = 12
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	backlog := Table{Name: "ptl.csv", Headers: []string{"Specialty", "Weeks Wait", "Pathway Type", "Patient Count"}}
	activity := Table{Name: "activity.csv", Headers: []string{"Specialty", "Surgeon", "Date", "Session ID", "Completed"}}
	timetable := Table{Name: "timetable.csv", Headers: []string{"Specialty", "Surgeon", "Site", "Sessions Odd", "Sessions Even"}}
	demand := Table{Name: "demand_profile.csv", Headers: []string{"Specialty", "Week", "Demand"}}
	contract := Table{Name: "contract_plan.csv", Headers: []string{"Specialty"}}

	// Contract months: the current month and the next two.
	month := time.Date(cfg.Now.Year(), cfg.Now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for m := 0; m < 3; m++ {
		contract.Headers = append(contract.Headers, month.AddDate(0, m, 0).Format("Jan-06"))
	}

	monday := cfg.Now.AddDate(0, 0, -int((cfg.Now.Weekday()+6)%7))
	sites := []string{"MT", "SDCC"}

	for i, sp := range cfg.Specialties {
		p := scenarioProfile(cfg.Scenario, i)

		// 1. Waiting list: exponential wait distribution, one row per cohort
		cohorts := make(map[int]int)
		for n := 0; n < p.listSize; n++ {
			cohorts[int(rng.ExpFloat64()*p.waitScale)]++
		}
		for w := 0; w <= 104; w++ {
			if c := cohorts[w]; c > 0 {
				pathway := "Admitted"
				if rng.Float64() < 0.25 {
					pathway = "Non-Admitted"
				}
				backlog.Rows = append(backlog.Rows, []string{sp, strconv.Itoa(w), pathway, strconv.Itoa(c)})
			}
		}

		// 2. Timetable and activity history per surgeon
		for s := 0; s < p.surgeons; s++ {
			surgeon := fmt.Sprintf("%s, Mr %c", surnames[(i*p.surgeons+s)%len(surnames)], 'A'+rune(i))
			odd, even := 1+rng.Intn(3), 1+rng.Intn(3)
			timetable.Rows = append(timetable.Rows, []string{sp, surgeon, sites[s%len(sites)], strconv.Itoa(odd), strconv.Itoa(even)})

			for wk := cfg.Weeks; wk >= 1; wk-- {
				day := monday.AddDate(0, 0, -7*wk+s%5)
				sessionID := fmt.Sprintf("S%d-%d-%d", i, s, wk)
				cases := int(math.Max(0, math.Round(p.casesPerSes+rng.NormFloat64())))
				activity.Rows = append(activity.Rows, []string{sp, surgeon, day.Format("02/01/2006"), sessionID, strconv.Itoa(cases)})
			}
		}

		// 3. Demand profile with a mild seasonal wave
		for wk := 1; wk <= 52; wk++ {
			season := 1 + 0.15*math.Sin(2*math.Pi*float64(wk)/52)
			d := math.Max(0, math.Round(p.demand*season+rng.NormFloat64()*2))
			demand.Rows = append(demand.Rows, []string{sp, fmt.Sprintf("W%d", wk), strconv.Itoa(int(d))})
		}

		// 4. Contract: monthly totals sized to demand
		row := []string{sp}
		for m := 0; m < 3; m++ {
			row = append(row, strconv.Itoa(int(math.Round(p.demand*4.3))))
		}
		contract.Rows = append(contract.Rows, row)
	}

	return []Table{timetable, activity, backlog, demand, contract}
}

// Save writes every table as CSV into outDir.
func Save(outDir string, tables []Table) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	for _, t := range tables {
		if err := writeTable(filepath.Join(outDir, t.Name), t); err != nil {
			return fmt.Errorf("failed to write %s: %w", t.Name, err)
		}
	}
	return nil
}

func writeTable(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Headers); err != nil {
		return err
	}
	return w.WriteAll(t.Rows)
}

// Check loads each saved file back through the ingestion rules and returns the reports.
func Check(outDir string, tables []Table) ([]ingest.Report, error) {
	var reports []ingest.Report
	for _, t := range tables {
		_, rep, err := loadTable(outDir, t)
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func loadTable(dir string, t Table) (theatre.Datasets, ingest.Report, error) {
	ds, ok := datasetFor[t.Name]
	if !ok {
		return theatre.Datasets{}, ingest.Report{}, fmt.Errorf("no dataset for %s", t.Name)
	}
	return ingest.LoadFile(ds, filepath.Join(dir, t.Name))
}
