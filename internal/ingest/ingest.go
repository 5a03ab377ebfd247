package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"rtt-forecast/internal/theatre"
	"rtt-forecast/internal/workspace"
)

// table is a parsed CSV file: the header row plus data rows and their line numbers.
type table struct {
	headers []string
	rows    [][]string
	lines   []int
}

func readTable(r io.Reader) (table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return table{}, fmt.Errorf("empty file: %w", ErrNoRecords)
	}
	if err != nil {
		return table{}, fmt.Errorf("error parsing CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := table{headers: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table{}, fmt.Errorf("error parsing CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		t.rows = append(t.rows, rec)
		t.lines = append(t.lines, line)
	}
	return t, nil
}

// LoadFile opens path and loads it as the given dataset.
func LoadFile(ds workspace.Dataset, path string) (theatre.Datasets, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return theatre.Datasets{}, Report{Dataset: ds}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Load(ds, f)
}

// Load parses a CSV upload into the named collection. Only that collection of the
// returned Datasets is populated. Rows failing validation are listed in the report;
// ErrNoRecords is returned when rows existed but none survived.
func Load(ds workspace.Dataset, r io.Reader) (theatre.Datasets, Report, error) {
	rep := Report{Dataset: ds}
	t, err := readTable(r)
	if err != nil {
		return theatre.Datasets{}, rep, err
	}
	rep.Headers = t.headers
	rep.TotalRows = len(t.rows)

	var out theatre.Datasets
	switch ds {
	case workspace.DatasetBacklog:
		out.Backlog, err = loadBacklog(t, &rep)
		rep.Records = len(out.Backlog)
	case workspace.DatasetActivity:
		out.Activity, err = loadActivity(t, &rep)
		rep.Records = len(out.Activity)
	case workspace.DatasetContract:
		out.Contract, err = loadContract(t, &rep)
		rep.Records = len(out.Contract)
	case workspace.DatasetDemand:
		out.Demand, err = loadDemand(t, &rep)
		rep.Records = len(out.Demand)
	case workspace.DatasetTimetable:
		out.Timetable, err = loadTimetable(t, &rep)
		rep.Records = len(out.Timetable)
	default:
		return out, rep, fmt.Errorf("%q: %w", ds, workspace.ErrUnknownDataset)
	}
	if err != nil {
		return theatre.Datasets{}, rep, fmt.Errorf("%s: %w", ds, err)
	}

	if rep.Records == 0 && rep.TotalRows > 0 {
		return out, rep, fmt.Errorf("%s: %w (%d rows skipped)", ds, ErrNoRecords, rep.SkippedCount())
	}
	return out, rep, nil
}

func (c *columns) err() error {
	if len(c.missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(c.missing, "; "))
}

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// parseLeadingInt reads the integer prefix of s, so "12.7" and "12 weeks" read as 12.
func parseLeadingInt(s string) (int, bool) {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	return n, err == nil
}

func parseNonNegative(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

func loadBacklog(t table, rep *Report) ([]theatre.BacklogRecord, error) {
	cols := newColumns(t.headers)
	cols.require("specialty", specialtyAliases)
	cols.require("weeksWait", weeksWaitAliases)
	cols.require("pathwayType", pathwayAliases)
	cols.optional("patientCount", countAliases)
	if err := cols.err(); err != nil {
		return nil, err
	}

	type key struct {
		specialty string
		weeks     int
		pathway   theatre.Pathway
	}
	counts := make(map[key]int)
	var order []key

	for i, row := range t.rows {
		var reasons []string
		specialty := theatre.NormalizeSpecialty(cols.get(row, "specialty"))
		if specialty == theatre.Unknown {
			reasons = append(reasons, "Missing/Invalid Specialty")
		}
		weeks, ok := parseLeadingInt(cols.get(row, "weeksWait"))
		if !ok || weeks < 0 {
			reasons = append(reasons, "Non-numeric/Negative Weeks Wait")
		}
		count := 1
		if cols.has("patientCount") {
			n, ok := parseLeadingInt(cols.get(row, "patientCount"))
			if !ok || n < 1 {
				reasons = append(reasons, "Non-numeric/Non-positive Patient Count")
			}
			count = n
		}
		if len(reasons) > 0 {
			rep.skip(t.lines[i], row, reasons)
			continue
		}

		rep.ValidRows++
		k := key{specialty: specialty, weeks: weeks, pathway: theatre.NormalizePathway(cols.get(row, "pathwayType"))}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k] += count
	}

	records := make([]theatre.BacklogRecord, 0, len(order))
	for _, k := range order {
		records = append(records, theatre.BacklogRecord{
			Specialty:    k.specialty,
			WeeksWait:    k.weeks,
			Pathway:      k.pathway,
			PatientCount: counts[k],
		})
	}
	return records, nil
}

func loadActivity(t table, rep *Report) ([]theatre.ActivityRecord, error) {
	cols := newColumns(t.headers)
	cols.require("specialty", specialtyAliases)
	cols.require("surgeon", surgeonAliases)
	cols.require("date", dateAliases)
	cols.require("sessionId", sessionIDAliases)
	cols.optional("completed", completedAliases)
	if err := cols.err(); err != nil {
		return nil, err
	}

	var records []theatre.ActivityRecord
	for i, row := range t.rows {
		var reasons []string
		completed := 1.0
		if cols.has("completed") {
			raw := cols.get(row, "completed")
			v, ok := parseNonNegative(raw)
			if !ok {
				reasons = append(reasons, fmt.Sprintf("Non-numeric/Negative Completed Cases value ('%s')", raw))
			}
			completed = v
		}
		date, ok := ParseUKDate(cols.get(row, "date"))
		if !ok {
			reasons = append(reasons, "Invalid Date format (must be DD/MM/YYYY or similar)")
		}
		if len(reasons) > 0 {
			rep.skip(t.lines[i], row, reasons)
			continue
		}

		sessionID := cols.get(row, "sessionId")
		if sessionID == "" {
			sessionID = "N/A"
		}
		rep.ValidRows++
		records = append(records, theatre.ActivityRecord{
			Specialty: theatre.NormalizeSpecialty(cols.get(row, "specialty")),
			Surgeon:   theatre.NormalizeSurgeon(cols.get(row, "surgeon")),
			SessionID: sessionID,
			Date:      FormatISODate(date),
			WeekIndex: WeekIndex(date),
			Completed: completed,
		})
	}
	return records, nil
}

var monthColumn = regexp.MustCompile(`(?i)^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)-(\d{2})$`)

type monthCol struct {
	index int
	year  int
	month time.Month
}

func findMonthColumns(headers []string) []monthCol {
	var cols []monthCol
	for i, h := range headers {
		m := monthColumn.FindStringSubmatch(strings.TrimSpace(h))
		if m == nil {
			continue
		}
		month, err := time.Parse("Jan", strings.ToUpper(m[1][:1])+strings.ToLower(m[1][1:]))
		if err != nil {
			continue
		}
		yy, _ := strconv.Atoi(m[2])
		cols = append(cols, monthCol{index: i, year: 2000 + yy, month: month.Month()})
	}
	return cols
}

// loadContract spreads each monthly total evenly over the Mondays that start in that month.
func loadContract(t table, rep *Report) ([]theatre.ContractEntry, error) {
	cols := newColumns(t.headers)
	cols.require("specialty", specialtyAliases)
	months := findMonthColumns(t.headers)
	if len(months) == 0 {
		cols.missing = append(cols.missing, "month columns (e.g. Apr-25, May-25)")
	}
	if err := cols.err(); err != nil {
		return nil, err
	}

	type key struct {
		specialty string
		week      int
	}
	entries := make(map[key]*theatre.ContractEntry)
	var order []key

	for i, row := range t.rows {
		specialty := theatre.NormalizeSpecialty(cols.get(row, "specialty"))
		if specialty == theatre.Unknown {
			rep.skip(t.lines[i], row, []string{"Missing/Invalid Specialty"})
			continue
		}

		contributed := false
		for _, mc := range months {
			if mc.index >= len(row) {
				continue
			}
			total, ok := parseLeadingInt(row[mc.index])
			if !ok || total < 0 {
				continue
			}
			mondays := MondaysStartingIn(mc.year, mc.month)
			if len(mondays) == 0 {
				continue
			}
			contributed = true
			weekly := float64(total) / float64(len(mondays))
			for _, monday := range mondays {
				k := key{specialty: specialty, week: WeekIndex(monday)}
				e, ok := entries[k]
				if !ok {
					e = &theatre.ContractEntry{Specialty: specialty, WeekIndex: k.week, Week: FormatISODate(monday)}
					entries[k] = e
					order = append(order, k)
				}
				e.WeeklyAmount += weekly
			}
		}

		if !contributed {
			rep.skip(t.lines[i], row, []string{"Specialty is valid but no monthly plan data found/is valid"})
			continue
		}
		rep.ValidRows++
	}

	records := make([]theatre.ContractEntry, 0, len(order))
	for _, k := range order {
		records = append(records, *entries[k])
	}
	return records, nil
}

var weekLabel = regexp.MustCompile(`(?i)^W(\d{1,2})$`)

func loadDemand(t table, rep *Report) ([]theatre.DemandEntry, error) {
	cols := newColumns(t.headers)
	cols.require("specialty", specialtyAliases)
	cols.require("demand", demandAliases)
	cols.optional("date", dateAliases)
	cols.optional("week", weekAliases)
	if !cols.has("date") && !cols.has("week") {
		cols.missing = append(cols.missing, "date or week")
	}
	if err := cols.err(); err != nil {
		return nil, err
	}

	type key struct {
		specialty string
		week      int
	}
	totals := make(map[key]float64)
	var order []key

	for i, row := range t.rows {
		var reasons []string
		specialty := theatre.NormalizeSpecialty(cols.get(row, "specialty"))
		if specialty == theatre.Unknown {
			reasons = append(reasons, "Missing/Invalid Specialty")
		}
		demand, ok := parseLeadingInt(cols.get(row, "demand"))
		if !ok || demand <= 0 {
			reasons = append(reasons, "Non-numeric/Negative Demand (DTA)")
		}

		week := -1
		if date, ok := ParseUKDate(cols.get(row, "date")); ok {
			week = WeekIndex(date)
		} else if m := weekLabel.FindStringSubmatch(cols.get(row, "week")); m != nil {
			n, _ := strconv.Atoi(m[1])
			week = n - 1
		}
		if week < 0 {
			reasons = append(reasons, "Missing/Invalid Date or Week (e.g. 06/01/2025 or W12)")
		}

		if len(reasons) > 0 {
			rep.skip(t.lines[i], row, reasons)
			continue
		}

		rep.ValidRows++
		k := key{specialty: specialty, week: week}
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] += float64(demand)
	}

	records := make([]theatre.DemandEntry, 0, len(order))
	for _, k := range order {
		records = append(records, theatre.DemandEntry{Specialty: k.specialty, WeekIndex: k.week, Demand: totals[k]})
	}
	return records, nil
}

func loadTimetable(t table, rep *Report) ([]theatre.TimetableRow, error) {
	cols := newColumns(t.headers)
	cols.require("specialty", specialtyAliases)
	cols.require("surgeon", surgeonAliases)
	cols.require("sessionsOdd", oddAliases)
	cols.optional("sessionsEven", evenAliases)
	cols.optional("site", siteAliases)
	cols.optional("id", idAliases)
	if err := cols.err(); err != nil {
		return nil, err
	}

	var rows []theatre.TimetableRow
	for i, row := range t.rows {
		var reasons []string
		odd, ok := parseNonNegative(cols.get(row, "sessionsOdd"))
		if !ok {
			reasons = append(reasons, "Non-numeric/Negative Odd Week Sessions")
		}
		even := odd
		if cols.has("sessionsEven") {
			if even, ok = parseNonNegative(cols.get(row, "sessionsEven")); !ok {
				reasons = append(reasons, "Non-numeric/Negative Even Week Sessions")
			}
		}
		if len(reasons) > 0 {
			rep.skip(t.lines[i], row, reasons)
			continue
		}

		id := cols.get(row, "id")
		if id == "" {
			id = uuid.NewString()
		}
		site := theatre.NormalizeSite(cols.get(row, "site"))
		if site == "" {
			site = theatre.DefaultSites[0]
		}
		rep.ValidRows++
		rows = append(rows, theatre.TimetableRow{
			ID:           id,
			Specialty:    theatre.NormalizeSpecialty(cols.get(row, "specialty")),
			Surgeon:      theatre.NormalizeSurgeon(cols.get(row, "surgeon")),
			Site:         site,
			SessionsOdd:  odd,
			SessionsEven: even,
		})
	}
	return rows, nil
}
