package workspace

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"rtt-forecast/internal/planner"
	"rtt-forecast/internal/theatre"
)

var (
	ErrUnknownDataset = errors.New("unknown dataset")
	ErrRowNotFound    = errors.New("timetable row not found")
	ErrUnknownField   = errors.New("unknown timetable field")
)

// Slot names one of the two branches.
type Slot int

const (
	Live Slot = iota
	Sandbox
)

func (s Slot) String() string {
	if s == Sandbox {
		return "sandbox"
	}
	return "live"
}

// Branch is one complete, independent set of assumptions and data.
type Branch struct {
	Assumptions theatre.Assumptions `json:"assumptions"`
	Data        theatre.Datasets    `json:"data"`
}

// Clone deep-copies the branch.
func (b Branch) Clone() Branch {
	return Branch{Assumptions: b.Assumptions, Data: b.Data.Clone()}
}

// Dataset names one of the five record collections.
type Dataset string

const (
	DatasetTimetable Dataset = "timetable"
	DatasetActivity  Dataset = "activity"
	DatasetBacklog   Dataset = "backlog"
	DatasetDemand    Dataset = "demandProfile"
	DatasetContract  Dataset = "contractPlan"
)

// Datasets lists every dataset name.
var Datasets = []Dataset{DatasetTimetable, DatasetActivity, DatasetBacklog, DatasetDemand, DatasetContract}

// ParseDataset resolves a dataset name, accepting the short forms used on the command line.
func ParseDataset(name string) (Dataset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "timetable":
		return DatasetTimetable, nil
	case "activity":
		return DatasetActivity, nil
	case "backlog", "ptl":
		return DatasetBacklog, nil
	case "demand", "demandprofile", "demand_profile":
		return DatasetDemand, nil
	case "contract", "contractplan", "contract_plan", "icb":
		return DatasetContract, nil
	default:
		return "", fmt.Errorf("%q: %w", name, ErrUnknownDataset)
	}
}

// Workspace holds the live and sandbox branches, the active slot and the slicer state.
// It is safe for concurrent use; every method locks.
type Workspace struct {
	mu        sync.RWMutex
	branches  [2]Branch
	mode      planner.Mode
	selection theatre.Selection
}

// New creates a workspace whose branches both start from defaults, with the sandbox active.
func New(defaults theatre.Assumptions) *Workspace {
	base := Branch{Assumptions: defaults}
	return &Workspace{
		branches:  [2]Branch{base.Clone(), base.Clone()},
		mode:      planner.DefaultMode(),
		selection: theatre.AllSelection(),
	}
}

// SlotFor returns the branch a mode edits and recomputes.
func SlotFor(m planner.Mode) Slot {
	if m.Sandbox {
		return Sandbox
	}
	return Live
}

func (w *Workspace) active() Slot {
	return SlotFor(w.mode)
}

// Active reports which branch edits and recomputes use.
func (w *Workspace) Active() Slot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.active()
}

// Branch returns a deep copy of the given branch.
func (w *Workspace) Branch(s Slot) Branch {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.branches[s].Clone()
}

// Mode returns the current calculation flags.
func (w *Workspace) Mode() planner.Mode {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.mode
}

// SetMode replaces the calculation flags; Sandbox selects the active branch.
func (w *Workspace) SetMode(m planner.Mode) error {
	m = m.WithDefaults()
	if err := m.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mode = m
	return nil
}

// Selection returns the slicer state.
func (w *Workspace) Selection() theatre.Selection {
	w.mu.RLock()
	defer w.mu.RUnlock()
	sel := w.selection
	sel.Surgeons = slices.Clone(sel.Surgeons)
	return sel
}

// SetSelection replaces the slicer state.
func (w *Workspace) SetSelection(sel theatre.Selection) {
	w.mu.Lock()
	defer w.mu.Unlock()
	sel.Surgeons = slices.Clone(sel.Surgeons)
	w.selection = sel
}

// ToggleSurgeon flips one surgeon in or out of the selection.
func (w *Workspace) ToggleSurgeon(surgeon string) theatre.Selection {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selection = w.selection.ToggleSurgeon(surgeon)
	return w.selection
}

// SetAssumption applies one edit to the active branch.
func (w *Workspace) SetAssumption(key string, value float64) (theatre.Assumptions, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	b := &w.branches[w.active()]
	next, err := b.Assumptions.Set(key, value)
	if err != nil {
		return b.Assumptions, err
	}
	b.Assumptions = next
	return next, nil
}

// SetAssumptions replaces the active branch's assumptions after validation.
func (w *Workspace) SetAssumptions(a theatre.Assumptions) error {
	if err := a.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.branches[w.active()].Assumptions = a
	return nil
}

// ReplaceData swaps the named collection of the active branch for records taken from d.
func (w *Workspace) ReplaceData(ds Dataset, d theatre.Datasets) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	data := &w.branches[w.active()].Data
	switch ds {
	case DatasetTimetable:
		data.Timetable = slices.Clone(d.Timetable)
	case DatasetActivity:
		data.Activity = slices.Clone(d.Activity)
	case DatasetBacklog:
		data.Backlog = slices.Clone(d.Backlog)
	case DatasetDemand:
		data.Demand = slices.Clone(d.Demand)
	case DatasetContract:
		data.Contract = slices.Clone(d.Contract)
	default:
		return fmt.Errorf("%q: %w", ds, ErrUnknownDataset)
	}
	return nil
}

// ClearDataset empties one collection of the active branch.
func (w *Workspace) ClearDataset(ds Dataset) error {
	return w.ReplaceData(ds, theatre.Datasets{})
}

// Reset discards sandbox edits: sandbox <- live.
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.branches[Sandbox] = w.branches[Live].Clone()
}

// Commit promotes the sandbox (live <- sandbox) and switches to the live branch.
func (w *Workspace) Commit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.branches[Live] = w.branches[Sandbox].Clone()
	w.mode.Sandbox = false
}

// Settings returns the mode and slicer selection read together.
func (w *Workspace) Settings() (planner.Mode, theatre.Selection) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	sel := w.selection
	sel.Surgeons = slices.Clone(sel.Surgeons)
	return w.mode, sel
}

// Snapshot captures the active branch and slicer state for a recompute.
func (w *Workspace) Snapshot() planner.Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b := w.branches[w.active()].Clone()
	sel := w.selection
	sel.Surgeons = slices.Clone(sel.Surgeons)
	return planner.Snapshot{
		Assumptions: b.Assumptions,
		Data:        b.Data,
		Selection:   sel,
		Mode:        w.mode,
	}
}

// Compute recomputes forecasts and KPIs for the active branch.
func (w *Workspace) Compute() planner.Result {
	return planner.Compute(w.Snapshot())
}

// AddTimetableRow appends an empty allocation to the active branch's timetable.
func (w *Workspace) AddTimetableRow() theatre.TimetableRow {
	w.mu.Lock()
	defer w.mu.Unlock()
	data := &w.branches[w.active()].Data
	row := theatre.TimetableRow{
		ID:        uuid.NewString(),
		Specialty: data.DefaultTimetableSpecialty(),
		Surgeon:   theatre.Unknown,
		Site:      theatre.DefaultSites[0],
	}
	data.Timetable = append(data.Timetable, row)
	return row
}

// UpsertTimetableRow sanitises row and replaces the row with the same ID, or appends it,
// assigning a fresh ID when none is given.
func (w *Workspace) UpsertTimetableRow(row theatre.TimetableRow) theatre.TimetableRow {
	row = sanitizeRow(row)
	w.mu.Lock()
	defer w.mu.Unlock()
	data := &w.branches[w.active()].Data
	if row.ID != "" {
		if i := slices.IndexFunc(data.Timetable, func(r theatre.TimetableRow) bool { return r.ID == row.ID }); i >= 0 {
			data.Timetable = slices.Clone(data.Timetable)
			data.Timetable[i] = row
			return row
		}
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	data.Timetable = append(data.Timetable, row)
	return row
}

// SetTimetableField edits a single field of a timetable row from its text form.
// Session counts that are unparseable or negative become 0; names are normalised.
func (w *Workspace) SetTimetableField(id, field, value string) (theatre.TimetableRow, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	data := &w.branches[w.active()].Data
	i := slices.IndexFunc(data.Timetable, func(r theatre.TimetableRow) bool { return r.ID == id })
	if i < 0 {
		return theatre.TimetableRow{}, fmt.Errorf("%s: %w", id, ErrRowNotFound)
	}

	row := data.Timetable[i]
	switch field {
	case "sessionsOdd":
		row.SessionsOdd = parseSessions(value)
	case "sessionsEven":
		row.SessionsEven = parseSessions(value)
	case "surgeon":
		row.Surgeon = value
	case "specialty":
		row.Specialty = value
	case "site":
		row.Site = value
	default:
		return row, fmt.Errorf("%s: %w", field, ErrUnknownField)
	}
	row = sanitizeRow(row)

	data.Timetable = slices.Clone(data.Timetable)
	data.Timetable[i] = row
	return row, nil
}

// RemoveTimetableRow deletes a row from the active branch's timetable.
func (w *Workspace) RemoveTimetableRow(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	data := &w.branches[w.active()].Data
	kept := slices.DeleteFunc(slices.Clone(data.Timetable), func(r theatre.TimetableRow) bool { return r.ID == id })
	if len(kept) == len(data.Timetable) {
		return fmt.Errorf("%s: %w", id, ErrRowNotFound)
	}
	data.Timetable = kept
	return nil
}

func parseSessions(value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return v
}

func sanitizeSessions(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func sanitizeRow(r theatre.TimetableRow) theatre.TimetableRow {
	r.SessionsOdd = sanitizeSessions(r.SessionsOdd)
	r.SessionsEven = sanitizeSessions(r.SessionsEven)
	r.Surgeon = theatre.NormalizeSurgeon(r.Surgeon)
	r.Specialty = theatre.NormalizeSpecialty(r.Specialty)
	r.Site = theatre.NormalizeSite(r.Site)
	if r.Site == "" {
		r.Site = theatre.DefaultSites[0]
	}
	return r
}
