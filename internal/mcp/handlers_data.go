package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog/log"

	"rtt-forecast/internal/ingest"
	"rtt-forecast/internal/scenario"
	"rtt-forecast/internal/theatre"
	"rtt-forecast/internal/workspace"
)

// maxSkippedShown caps the skipped rows echoed back; the full log is exportable.
const maxSkippedShown = 10

// LoadSummary is the payload of load_dataset.
type LoadSummary struct {
	Dataset   workspace.Dataset   `json:"dataset"`
	Path      string              `json:"path"`
	TotalRows int                 `json:"totalRows"`
	ValidRows int                 `json:"validRows"`
	Records   int                 `json:"records"`
	Skipped   int                 `json:"skipped"`
	Sample    []ingest.SkippedRow `json:"skippedSample,omitempty"`
}

func summarizeReport(rep ingest.Report, path string) LoadSummary {
	sum := LoadSummary{
		Dataset:   rep.Dataset,
		Path:      path,
		TotalRows: rep.TotalRows,
		ValidRows: rep.ValidRows,
		Records:   rep.Records,
		Skipped:   rep.SkippedCount(),
	}
	if n := min(len(rep.Skipped), maxSkippedShown); n > 0 {
		sum.Sample = rep.Skipped[:n]
	}
	return sum
}

func (s *Server) resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || s.cfg == nil {
		return path
	}
	return filepath.Join(s.cfg.DataPath, path)
}

func (s *Server) handleLoadDataset(_ context.Context, in LoadDatasetInput) (any, error) {
	ds, err := workspace.ParseDataset(in.Dataset)
	if err != nil {
		return nil, err
	}
	path := s.resolvePath(in.Path)

	data, rep, err := ingest.LoadFile(ds, path)
	s.setReport(rep)
	if err != nil {
		return nil, err
	}
	if err := s.ws.ReplaceData(ds, data); err != nil {
		return nil, err
	}
	s.persist()

	log.Info().Str("dataset", string(ds)).Str("path", path).Int("records", rep.Records).Int("skipped", rep.SkippedCount()).Msg("Dataset loaded")
	return s.wrapCurrent(summarizeReport(rep, path)), nil
}

func (s *Server) handleClearDataset(_ context.Context, in DatasetInput) (any, error) {
	ds, err := workspace.ParseDataset(in.Dataset)
	if err != nil {
		return nil, err
	}
	if err := s.ws.ClearDataset(ds); err != nil {
		return nil, err
	}
	s.persist()
	return summarize(s.ws.Branch(s.ws.Active())).Records, nil
}

func (s *Server) handleUpsertTimetableRow(_ context.Context, in TimetableRowInput) (any, error) {
	// Blank fields keep the current row's values; a new row starts from the defaults.
	var base theatre.TimetableRow
	if in.ID == "" {
		base = s.ws.AddTimetableRow()
	} else {
		tt := s.ws.Branch(s.ws.Active()).Data.Timetable
		i := slices.IndexFunc(tt, func(r theatre.TimetableRow) bool { return r.ID == in.ID })
		if i < 0 {
			return nil, fmt.Errorf("%s: %w", in.ID, workspace.ErrRowNotFound)
		}
		base = tt[i]
	}

	row := base
	if in.Specialty != "" {
		row.Specialty = in.Specialty
	}
	if in.Surgeon != "" {
		row.Surgeon = in.Surgeon
	}
	if in.Site != "" {
		row.Site = in.Site
	}
	row.SessionsOdd = in.SessionsOdd
	row.SessionsEven = in.SessionsEven

	row = s.ws.UpsertTimetableRow(row)
	s.persist()
	return row, nil
}

func (s *Server) handleSetTimetableField(_ context.Context, in TimetableFieldInput) (any, error) {
	row, err := s.ws.SetTimetableField(in.ID, in.Field, in.Value)
	if err != nil {
		return nil, err
	}
	s.persist()
	return row, nil
}

func (s *Server) handleRemoveTimetableRow(_ context.Context, in RowIDInput) (any, error) {
	if err := s.ws.RemoveTimetableRow(in.ID); err != nil {
		return nil, err
	}
	s.persist()
	return map[string]string{"removed": in.ID}, nil
}

func (s *Server) handleLoadScenario(_ context.Context, in ScenarioInput) (any, error) {
	defaults := theatre.DefaultAssumptions()
	if s.cfg != nil {
		defaults = s.cfg.Defaults
	}
	sc, err := scenario.Load(s.resolvePath(in.Path), defaults)
	if err != nil {
		return nil, err
	}
	reports, err := sc.Apply(s.ws)
	if err != nil {
		return nil, err
	}
	s.persist()

	loads := make([]LoadSummary, 0, len(reports))
	for _, rep := range reports {
		s.setReport(rep)
		loads = append(loads, summarizeReport(rep, ""))
	}
	log.Info().Str("scenario", sc.Name).Int("datasets", len(reports)).Msg("Scenario applied")
	return s.wrapCurrent(map[string]any{"scenario": sc.Name, "loaded": loads}), nil
}
