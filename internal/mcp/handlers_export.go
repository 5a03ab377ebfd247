package mcp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"rtt-forecast/internal/export"
	"rtt-forecast/internal/planner"
	"rtt-forecast/internal/simulation"
	"rtt-forecast/internal/workspace"
)

// ExportResult is the payload of export_forecast.
type ExportResult struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

func (s *Server) handleExport(_ context.Context, in ExportInput) (any, error) {
	kind := strings.ToLower(strings.TrimSpace(in.Kind))
	if kind == "" {
		kind = "forecast"
	}

	var name string
	var write func(io.Writer) error
	switch kind {
	case "forecast":
		horizon, err := simulation.ParseHorizon(in.Horizon)
		if err != nil {
			return nil, err
		}
		res := s.ws.Compute()
		name = export.ForecastFileName(res.KPIs.PathwayFilter)
		write = func(w io.Writer) error {
			return export.WriteForecastCSV(w, res.Window(res.KPIs.PathwayFilter, horizon))
		}
	case "kpis":
		k := s.ws.Compute().KPIs
		name = "theatre_kpis_export.csv"
		write = func(w io.Writer) error { return export.WriteKPIsCSV(w, k) }
	case "target":
		snap := s.ws.Snapshot()
		snap.Mode.Calc = planner.CalcTarget
		k := planner.Compute(snap).KPIs
		name = "theatre_target_summary.csv"
		write = func(w io.Writer) error { return export.WriteTargetSummaryCSV(w, k) }
	case "skipped":
		ds, err := workspace.ParseDataset(in.Dataset)
		if err != nil {
			return nil, err
		}
		rep, ok := s.report(ds)
		if !ok {
			return nil, fmt.Errorf("no load report for %s in this session", ds)
		}
		name = fmt.Sprintf("%s_validation_log.csv", ds)
		write = rep.WriteSkippedCSV
	default:
		return nil, fmt.Errorf("unknown export kind %q (expected forecast, kpis, target or skipped)", in.Kind)
	}

	path := filepath.Join(s.exportDir(), name)
	if err := writeFileAtomic(path, write); err != nil {
		return nil, err
	}
	log.Info().Str("kind", kind).Str("path", path).Msg("Export written")
	return ExportResult{Kind: kind, Path: path}, nil
}

func (s *Server) exportDir() string {
	if s.cfg != nil && s.cfg.ExportDir != "" {
		return s.cfg.ExportDir
	}
	return "."
}

// writeFileAtomic writes through a temporary file so a failed export never leaves a
// truncated CSV behind.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to flush export: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func (s *Server) handleSweep(ctx context.Context, in SweepInput) (any, error) {
	limit := 4
	if s.cfg != nil && s.cfg.SweepConcurrency > 0 {
		limit = s.cfg.SweepConcurrency
	}
	snap := s.ws.Snapshot()
	results, err := planner.Sweep(ctx, snap, in.Specialties, limit)
	if err != nil {
		return nil, err
	}
	return wrap(snap, results, nil, nil), nil
}
