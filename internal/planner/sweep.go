package planner

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"rtt-forecast/internal/theatre"
)

// SweepResult is one specialty's KPIs from a sweep.
type SweepResult struct {
	Specialty string      `json:"specialty"`
	KPIs      KPISnapshot `json:"kpis"`
}

// Sweep recomputes the snapshot once per specialty, concurrently. Every specialty in
// the data is used when specialties is empty. Results keep the input order; the
// surgeon and site selection of the snapshot are kept.
func Sweep(ctx context.Context, snap Snapshot, specialties []string, limit int) ([]SweepResult, error) {
	if len(specialties) == 0 {
		for _, s := range snap.Data.SpecialtyOptions() {
			if s != theatre.AllSpecialties {
				specialties = append(specialties, s)
			}
		}
	}

	results := make([]SweepResult, len(specialties))
	eg, egCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}

	for i, specialty := range specialties {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return fmt.Errorf("sweep %s: %w", specialty, err)
			}
			local := snap
			local.Selection.Specialty = specialty
			results[i] = SweepResult{Specialty: specialty, KPIs: Compute(local).KPIs}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
