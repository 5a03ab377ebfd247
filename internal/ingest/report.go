package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"rtt-forecast/internal/workspace"
)

var (
	ErrMissingColumns = errors.New("required columns not found")
	ErrNoRecords      = errors.New("no valid records found")
)

// SkippedRow is an input row rejected by validation.
type SkippedRow struct {
	Line   int      `json:"line"`
	Reason string   `json:"reason"`
	Values []string `json:"values"`
}

// Report summarises one file load.
type Report struct {
	Dataset   workspace.Dataset `json:"dataset"`
	Headers   []string          `json:"headers"`
	TotalRows int               `json:"totalRows"`
	ValidRows int               `json:"validRows"`
	Records   int               `json:"records"` // after aggregation
	Skipped   []SkippedRow      `json:"skipped,omitempty"`
}

// SkippedCount is the number of input rows that did not contribute.
func (r Report) SkippedCount() int {
	return r.TotalRows - r.ValidRows
}

func (r *Report) skip(line int, row []string, reasons []string) {
	r.Skipped = append(r.Skipped, SkippedRow{
		Line:   line,
		Reason: strings.Join(reasons, "; "),
		Values: row,
	})
}

// WriteSkippedCSV writes the rejected rows with a leading ValidationError column.
func (r Report) WriteSkippedCSV(w io.Writer) error {
	if len(r.Skipped) == 0 {
		return fmt.Errorf("no validation error log available for %s", r.Dataset)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"ValidationError"}, r.Headers...)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range r.Skipped {
		record := make([]string, 0, len(r.Headers)+1)
		record = append(record, s.Reason)
		for i := range r.Headers {
			v := ""
			if i < len(s.Values) {
				v = s.Values[i]
			}
			record = append(record, v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write line %d: %w", s.Line, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
