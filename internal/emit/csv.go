// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emit

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/pdiddy/standards-engine/pkg/types"
)

// AppendCSV appends rows to the CSV at path, creating it (with the
// fixed column header) when it does not exist or is empty. Values are
// quoted per standard CSV rules by the encoder.
func AppendCSV(path string, rows []types.Row) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening output CSV %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat output CSV %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(types.Columns); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
	}

	for _, row := range rows {
		if err := w.Write(row.Record()); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV %s: %w", path, err)
	}
	return nil
}

// ReadCSV loads rows from a CSV previously produced by AppendCSV. It
// verifies the header matches the fixed column schema.
func ReadCSV(path string) ([]types.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	if len(header) != len(types.Columns) {
		return nil, fmt.Errorf("CSV %s has %d columns, want %d", path, len(header), len(types.Columns))
	}
	for i, col := range types.Columns {
		if header[i] != col {
			return nil, fmt.Errorf("CSV %s column %d is %q, want %q", path, i, header[i], col)
		}
	}

	rows := make([]types.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, rowFromRecord(rec))
	}
	return rows, nil
}

func rowFromRecord(rec []string) types.Row {
	row := types.Row{
		Source:             rec[0],
		FunctionalArea:     rec[1],
		StandardIndex:      rec[2],
		StandardTitle:      rec[3],
		ElementIndex:       rec[4],
		ElementTitle:       rec[5],
		ElementScoring:     rec[6],
		ElementDataSource:  rec[7],
		ElementMustPass:    rec[8] == "true",
		ElementExplanation: rec[9],
		ElementReference:   rec[11],
		FactorIndex:        rec[12],
		FactorTitle:        rec[13],
		FactorDescription:  rec[14],
		FactorExplanation:  rec[15],
		FactorReference:    rec[17],
		EffectiveDate:      rec[18],
		UpdatedAt:          rec[19],
	}
	fmt.Sscanf(rec[10], "%d", &row.ElementNumFactors)
	if rec[16] != "" {
		critical := rec[16] == "true"
		row.FactorCritical = &critical
	}
	return row
}
