// Package ingest reads workout exports into raw set rows.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/liftplot/internal/model"
)

// Column names of the export header.
const (
	ColumnDate     = "Date"
	ColumnExercise = "Exercise Name"
	ColumnWeight   = "Weight"
	ColumnReps     = "Reps"
)

// DefaultDelimiter separates fields unless configured otherwise.
const DefaultDelimiter = ','

var requiredColumns = []string{ColumnDate, ColumnExercise, ColumnWeight, ColumnReps}

// ReadFile reads an export file from disk.
func ReadFile(path string, delimiter rune) ([]model.RawSetRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() {
		// Read-only file; close error carries no data loss.
		_ = f.Close()
	}()
	return ReadRows(f, delimiter)
}

// ReadRows reads rows in source order. Columns are located by header name;
// extra columns are ignored. Empty input yields no rows.
func ReadRows(r io.Reader, delimiter rune) ([]model.RawSetRow, error) {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []model.RawSetRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, model.RawSetRow{
			Line:     line,
			Date:     field(record, index[ColumnDate]),
			Exercise: field(record, index[ColumnExercise]),
			Weight:   field(record, index[ColumnWeight]),
			Reps:     field(record, index[ColumnReps]),
		})
	}
	return rows, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

// Short rows yield empty fields.
func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
