// Package stats contains the workout aggregation pipeline and reporting.
package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/liftplot/internal/model"
)

// DateLayout is the timestamp format of the export's Date column.
const DateLayout = "2006-01-02 15:04:05"

const (
	oneRepMaxBase  = 1.0278
	oneRepMaxSlope = 0.0278
	maxReps        = math.MaxInt32
)

// ParseError reports a row whose date could not be parsed.
type ParseError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: invalid %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Normalize converts a raw row into a typed set record.
func Normalize(row model.RawSetRow) (model.SetRecord, error) {
	ts, err := time.Parse(DateLayout, strings.TrimSpace(row.Date))
	if err != nil {
		return model.SetRecord{}, &ParseError{Line: row.Line, Field: "Date", Value: row.Date, Err: err}
	}
	weight := parseWeight(row.Weight)
	reps := parseReps(row.Reps)
	return model.SetRecord{
		Date:         time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
		Exercise:     row.Exercise,
		Weight:       weight,
		Reps:         reps,
		Volume:       weight * float64(reps),
		EstimatedMax: EstimateOneRepMax(weight, reps),
	}, nil
}

// NormalizeAll normalizes rows in order and stops at the first bad row.
func NormalizeAll(rows []model.RawSetRow) ([]model.SetRecord, error) {
	records := make([]model.SetRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := Normalize(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// EstimateOneRepMax applies the Brzycki-style estimate w / (1.0278 - 0.0278*r).
// It returns 0 when the estimate is undefined (r >= 37).
func EstimateOneRepMax(weight float64, reps int) float64 {
	den := oneRepMaxBase - oneRepMaxSlope*float64(reps)
	if den <= 0 {
		return 0
	}
	return weight / den
}

// Empty, unparsable, non-finite or negative numeric fields count as zero.
func parseWeight(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !usable(v) {
		return 0
	}
	return v
}

func parseReps(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return max(v, 0)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !usable(v) || v > maxReps {
		return 0
	}
	return int(v)
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
