package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/liftplot/internal/model"
)

const sparkChars = " .:-=+*#%@"

// DefaultSmoothingRadius is the half-window of the trend line.
const DefaultSmoothingRadius = 5

// TriangularMovingAverage smooths values with a triangular kernel of the
// given radius. Indices outside the series are clamped to the ends, so the
// window never shrinks.
func TriangularMovingAverage(values []float64, radius int) []float64 {
	out := make([]float64, len(values))
	if radius <= 0 || len(values) == 0 {
		copy(out, values)
		return out
	}
	last := len(values) - 1
	for i := range values {
		var sum, totalWeight float64
		for offset := -radius; offset <= radius; offset++ {
			weight := float64(radius - absInt(offset) + 1)
			idx := i + offset
			if idx < 0 {
				idx = 0
			}
			if idx > last {
				idx = last
			}
			sum += values[idx] * weight
			totalWeight += weight
		}
		out[i] = sum / totalWeight
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints totals for the report.
func RenderSummary(w io.Writer, r Report, unit string) error {
	if len(r.Workouts) == 0 {
		_, err := fmt.Fprintln(w, "No training days found.")
		return err
	}
	var total float64
	for _, p := range r.Daily {
		total += p.Value
	}
	first := r.Workouts[0].Date.Format("2006-01-02")
	last := r.Workouts[len(r.Workouts)-1].Date.Format("2006-01-02")
	lines := []string{
		"Summary",
		fmt.Sprintf("Range: %s .. %s", first, last),
		fmt.Sprintf("Training days: %d", len(r.Workouts)),
		fmt.Sprintf("Weeks: %d", len(r.Weekly)),
		fmt.Sprintf("Exercises: %d", len(r.Exercises)),
		fmt.Sprintf("Total volume: %.0f %s", total, unit),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderExerciseTable prints per-exercise totals with a trend sparkline.
func RenderExerciseTable(w io.Writer, histories []model.ExerciseHistory, unit string) error {
	if len(histories) == 0 {
		_, err := fmt.Fprintln(w, "No exercises found.")
		return err
	}
	summaries := SummarizeExercises(histories)
	cols := []column{
		{title: "Exercise"},
		{title: "Sessions", right: true},
		{title: "Sets", right: true},
		{title: "Volume (" + unit + ")", right: true},
		{title: "Best 1rm (" + unit + ")", right: true},
		{title: "Trend"},
	}
	rows := make([][]string, 0, len(summaries))
	for i, s := range summaries {
		rows = append(rows, []string{
			s.Name,
			fmt.Sprintf("%d", s.Sessions),
			fmt.Sprintf("%d", s.Sets),
			fmt.Sprintf("%.0f", s.Volume),
			fmt.Sprintf("%.1f", s.BestEstimate),
			Sparkline(estimateValues(histories[i])),
		})
	}
	for _, line := range textTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func estimateValues(h model.ExerciseHistory) []float64 {
	out := make([]float64, 0, len(h.Sessions))
	for _, s := range h.Sessions {
		if s.EstimatedMax > 0 {
			out = append(out, s.EstimatedMax)
		}
	}
	return out
}

// RenderChartWithSize prints a chart sized to a given total width.
func RenderChartWithSize(w io.Writer, c model.Chart, totalWidth, height int, useColor bool) error {
	if len(c.Points) == 0 {
		return nil
	}
	cols := 0
	if totalWidth > 0 {
		cols = plotWidthFor(totalWidth)
	}
	title := fmt.Sprintf("%s  %s .. %s", c.Title,
		c.Points[0].Date.Format("2006-01-02"),
		c.Points[len(c.Points)-1].Date.Format("2006-01-02"))
	return plotChart(w, title, c, cols, height, useColor)
}
