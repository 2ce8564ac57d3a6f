package stats

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/verte-zerg/liftplot/internal/model"
)

// DefaultMinPoints is the smallest series that is worth a chart.
const DefaultMinPoints = 5

// Trend colors per chart kind.
const (
	ColorDaily       = "green"
	ColorWeekly      = "purple"
	ColorWeeklyDays  = "red"
	ColorEstimate    = "blue"
	ColorExerciseVol = "orange"
)

// Report contains every aggregate derived from one export.
type Report struct {
	Workouts  model.Workouts
	Exercises []model.ExerciseHistory
	Daily     []model.Point
	Weekly    []model.WeeklyBucket
}

// BuildReport runs the aggregation pipeline over raw rows.
// Exercises are ordered by number of sessions, most first.
func BuildReport(rows []model.RawSetRow) (Report, error) {
	records, err := NormalizeAll(rows)
	if err != nil {
		return Report{}, err
	}
	workouts := GroupWorkouts(records)
	return Report{
		Workouts:  workouts,
		Exercises: OrderExercises(AggregateExercises(workouts)),
		Daily:     DailyVolume(workouts),
		Weekly:    WeeklyRollup(workouts),
	}, nil
}

// ChartOptions controls chart planning.
type ChartOptions struct {
	Unit      string
	Window    int
	MinPoints int
}

// DefaultChartOptions returns the standard chart options.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Unit:      "kg",
		Window:    DefaultSmoothingRadius,
		MinPoints: DefaultMinPoints,
	}
}

// PlanCharts lays out the report pages in their fixed order: daily volume,
// weekly volume, weekly training days, then two charts per exercise.
// Charts with fewer than MinPoints points are left out.
func PlanCharts(r Report, opts ChartOptions, log logrus.FieldLogger) []model.Chart {
	var charts []model.Chart
	add := func(title, unit, color string, points []model.Point) {
		if len(points) < opts.MinPoints {
			log.WithFields(logrus.Fields{
				"chart":  title,
				"points": len(points),
			}).Debug("skipping chart with too few points")
			return
		}
		c := model.Chart{Title: title, Unit: unit, Color: color, Points: points}
		c.Trend = TriangularMovingAverage(c.Values(), opts.Window)
		charts = append(charts, c)
	}

	add("Total volume per training day", opts.Unit, ColorDaily, r.Daily)
	add("Weekly volume", opts.Unit, ColorWeekly, WeeklyVolume(r.Weekly))
	add("Weekly training days", "", ColorWeeklyDays, WeeklyDays(r.Weekly))
	for _, ex := range r.Exercises {
		add(ex.Name+" estimated 1rm (best set)", opts.Unit, ColorEstimate, estimatePoints(ex))
		add(ex.Name+" volume", opts.Unit, ColorExerciseVol, volumePoints(ex))
	}
	return charts
}

// Sessions without a defined estimate are left out of the series.
func estimatePoints(h model.ExerciseHistory) []model.Point {
	out := make([]model.Point, 0, len(h.Sessions))
	for _, s := range h.Sessions {
		if s.EstimatedMax <= 0 {
			continue
		}
		out = append(out, model.Point{Date: s.Date, Value: s.EstimatedMax})
	}
	return out
}

func volumePoints(h model.ExerciseHistory) []model.Point {
	out := make([]model.Point, len(h.Sessions))
	for i, s := range h.Sessions {
		out[i] = model.Point{Date: s.Date, Value: s.Volume}
	}
	return out
}

// Document receives report pages, one chart per page.
type Document interface {
	AddChart(c model.Chart) error
	Close() error
}

// Opener creates the output document.
type Opener func() (Document, error)

// WriteReport opens a document, adds every chart and closes it. The
// document is closed even when adding a chart fails; both errors are
// returned together.
func WriteReport(charts []model.Chart, open Opener, log logrus.FieldLogger) (err error) {
	doc, err := open()
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close document: %w", cerr))
		}
	}()

	for i, c := range charts {
		if err := doc.AddChart(c); err != nil {
			return fmt.Errorf("failed to render chart %q: %w", c.Title, err)
		}
		log.WithFields(logrus.Fields{
			"page":  i + 1,
			"chart": c.Title,
		}).Debug("rendered chart")
	}
	log.WithField("pages", len(charts)).Info("charts rendered")
	return nil
}
