package stats

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/liftplot/internal/model"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeDocument struct {
	titles []string
	failAt int
	closed int
	err    error
}

func (d *fakeDocument) AddChart(c model.Chart) error {
	if d.failAt > 0 && len(d.titles)+1 == d.failAt {
		return errors.New("disk full")
	}
	d.titles = append(d.titles, c.Title)
	return nil
}

func (d *fakeDocument) Close() error {
	d.closed++
	return d.err
}

// rowsFor logs one set of the exercise per week for n weeks from start.
func rowsFor(exercise string, start time.Time, n int) []model.RawSetRow {
	rows := make([]model.RawSetRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, model.RawSetRow{
			Line:     i + 2,
			Date:     start.AddDate(0, 0, i*7).Format("2006-01-02") + " 18:00:00",
			Exercise: exercise,
			Weight:   fmt.Sprintf("%d", 60+i),
			Reps:     "5",
		})
	}
	return rows
}

func TestBuildReportAndPlanCharts(t *testing.T) {
	start := day(2023, 1, 2)
	var rows []model.RawSetRow
	rows = append(rows, rowsFor("Curl", start, 3)...)
	rows = append(rows, rowsFor("Squat", start, 6)...)
	rows = append(rows, rowsFor("Bench", start.AddDate(0, 0, 1), 6)...)

	report, err := BuildReport(rows)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Workouts) != 12 {
		t.Fatalf("expected 12 training days, got %d", len(report.Workouts))
	}
	charts := PlanCharts(report, DefaultChartOptions(), quietLogger())
	got := make([]string, len(charts))
	for i, c := range charts {
		got[i] = c.Title
	}
	want := []string{
		"Total volume per training day",
		"Weekly volume",
		"Weekly training days",
		"Squat estimated 1rm (best set)",
		"Squat volume",
		"Bench estimated 1rm (best set)",
		"Bench volume",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("chart order mismatch (-want +got):\n%s", diff)
	}
	for _, c := range charts {
		if len(c.Trend) != len(c.Points) {
			t.Fatalf("%s: trend length %d, points %d", c.Title, len(c.Trend), len(c.Points))
		}
	}
	if charts[2].Unit != "" || charts[0].Unit != "kg" {
		t.Fatalf("unexpected units: %q %q", charts[0].Unit, charts[2].Unit)
	}
	if charts[3].Color == charts[4].Color {
		t.Fatalf("estimate and volume trends must differ in color")
	}
}

func TestPlanChartsEmpty(t *testing.T) {
	report, err := BuildReport(nil)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if charts := PlanCharts(report, DefaultChartOptions(), quietLogger()); len(charts) != 0 {
		t.Fatalf("expected no charts, got %d", len(charts))
	}
}

func TestPlanChartsSkipsUndefinedEstimates(t *testing.T) {
	rows := rowsFor("Burpee", day(2023, 1, 2), 6)
	rows[0].Reps = "40"
	report, err := BuildReport(rows)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	charts := PlanCharts(report, DefaultChartOptions(), quietLogger())
	for _, c := range charts {
		if strings.HasPrefix(c.Title, "Burpee estimated") {
			if len(c.Points) != 5 {
				t.Fatalf("expected 5 estimate points, got %d", len(c.Points))
			}
			return
		}
	}
	t.Fatalf("expected an estimate chart")
}

func TestBuildReportParseError(t *testing.T) {
	rows := rowsFor("Squat", day(2023, 1, 2), 3)
	rows[1].Date = "yesterday"
	_, err := BuildReport(rows)
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Line != rows[1].Line {
		t.Fatalf("expected parse error on line %d, got %v", rows[1].Line, err)
	}
}

func TestWriteReport(t *testing.T) {
	doc := &fakeDocument{}
	charts := []model.Chart{{Title: "a"}, {Title: "b"}}
	err := WriteReport(charts, func() (Document, error) { return doc, nil }, quietLogger())
	if err != nil {
		t.Fatalf("write report: %v", err)
	}
	if doc.closed != 1 {
		t.Fatalf("expected document closed once, got %d", doc.closed)
	}
	if diff := cmp.Diff([]string{"a", "b"}, doc.titles); diff != "" {
		t.Fatalf("pages mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteReportClosesOnFailure(t *testing.T) {
	doc := &fakeDocument{failAt: 2, err: errors.New("close failed")}
	charts := []model.Chart{{Title: "a"}, {Title: "b"}, {Title: "c"}}
	err := WriteReport(charts, func() (Document, error) { return doc, nil }, quietLogger())
	if err == nil {
		t.Fatalf("expected error")
	}
	if doc.closed != 1 {
		t.Fatalf("expected document closed once, got %d", doc.closed)
	}
	if len(doc.titles) != 1 {
		t.Fatalf("expected rendering to stop after first page, got %v", doc.titles)
	}
	msg := err.Error()
	if !strings.Contains(msg, "disk full") || !strings.Contains(msg, "close failed") {
		t.Fatalf("expected both errors, got %q", msg)
	}
}

func TestWriteReportOpenFailure(t *testing.T) {
	err := WriteReport(nil, func() (Document, error) { return nil, errors.New("denied") }, quietLogger())
	if err == nil || !strings.Contains(err.Error(), "denied") {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestPlanChartsStayFinite(t *testing.T) {
	rows := rowsFor("Squat", day(2023, 1, 2), 8)
	rows[1].Weight = "NaN"
	rows[2].Weight = "Inf"
	report, err := BuildReport(rows)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	charts := PlanCharts(report, DefaultChartOptions(), quietLogger())
	if len(charts) == 0 {
		t.Fatalf("expected charts")
	}
	for _, c := range charts {
		for i, p := range c.Points {
			if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) || math.IsNaN(c.Trend[i]) || math.IsInf(c.Trend[i], 0) {
				t.Fatalf("%s: non-finite value at %d", c.Title, i)
			}
		}
	}
}
