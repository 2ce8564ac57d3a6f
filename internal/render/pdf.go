// Package render provides report documents that lay out one chart per page.
package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/multierr"

	"github.com/verte-zerg/liftplot/internal/model"
	"github.com/verte-zerg/liftplot/internal/stats"
)

const (
	pageMargin   = 15.0
	plotLeft     = 32.0
	plotTop      = 26.0
	plotBottomIn = 32.0
	titleSize    = 15.0
	labelSize    = 8.0
	trendWidth   = 1.0
	axisWidth    = 0.2
	yTicks       = 5
	maxXTicks    = 24
	tickLayout   = "01.2006"
	dayDuration  = 24 * time.Hour
)

type rgb struct{ r, g, b int }

var (
	barColor  = rgb{128, 128, 128}
	axisColor = rgb{40, 40, 40}
	gridColor = rgb{220, 220, 220}
)

var namedColors = map[string]rgb{
	"green":  {0, 128, 0},
	"purple": {128, 0, 128},
	"red":    {255, 0, 0},
	"blue":   {0, 0, 255},
	"orange": {255, 165, 0},
	"gray":   barColor,
}

func colorByName(name string) rgb {
	if c, ok := namedColors[name]; ok {
		return c
	}
	return axisColor
}

// PDF is a landscape A4 document with one chart per page.
type PDF struct {
	pdf   *fpdf.Fpdf
	out   io.WriteCloser
	tr    func(string) string
	pages int
}

// CreatePDF creates the output file and returns an empty document.
func CreatePDF(path string) (*PDF, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	return NewPDF(f), nil
}

// NewPDF returns a document written to out on Close.
func NewPDF(out io.WriteCloser) *PDF {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("liftplot", true)
	pdf.SetTitle("Training report", true)
	return &PDF{
		pdf: pdf,
		out: out,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// AddChart draws a chart on a new page.
func (d *PDF) AddChart(c model.Chart) error {
	if len(c.Points) == 0 {
		return fmt.Errorf("chart %q has no points", c.Title)
	}
	d.pdf.AddPage()
	pageW, pageH := d.pdf.GetPageSize()
	area := plotArea{
		left:   plotLeft,
		top:    plotTop,
		right:  pageW - pageMargin,
		bottom: pageH - plotBottomIn,
	}
	xs := newTimeScale(c.Points, area)
	ys := newValueScale(c.Values(), area)

	d.drawTitle(c.Title, pageW)
	d.drawYAxis(ys, area, c.Unit)
	d.drawBars(c.Points, xs, ys)
	d.drawTrend(c.Points, c.Trend, xs, ys, colorByName(c.Color))
	d.drawXAxis(xs, area)

	if d.pdf.Err() {
		return d.pdf.Error()
	}
	d.pages++
	return nil
}

// Close finalizes the PDF and closes the underlying writer.
func (d *PDF) Close() error {
	err := d.pdf.Output(d.out)
	return multierr.Append(err, d.out.Close())
}

func (d *PDF) drawTitle(title string, pageW float64) {
	d.pdf.SetFont("Helvetica", "B", titleSize)
	d.pdf.SetTextColor(axisColor.r, axisColor.g, axisColor.b)
	d.pdf.SetXY(pageMargin, pageMargin-2)
	d.pdf.CellFormat(pageW-2*pageMargin, 8, d.tr(title), "", 0, "C", false, 0, "")
}

func (d *PDF) drawYAxis(ys valueScale, area plotArea, unit string) {
	d.pdf.SetFont("Helvetica", "", labelSize)
	d.pdf.SetLineWidth(axisWidth)
	for _, v := range ys.ticks(yTicks) {
		y := ys.pos(v)
		d.pdf.SetDrawColor(gridColor.r, gridColor.g, gridColor.b)
		d.pdf.Line(area.left, y, area.right, y)
		label := stats.FormatTick(v, ys.hi-ys.lo)
		w := d.pdf.GetStringWidth(label)
		d.pdf.Text(area.left-w-2, y+1, label)
	}
	d.pdf.SetDrawColor(axisColor.r, axisColor.g, axisColor.b)
	d.pdf.Line(area.left, area.top, area.left, area.bottom)
	if unit == "" {
		return
	}
	label := d.tr(unit)
	x := pageMargin
	y := (area.top+area.bottom)/2 + d.pdf.GetStringWidth(label)/2
	d.pdf.TransformBegin()
	d.pdf.TransformRotate(90, x, y)
	d.pdf.Text(x, y, label)
	d.pdf.TransformEnd()
}

func (d *PDF) drawBars(points []model.Point, xs timeScale, ys valueScale) {
	d.pdf.SetFillColor(barColor.r, barColor.g, barColor.b)
	width := xs.barWidth()
	for _, p := range points {
		top := ys.pos(p.Value)
		h := ys.pos(ys.lo) - top
		if h <= 0 {
			continue
		}
		d.pdf.Rect(xs.pos(p.Date)-width/2, top, width, h, "F")
	}
}

func (d *PDF) drawTrend(points []model.Point, trend []float64, xs timeScale, ys valueScale, c rgb) {
	if len(trend) != len(points) || len(points) == 0 {
		return
	}
	d.pdf.SetDrawColor(c.r, c.g, c.b)
	d.pdf.SetLineWidth(trendWidth)
	d.pdf.SetLineCapStyle("round")
	prevX, prevY := xs.pos(points[0].Date), ys.clampedPos(trend[0])
	for i := 1; i < len(points); i++ {
		x, y := xs.pos(points[i].Date), ys.clampedPos(trend[i])
		d.pdf.Line(prevX, prevY, x, y)
		prevX, prevY = x, y
	}
	d.pdf.SetLineCapStyle("butt")
}

func (d *PDF) drawXAxis(xs timeScale, area plotArea) {
	d.pdf.SetLineWidth(axisWidth)
	d.pdf.SetDrawColor(axisColor.r, axisColor.g, axisColor.b)
	d.pdf.Line(area.left, area.bottom, area.right, area.bottom)
	d.pdf.SetFont("Helvetica", "", labelSize)
	for _, t := range stats.MonthTicks(xs.from, xs.to, maxXTicks) {
		x := xs.pos(t)
		if x < area.left || x > area.right {
			continue
		}
		d.pdf.Line(x, area.bottom, x, area.bottom+1.5)
		label := t.Format(tickLayout)
		w := d.pdf.GetStringWidth(label)
		y := area.bottom + 4
		d.pdf.TransformBegin()
		d.pdf.TransformRotate(30, x, y)
		d.pdf.Text(x-w, y, label)
		d.pdf.TransformEnd()
	}
}

type plotArea struct {
	left, top, right, bottom float64
}

// timeScale maps dates onto the horizontal axis, padded by half a bar.
type timeScale struct {
	from, to time.Time
	days     float64
	n        int
	area     plotArea
}

func newTimeScale(points []model.Point, area plotArea) timeScale {
	from, to := points[0].Date, points[0].Date
	for _, p := range points[1:] {
		if p.Date.Before(from) {
			from = p.Date
		}
		if p.Date.After(to) {
			to = p.Date
		}
	}
	pad := time.Duration(float64(barWidthDays(len(points))) / 2 * float64(dayDuration))
	from = from.Add(-pad)
	to = to.Add(pad)
	return timeScale{
		from: from,
		to:   to,
		days: math.Max(to.Sub(from).Hours()/24, 1),
		n:    len(points),
		area: area,
	}
}

func (s timeScale) pos(t time.Time) float64 {
	offset := t.Sub(s.from).Hours() / 24
	return s.area.left + offset/s.days*(s.area.right-s.area.left)
}

func (s timeScale) barWidth() float64 {
	return float64(barWidthDays(s.n)) / s.days * (s.area.right - s.area.left)
}

// barWidthDays keeps bars visible on long histories.
func barWidthDays(n int) int {
	if n <= 0 {
		return 2
	}
	w := int(math.Round(50.0 / float64(n)))
	if w < 2 {
		return 2
	}
	return w
}

// valueScale maps values onto the vertical axis.
type valueScale struct {
	lo, hi float64
	area   plotArea
}

func newValueScale(values []float64, area plotArea) valueScale {
	lo, hi := stats.ValueRange(values)
	return valueScale{lo: lo, hi: hi, area: area}
}

func (s valueScale) pos(v float64) float64 {
	frac := (v - s.lo) / (s.hi - s.lo)
	return s.area.bottom - frac*(s.area.bottom-s.area.top)
}

func (s valueScale) clampedPos(v float64) float64 {
	return s.pos(math.Max(s.lo, math.Min(s.hi, v)))
}

func (s valueScale) ticks(n int) []float64 {
	if n < 2 {
		return []float64{s.lo}
	}
	step := (s.hi - s.lo) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = s.lo + step*float64(i)
	}
	return out
}
