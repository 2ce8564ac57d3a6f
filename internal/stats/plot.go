package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/verte-zerg/liftplot/internal/model"
)

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	yLabelWidth         = 8
	axisSeparator       = " │ "
	axisCorner          = " └─"
	monthLayout         = "01.2006"
	maxMonthTicks       = 24
	colorReset          = "\x1b[0m"
	barColorCode        = "\x1b[90m"
	terminalWidthBackup = 80
)

// Trend colors by chart color name.
var trendColorCodes = map[string]string{
	ColorDaily:       "\x1b[32m",
	ColorWeekly:      "\x1b[35m",
	ColorWeeklyDays:  "\x1b[31m",
	ColorEstimate:    "\x1b[34m",
	ColorExerciseVol: "\x1b[33m",
}

// ValueRange returns the vertical range of a chart: 5% headroom above the
// largest value and 5% below the smallest, never below zero.
func ValueRange(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 1
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo = math.Max(0, lo*0.95)
	hi *= 1.05
	if hi-lo < 1e-9 {
		hi = lo + 1
	}
	return lo, hi
}

// MonthTicks returns the first day of each month in [from, to], thinned
// to at most limit dates.
func MonthTicks(from, to time.Time, limit int) []time.Time {
	start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	if start.Before(from) {
		start = start.AddDate(0, 1, 0)
	}
	var months []time.Time
	for t := start; !t.After(to); t = t.AddDate(0, 1, 0) {
		months = append(months, t)
	}
	if limit <= 0 || len(months) <= limit {
		return months
	}
	step := (len(months) + limit - 1) / limit
	out := make([]time.Time, 0, limit)
	for i := 0; i < len(months); i += step {
		out = append(out, months[i])
	}
	return out
}

// FormatTick formats an axis value, with one decimal on narrow ranges.
func FormatTick(v, span float64) string {
	if span < 10 {
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%.0f", v)
}

// chartFrame maps dates and values onto braille dot coordinates.
type chartFrame struct {
	from   time.Time
	days   float64
	lo, hi float64
	dotsX  int
	dotsY  int
}

func newChartFrame(c model.Chart, cols, rows int) chartFrame {
	from, to := c.Points[0].Date, c.Points[0].Date
	for _, p := range c.Points[1:] {
		if p.Date.Before(from) {
			from = p.Date
		}
		if p.Date.After(to) {
			to = p.Date
		}
	}
	lo, hi := ValueRange(c.Values())
	return chartFrame{
		from:  from,
		days:  math.Max(to.Sub(from).Hours()/24, 1),
		lo:    lo,
		hi:    hi,
		dotsX: cols * 2,
		dotsY: rows * 4,
	}
}

func (f chartFrame) x(t time.Time) int {
	offset := t.Sub(f.from).Hours() / 24
	return int(math.Round(offset / f.days * float64(f.dotsX-1)))
}

// y counts dots from the top; values outside the range are clamped.
func (f chartFrame) y(v float64) int {
	v = math.Max(f.lo, math.Min(f.hi, v))
	frac := (v - f.lo) / (f.hi - f.lo)
	return int(math.Round((1 - frac) * float64(f.dotsY-1)))
}

func (f chartFrame) valueAtRow(row, rows int) float64 {
	if rows <= 1 {
		return f.hi
	}
	return f.hi - (f.hi-f.lo)*float64(row)/float64(rows-1)
}

// canvas holds two layers of braille cells: value bars and the trend line.
type canvas struct {
	bars  [][]uint8
	trend [][]uint8
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{
		bars:  make([][]uint8, rows),
		trend: make([][]uint8, rows),
	}
	for y := 0; y < rows; y++ {
		c.bars[y] = make([]uint8, cols)
		c.trend[y] = make([]uint8, cols)
	}
	return c
}

func (c *canvas) bar(x, top, bottom int) {
	for y := top; y <= bottom; y++ {
		setDot(c.bars, x, y)
	}
}

func (c *canvas) line(x0, y0, x1, y1 int) {
	drawLine(x0, y0, x1, y1, func(x, y int) {
		setDot(c.trend, x, y)
	})
}

// cell merges both layers; the trend wins the color.
func (c *canvas) cell(col, row int) (rune, bool) {
	t := c.trend[row][col]
	return brailleFromMask(c.bars[row][col] | t), t != 0
}

// plotChart renders a chart as gray bars per point with the trend drawn
// over them, on a date axis with monthly labels.
func plotChart(w io.Writer, title string, c model.Chart, cols, rows int, forceColor bool) error {
	if len(c.Points) == 0 {
		return nil
	}
	if rows <= 0 {
		rows = defaultPlotHeight
	}
	if cols <= 0 {
		cols = plotWidthFor(terminalWidth())
	}
	cols = max(cols, minPlotWidth)

	frame := newChartFrame(c, cols, rows)
	cv := newCanvas(cols, rows)
	for _, p := range c.Points {
		cv.bar(frame.x(p.Date), frame.y(p.Value), frame.dotsY-1)
	}
	if len(c.Trend) == len(c.Points) {
		px, py := frame.x(c.Points[0].Date), frame.y(c.Trend[0])
		for i := 1; i < len(c.Points); i++ {
			x, y := frame.x(c.Points[i].Date), frame.y(c.Trend[i])
			cv.line(px, py, x, y)
			px, py = x, y
		}
	}

	useColor := shouldUseColor(w, forceColor)
	trendCode := trendColorCodes[c.Color]
	if trendCode == "" {
		trendCode = trendColorCodes[ColorEstimate]
	}

	lines := make([]string, 0, rows+4)
	if title != "" {
		lines = append(lines, title)
	}
	span := frame.hi - frame.lo
	for row := 0; row < rows; row++ {
		label := ""
		if row == 0 || row == rows-1 || row == rows/2 {
			label = FormatTick(frame.valueAtRow(row, rows), span)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%*s%s", yLabelWidth, label, axisSeparator)
		for col := 0; col < cols; col++ {
			ch, isTrend := cv.cell(col, row)
			switch {
			case !useColor || ch == brailleFromMask(0):
				b.WriteRune(ch)
			case isTrend:
				b.WriteString(trendCode + string(ch) + colorReset)
			default:
				b.WriteString(barColorCode + string(ch) + colorReset)
			}
		}
		lines = append(lines, b.String())
	}
	lines = append(lines, strings.Repeat(" ", yLabelWidth)+axisCorner+strings.Repeat("─", cols-1))
	lines = append(lines, monthLabels(frame, cols))
	lines = append(lines, chartLegend(c, useColor, trendCode))
	lines = append(lines, "")

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// monthLabels places month labels under the axis, dropping any that would
// overlap the previous one. Short charts get their starting month.
func monthLabels(f chartFrame, cols int) string {
	to := f.from.Add(time.Duration(f.days * 24 * float64(time.Hour)))
	ticks := MonthTicks(f.from, to, maxMonthTicks)
	if len(ticks) == 0 {
		ticks = []time.Time{f.from}
	}
	row := []rune(strings.Repeat(" ", cols))
	next := 0
	for _, t := range ticks {
		col := f.x(t) / 2
		label := t.Format(monthLayout)
		if col < next || col+len(label) > cols {
			continue
		}
		copy(row[col:], []rune(label))
		next = col + len(label) + 1
	}
	pad := strings.Repeat(" ", yLabelWidth+utf8.RuneCountInString(axisSeparator))
	return strings.TrimRight(pad+string(row), " ")
}

func chartLegend(c model.Chart, useColor bool, trendCode string) string {
	bars := string(brailleFromMask(0x47)) + " value"
	trend := string(brailleFromMask(0x1b)) + " trend"
	if useColor {
		bars = barColorCode + bars + colorReset
		trend = trendCode + trend + colorReset
	}
	legend := "Legend: " + bars + "  " + trend
	if c.Unit != "" {
		legend += "  (" + c.Unit + ")"
	}
	return legend
}

// plotWidthFor returns the number of plot columns that fit in totalWidth
// next to the value labels.
func plotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-yLabelWidth-utf8.RuneCountInString(axisSeparator), minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// drawLine walks a Bresenham line between two dots.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Braille cells are 2 dots wide and 4 tall; bit order follows U+2800.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func setDot(cells [][]uint8, x, y int) {
	if x < 0 || y < 0 || y/4 >= len(cells) || x/2 >= len(cells[y/4]) {
		return
	}
	cells[y/4][x/2] |= dotBits[y%4][x%2]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
