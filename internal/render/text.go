package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/verte-zerg/liftplot/internal/model"
	"github.com/verte-zerg/liftplot/internal/stats"
)

const (
	textPlotHeight = 12
	pageBreak      = "\f"
)

// Text writes charts as braille line plots, separated by form feeds.
type Text struct {
	w      *bufio.Writer
	closer io.Closer
	width  int
	color  bool
	pages  int
}

// CreateText creates the output file and returns an empty text document.
func CreateText(path string, width int) (*Text, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	doc := NewText(f, width, false)
	doc.closer = f
	return doc, nil
}

// NewText returns a text document writing to w. A width of 0 uses the
// terminal width.
func NewText(w io.Writer, width int, color bool) *Text {
	return &Text{w: bufio.NewWriter(w), width: width, color: color}
}

// AddChart writes a chart as a new page.
func (d *Text) AddChart(c model.Chart) error {
	if d.pages > 0 {
		if _, err := fmt.Fprintln(d.w, pageBreak); err != nil {
			return err
		}
	}
	if err := stats.RenderChartWithSize(d.w, c, d.width, textPlotHeight, d.color); err != nil {
		return err
	}
	d.pages++
	return nil
}

// Close flushes buffered output and closes the file, if one is owned.
func (d *Text) Close() error {
	err := d.w.Flush()
	if d.closer != nil {
		err = multierr.Append(err, d.closer.Close())
	}
	return err
}
