// Package chart renders the weekly revenue trend: the per-weekday normal
// range band with the current and comparison week lines on top of it.
package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/syrlavka/digest/internal/domain/band"
	"github.com/syrlavka/digest/internal/domain/model"
	"github.com/syrlavka/digest/internal/domain/timeframe"
)

// Figure geometry: a 12x4 inch panel rasterized at 300 DPI.
const (
	defaultWidth  = 12 * vg.Inch
	defaultHeight = 4 * vg.Inch
	defaultDPI    = 300
)

// labelOffsetFrac places the numeric point labels this fraction of the
// value range above each current-week point.
const labelOffsetFrac = 0.04

// Chart strings.
const (
	titleText        = "Выручка по дням недели"
	xLabelText       = "День недели"
	yLabelText       = "Выручка, руб."
	bandLegendText   = "Диапазон нормы"
	currentLegend    = "Текущая неделя"
	comparisonLegend = "Предыдущая неделя"
)

var (
	bandFillColor   = color.NRGBA{B: 255, A: 13}
	currentColor    = color.NRGBA{R: 31, G: 119, B: 180, A: 255}
	comparisonColor = color.NRGBA{R: 128, G: 128, B: 128, A: 179}
)

// Renderer produces the encoded trend chart.
type Renderer struct {
	width  vg.Length
	height vg.Length
	dpi    float64
}

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithSize overrides the figure size in inches.
func WithSize(widthIn, heightIn float64) Option {
	return func(r *Renderer) {
		if widthIn > 0 && heightIn > 0 {
			r.width = vg.Length(widthIn) * vg.Inch
			r.height = vg.Length(heightIn) * vg.Inch
		}
	}
}

// WithDPI overrides the raster resolution.
func WithDPI(dpi float64) Option {
	return func(r *Renderer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

// New builds a Renderer with the default figure geometry.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: defaultWidth, height: defaultHeight, dpi: defaultDPI}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws the trend chart as a PNG. The x-axis follows the weekdays of
// the comparison week in chronological order of its actual dates; weekdays
// absent from a week are omitted from that line. A nil band map degrades to
// a band-less chart. With no rows in either week it returns ErrNoData.
func (r *Renderer) Render(reports []model.Report, w timeframe.Windows, bands map[time.Weekday]band.WeekdayBand) ([]byte, error) {
	var current, comparison []model.Report
	for _, rep := range reports {
		switch {
		case w.Current.Contains(rep.Day):
			current = append(current, rep)
		case w.Comparison.Contains(rep.Day):
			comparison = append(comparison, rep)
		}
	}

	axis := comparison
	if len(axis) == 0 {
		axis = current
	}
	if len(axis) == 0 {
		return nil, ErrNoData
	}

	// Category positions keyed by weekday, in date order of the axis week.
	pos := make(map[time.Weekday]float64, len(axis))
	labels := make([]string, 0, len(axis))
	for _, rep := range axis {
		wd := rep.Day.Weekday()
		if _, seen := pos[wd]; seen {
			continue
		}
		pos[wd] = float64(len(labels))
		labels = append(labels, band.WeekdayLabel(wd))
	}

	p := plot.New()
	p.Title.Text = titleText
	p.X.Label.Text = xLabelText
	p.Y.Label.Text = yLabelText
	p.NominalX(labels...)
	p.Add(plotter.NewGrid())

	currentXYs := seriesPoints(current, pos)
	comparisonXYs := seriesPoints(comparison, pos)

	if poly := bandPolygon(axis, pos, bands); poly != nil {
		p.Add(poly)
		p.Legend.Add(bandLegendText, poly)
	}

	if len(comparisonXYs) > 0 {
		line, points, err := plotter.NewLinePoints(comparisonXYs)
		if err != nil {
			return nil, fmt.Errorf("%w: comparison line: %v", ErrRender, err)
		}
		line.Color = comparisonColor
		line.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		points.Color = comparisonColor
		points.Shape = draw.CircleGlyph{}
		p.Add(line, points)
		p.Legend.Add(comparisonLegend, line, points)
	}

	if len(currentXYs) > 0 {
		line, points, err := plotter.NewLinePoints(currentXYs)
		if err != nil {
			return nil, fmt.Errorf("%w: current line: %v", ErrRender, err)
		}
		line.Color = currentColor
		points.Color = currentColor
		points.Shape = draw.CircleGlyph{}
		p.Add(line, points)
		p.Legend.Add(currentLegend, line, points)

		pointLabels, err := valueLabels(currentXYs, comparisonXYs, bands)
		if err != nil {
			return nil, fmt.Errorf("%w: point labels: %v", ErrRender, err)
		}
		p.Add(pointLabels)
	}

	p.Legend.Top = true

	canvas := vgimg.NewWith(vgimg.UseWH(r.width, r.height), vgimg.UseDPI(int(r.dpi)))
	p.Draw(draw.New(canvas))

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: canvas}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: png encode: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// seriesPoints maps one week's reports onto axis positions. Rows whose
// weekday has no axis position are dropped.
func seriesPoints(reports []model.Report, pos map[time.Weekday]float64) plotter.XYs {
	var xys plotter.XYs
	for _, rep := range reports {
		x, ok := pos[rep.Day.Weekday()]
		if !ok {
			continue
		}
		xys = append(xys, plotter.XY{X: x, Y: rep.Revenue.InexactFloat64()})
	}
	return xys
}

// bandPolygon builds the shaded normal-range area over the axis weekdays
// that have a band. Fewer than two banded weekdays draw nothing.
func bandPolygon(axis []model.Report, pos map[time.Weekday]float64, bands map[time.Weekday]band.WeekdayBand) *plotter.Polygon {
	var upper, lower plotter.XYs
	seen := make(map[time.Weekday]bool)
	for _, rep := range axis {
		wd := rep.Day.Weekday()
		if seen[wd] {
			continue
		}
		seen[wd] = true
		b, ok := bands[wd]
		if !ok {
			continue
		}
		upper = append(upper, plotter.XY{X: pos[wd], Y: b.QHigh})
		lower = append(lower, plotter.XY{X: pos[wd], Y: b.QLow})
	}
	if len(upper) < 2 {
		return nil
	}

	ring := make(plotter.XYs, 0, len(upper)+len(lower))
	ring = append(ring, upper...)
	for i := len(lower) - 1; i >= 0; i-- {
		ring = append(ring, lower[i])
	}
	poly, err := plotter.NewPolygon(ring)
	if err != nil {
		return nil
	}
	poly.Color = bandFillColor
	poly.LineStyle.Color = color.NRGBA{}
	poly.LineStyle.Width = 0
	return poly
}

// valueLabels annotates each current-week point with its revenue, offset
// above the point by a fraction of the plotted value range.
func valueLabels(current, comparison plotter.XYs, bands map[time.Weekday]band.WeekdayBand) (*plotter.Labels, error) {
	minY, maxY := current[0].Y, current[0].Y
	for _, xy := range append(append(plotter.XYs{}, current...), comparison...) {
		if xy.Y < minY {
			minY = xy.Y
		}
		if xy.Y > maxY {
			maxY = xy.Y
		}
	}
	for _, b := range bands {
		if b.QLow < minY {
			minY = b.QLow
		}
		if b.QHigh > maxY {
			maxY = b.QHigh
		}
	}
	offset := (maxY - minY) * labelOffsetFrac
	if offset == 0 {
		offset = 1
	}

	xyl := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(current)),
		Labels: make([]string, len(current)),
	}
	for i, xy := range current {
		xyl.XYs[i] = plotter.XY{X: xy.X, Y: xy.Y + offset}
		xyl.Labels[i] = fmt.Sprintf("%.0f", xy.Y)
	}
	return plotter.NewLabels(xyl)
}
