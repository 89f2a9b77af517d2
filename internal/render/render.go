// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render draws function curves and vector fields to image files
// using gonum/plot. Both plot types share the same frame: spines crossing
// at the origin, a light grid, tick labels with the origin label omitted,
// and a label at each end of both axes.
package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Options controls the text drawn around a plot.
type Options struct {
	// Title is drawn above the plot when non-empty.
	Title string

	// XLabel and YLabel are conventional axis titles below and left of the
	// plot, drawn when non-empty.
	XLabel, YLabel string

	// PosX, NegX, PosY, NegY label the extremities of the axes.
	PosX, NegX string
	PosY, NegY string
}

var curveColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

// Plotter renders plots at a fixed size and resolution.
type Plotter struct {
	Width, Height vg.Length
	DPI           int

	// Margin surrounds the plot while drawing so that labels placed beyond
	// the data area are not clipped; raster output is cropped afterwards.
	Margin vg.Length

	// Glyph draws one field vector. Nil means ArrowGlyph.
	Glyph func(c vg.Canvas, sty draw.LineStyle, v plotter.XY)
}

// New returns a Plotter producing 6.4×4.8 inch images at 300 DPI.
func New() *Plotter {
	return &Plotter{
		Width:  6.4 * vg.Inch,
		Height: 4.8 * vg.Inch,
		DPI:    300,
		Margin: 0.5 * vg.Inch,
		Glyph:  ArrowGlyph,
	}
}

// Curve draws y(x) to path. NaN samples split the curve into separate
// segments, so undefined regions appear as gaps.
func (r *Plotter) Curve(path string, xs, ys []float64, opts Options) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("curve has %d x values and %d y values", len(xs), len(ys))
	}

	p := newPlot(opts)

	segments := finiteRuns(xs, ys)
	for _, seg := range segments {
		l, err := plotter.NewLine(seg)
		if err != nil {
			return fmt.Errorf("building curve segment: %w", err)
		}
		l.LineStyle.Color = curveColor
		l.LineStyle.Width = vg.Points(1.5)
		p.Add(l)
	}

	xr, yr := curveRanges(xs, ys)
	return r.finish(p, path, xr, yr, opts)
}

// Field draws one arrow per mesh point to path. u[i][j] and v[i][j] are
// the components at (xs[j], ys[i]).
func (r *Plotter) Field(path string, xs, ys []float64, u, v [][]float64, opts Options) error {
	if len(u) != len(ys) || len(v) != len(ys) {
		return fmt.Errorf("field has %d rows, want %d", len(u), len(ys))
	}
	for i := range u {
		if len(u[i]) != len(xs) || len(v[i]) != len(xs) {
			return fmt.Errorf("field row %d has %d columns, want %d", i, len(u[i]), len(xs))
		}
	}

	p := newPlot(opts)

	grid := fieldGrid{xs: xs, ys: ys, u: u, v: v}
	if grid.drawable() {
		f := plotter.NewField(grid)
		f.LineStyle.Color = color.Black
		f.LineStyle.Width = vg.Points(1)
		f.DrawGlyph = r.Glyph
		if f.DrawGlyph == nil {
			f.DrawGlyph = ArrowGlyph
		}
		p.Add(f)
	}

	xr, okX := dataRange(xs)
	yr, okY := dataRange(ys)
	return r.finish(p, path, fieldRange(xs, viewRange(xr, okX)), fieldRange(ys, viewRange(yr, okY)), opts)
}

const (
	arrowHeadLength = 0.3
	arrowHeadWidth  = 0.12
)

// ArrowGlyph draws a field vector as a shaft with a filled head. The field
// plotter has already rotated and scaled the canvas so that the vector runs
// from the origin to (1, 0).
func ArrowGlyph(c vg.Canvas, sty draw.LineStyle, v plotter.XY) {
	if math.Hypot(v.X, v.Y) == 0 {
		return
	}
	c.SetColor(sty.Color)

	var shaft vg.Path
	shaft.Move(vg.Point{})
	shaft.Line(vg.Point{X: 1 - arrowHeadLength})
	c.Stroke(shaft)

	var head vg.Path
	head.Move(vg.Point{X: 1})
	head.Line(vg.Point{X: 1 - arrowHeadLength, Y: arrowHeadWidth})
	head.Line(vg.Point{X: 1 - arrowHeadLength, Y: -arrowHeadWidth})
	head.Close()
	c.Fill(head)
}

// fieldRange widens view to cover the mesh cells around vals. The field
// plotter skips any cell reaching outside the visible area.
func fieldRange(vals []float64, view axisRange) axisRange {
	n := len(vals)
	if n < 2 {
		return view
	}
	first := vals[0] - (vals[1]-vals[0])/2
	last := vals[n-1] + (vals[n-1]-vals[n-2])/2
	return axisRange{
		min: math.Min(view.min, math.Min(first, last)),
		max: math.Max(view.max, math.Max(first, last)),
	}
}

func newPlot(opts Options) *plot.Plot {
	p := plot.New()
	p.HideAxes()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	return p
}

// finish adds the origin frame, fixes the visible ranges and writes the file.
func (r *Plotter) finish(p *plot.Plot, path string, xr, yr axisRange, opts Options) error {
	p.Add(newOriginAxes(xr, yr, opts))
	p.X.Min, p.X.Max = xr.min, xr.max
	p.Y.Min, p.Y.Max = yr.min, yr.max
	return r.save(p, path)
}

// curveRanges returns the visible ranges for a curve: the extent of the
// finite points, widened by viewRange.
func curveRanges(xs, ys []float64) (axisRange, axisRange) {
	var fx, fy []float64
	for i := range xs {
		if isFinite(xs[i]) && isFinite(ys[i]) {
			fx = append(fx, xs[i])
			fy = append(fy, ys[i])
		}
	}
	if len(fx) == 0 {
		fx = xs
	}
	xr, okX := dataRange(fx)
	yr, okY := dataRange(fy)
	return viewRange(xr, okX), viewRange(yr, okY)
}

// finiteRuns splits the samples into maximal runs of finite points. Runs of
// a single point are dropped since a line needs two.
func finiteRuns(xs, ys []float64) []plotter.XYs {
	var runs []plotter.XYs
	var cur plotter.XYs
	flush := func() {
		if len(cur) >= 2 {
			runs = append(runs, cur)
		}
		cur = nil
	}
	for i := range xs {
		if !isFinite(xs[i]) || !isFinite(ys[i]) {
			flush()
			continue
		}
		cur = append(cur, plotter.XY{X: xs[i], Y: ys[i]})
	}
	flush()
	return runs
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// fieldGrid adapts a sampled mesh to plotter.FieldXY.
type fieldGrid struct {
	xs, ys []float64
	u, v   [][]float64
}

func (g fieldGrid) Dims() (c, r int) { return len(g.xs), len(g.ys) }

func (g fieldGrid) Vector(c, r int) plotter.XY {
	return plotter.XY{X: g.u[r][c], Y: g.v[r][c]}
}

func (g fieldGrid) X(c int) float64 { return g.xs[c] }

func (g fieldGrid) Y(r int) float64 { return g.ys[r] }

// drawable reports whether the field plotter can scale the mesh: it needs
// at least two columns and rows and one non-zero vector.
func (g fieldGrid) drawable() bool {
	if len(g.xs) < 2 || len(g.ys) < 2 {
		return false
	}
	for i := range g.u {
		for j := range g.u[i] {
			if g.u[i][j] != 0 || g.v[i][j] != 0 {
				return true
			}
		}
	}
	return false
}
