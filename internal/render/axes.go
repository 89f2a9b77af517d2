// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// zeroTolerance matches the absolute tolerance used to decide that a tick
// sits at the origin.
const zeroTolerance = 1e-8

// labelInset is the fraction of each visible span the vertical extremity
// labels are moved inward by.
const labelInset = 0.02

var (
	spineStyle = draw.LineStyle{Color: color.Black, Width: vg.Points(0.8)}
	gridStyle  = draw.LineStyle{Color: color.Gray{Y: 0xb0}, Width: vg.Points(0.5)}
	tickLength = vg.Points(3.5)
	tickPad    = vg.Points(2)
)

// formatTick labels a major tick like %g, leaving the tick at the origin
// blank.
func formatTick(v float64) string {
	if math.Abs(v) <= zeroTolerance {
		return ""
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// axisRange is the visible interval of one axis.
type axisRange struct {
	min, max float64
}

func (r axisRange) span() float64 { return r.max - r.min }

func (r axisRange) contains(v float64) bool { return v >= r.min && v <= r.max }

func (r axisRange) clamp(v float64) float64 {
	return math.Max(r.min, math.Min(r.max, v))
}

// dataRange returns the finite extent of vals.
func dataRange(vals []float64) (axisRange, bool) {
	r := axisRange{min: math.Inf(1), max: math.Inf(-1)}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		r.min = math.Min(r.min, v)
		r.max = math.Max(r.max, v)
	}
	return r, r.min <= r.max
}

// viewRange widens a data extent into the visible interval: degenerate
// extents are expanded by 5% of their magnitude (or to ±0.05 at zero), then
// 5% of the span is added on each side.
func viewRange(r axisRange, ok bool) axisRange {
	if !ok {
		return axisRange{min: -1, max: 1}
	}
	if r.span() == 0 {
		if r.min == 0 {
			r = axisRange{min: -0.05, max: 0.05}
		} else {
			r = axisRange{min: r.min - 0.05*math.Abs(r.min), max: r.max + 0.05*math.Abs(r.max)}
		}
	}
	m := 0.05 * r.span()
	return axisRange{min: r.min - m, max: r.max + m}
}

// originAxes draws the grid, both spines through the origin, their ticks,
// and the four extremity labels. The plot's own axes are hidden.
type originAxes struct {
	x, y   axisRange
	opts   Options
	ticker plot.Ticker
}

func newOriginAxes(x, y axisRange, opts Options) *originAxes {
	return &originAxes{x: x, y: y, opts: opts, ticker: stepTicks{n: maxTickIntervals}}
}

// maxTickIntervals bounds the number of gaps between major ticks.
const maxTickIntervals = 8

// stepTicks places major ticks on multiples of the smallest step of the
// form 1, 2, 2.5 or 5 times a power of ten that splits the range into at
// most n intervals.
type stepTicks struct {
	n int
}

// Ticks implements plot.Ticker.
func (s stepTicks) Ticks(min, max float64) []plot.Tick {
	if !(max > min) || s.n < 1 {
		return nil
	}
	raw := (max - min) / float64(s.n)
	mag := math.Pow10(int(math.Floor(math.Log10(raw))))
	step := 10 * mag
	for _, m := range []float64{1, 2, 2.5, 5} {
		if m*mag >= raw {
			step = m * mag
			break
		}
	}

	var ticks []plot.Tick
	for k := math.Ceil(min / step); k*step <= max; k++ {
		v := k * step
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', 6, 64)})
	}
	return ticks
}

// Plot implements plot.Plotter.
func (a *originAxes) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	xticks := a.majorTicks(a.x)
	yticks := a.majorTicks(a.y)

	for _, t := range xticks {
		x := trX(t.Value)
		c.StrokeLine2(gridStyle, x, c.Min.Y, x, c.Max.Y)
	}
	for _, t := range yticks {
		y := trY(t.Value)
		c.StrokeLine2(gridStyle, c.Min.X, y, c.Max.X, y)
	}

	x0 := trX(a.x.clamp(0))
	y0 := trY(a.y.clamp(0))
	c.StrokeLine2(spineStyle, c.Min.X, y0, c.Max.X, y0)
	c.StrokeLine2(spineStyle, x0, c.Min.Y, x0, c.Max.Y)

	base := plt.X.Tick.Label
	for _, t := range xticks {
		x := trX(t.Value)
		c.StrokeLine2(spineStyle, x, y0, x, y0-tickLength)
		if t.Label != "" {
			fillText(c, base, vg.Point{X: x, Y: y0 - tickLength - tickPad}, t.Label, text.XCenter, text.YTop)
		}
	}
	for _, t := range yticks {
		y := trY(t.Value)
		c.StrokeLine2(spineStyle, x0, y, x0-tickLength, y)
		if t.Label != "" {
			fillText(c, base, vg.Point{X: x0 - tickLength - tickPad, Y: y}, t.Label, text.XRight, text.YCenter)
		}
	}

	padX := labelInset * a.x.span()
	padY := labelInset * a.y.span()
	fillText(c, base, vg.Point{X: trX(a.x.min), Y: y0}, a.opts.NegX, text.XRight, text.YCenter)
	fillText(c, base, vg.Point{X: trX(a.x.max), Y: y0}, a.opts.PosX, text.XLeft, text.YCenter)
	fillText(c, base, vg.Point{X: trX(padX), Y: trY(a.y.max - padY)}, a.opts.PosY, text.XLeft, text.YBottom)
	fillText(c, base, vg.Point{X: trX(padX), Y: trY(a.y.min + padY)}, a.opts.NegY, text.XLeft, text.YTop)
}

// majorTicks returns the visible major ticks of r, relabeled by formatTick.
func (a *originAxes) majorTicks(r axisRange) []plot.Tick {
	var out []plot.Tick
	for _, t := range a.ticker.Ticks(r.min, r.max) {
		if t.IsMinor() || !r.contains(t.Value) {
			continue
		}
		out = append(out, plot.Tick{Value: t.Value, Label: formatTick(t.Value)})
	}
	return out
}

func fillText(c draw.Canvas, base text.Style, pt vg.Point, txt string, xa text.XAlignment, ya text.YAlignment) {
	if txt == "" {
		return
	}
	sty := base
	sty.XAlign = xa
	sty.YAlign = ya
	c.FillText(sty, pt, txt)
}
