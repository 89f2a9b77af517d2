// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func TestFormatTick(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, ""},
		{1e-9, ""},
		{-1e-9, ""},
		{1, "1"},
		{-2.5, "-2.5"},
		{0.1, "0.1"},
		{1234567, "1.23457e+06"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatTick(tt.in), "formatTick(%v)", tt.in)
	}
}

func TestViewRange(t *testing.T) {
	tests := []struct {
		name string
		in   axisRange
		ok   bool
		want axisRange
	}{
		{"no data", axisRange{}, false, axisRange{-1, 1}},
		{"span", axisRange{0, 10}, true, axisRange{-0.5, 10.5}},
		{"degenerate at zero", axisRange{0, 0}, true, axisRange{-0.055, 0.055}},
		{"degenerate positive", axisRange{2, 2}, true, axisRange{1.89, 2.11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := viewRange(tt.in, tt.ok)
			assert.InDelta(t, tt.want.min, got.min, 1e-12)
			assert.InDelta(t, tt.want.max, got.max, 1e-12)
		})
	}
}

func TestDataRangeSkipsNonFinite(t *testing.T) {
	r, ok := dataRange([]float64{math.NaN(), -2, math.Inf(1), 3})
	require.True(t, ok)
	assert.Equal(t, axisRange{-2, 3}, r)

	_, ok = dataRange([]float64{math.NaN(), math.Inf(-1)})
	assert.False(t, ok)
}

func TestFiniteRuns(t *testing.T) {
	nan := math.NaN()
	xs := []float64{0, 1, 2, 3, 4, 5, 6}
	ys := []float64{0, 1, nan, 3, nan, 5, 6}

	runs := finiteRuns(xs, ys)
	require.Len(t, runs, 2)
	assert.Equal(t, 2, runs[0].Len())
	assert.Equal(t, 2, runs[1].Len())
	assert.Equal(t, 5.0, runs[1][0].X)
}

func TestCurveRangesIgnoreUndefinedSamples(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{1, math.Inf(1), 3}

	xr, yr := curveRanges(xs, ys)
	assert.InDelta(t, -0.1, xr.min, 1e-12)
	assert.InDelta(t, 2.1, xr.max, 1e-12)
	assert.InDelta(t, 0.9, yr.min, 1e-12)
	assert.InDelta(t, 3.1, yr.max, 1e-12)
}

func TestMajorTicksBlankAtOrigin(t *testing.T) {
	a := newOriginAxes(axisRange{-5, 5}, axisRange{-5, 5}, Options{})
	ticks := a.majorTicks(axisRange{-5, 5})
	require.NotEmpty(t, ticks)

	sawOrigin := false
	for _, tk := range ticks {
		if tk.Value == 0 {
			sawOrigin = true
			assert.Empty(t, tk.Label)
			continue
		}
		assert.NotEmpty(t, tk.Label)
	}
	assert.True(t, sawOrigin)
}

func TestStepTicks(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		want     []float64
	}{
		{name: "default func2d x range", min: -5.5, max: 5.5, want: []float64{-4, -2, 0, 2, 4}},
		{name: "pole example", min: -0.3, max: 6.3, want: []float64{0, 1, 2, 3, 4, 5, 6}},
		{name: "default vector2d range", min: -3.3, max: 3.3, want: []float64{-3, -2, -1, 0, 1, 2, 3}},
		{name: "parabola y range", min: -1.25, max: 26.25, want: []float64{0, 5, 10, 15, 20, 25}},
		{name: "fractional steps", min: -0.1, max: 1.1, want: []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticks := stepTicks{n: maxTickIntervals}.Ticks(tt.min, tt.max)
			require.Len(t, ticks, len(tt.want))
			for i, tk := range ticks {
				assert.InDelta(t, tt.want[i], tk.Value, 1e-9)
				assert.False(t, tk.IsMinor())
			}
		})
	}

	assert.Empty(t, stepTicks{n: maxTickIntervals}.Ticks(1, 1))
}

func TestFieldGridDrawable(t *testing.T) {
	zero := [][]float64{{0, 0}, {0, 0}}
	assert.False(t, fieldGrid{xs: []float64{0, 1}, ys: []float64{0, 1}, u: zero, v: zero}.drawable())
	assert.False(t, fieldGrid{xs: []float64{0}, ys: []float64{0}, u: [][]float64{{1}}, v: [][]float64{{1}}}.drawable())

	u := [][]float64{{0, 1}, {0, 0}}
	assert.True(t, fieldGrid{xs: []float64{0, 1}, ys: []float64{0, 1}, u: u, v: zero}.drawable())
}

func TestContentBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.White)
		}
	}
	_, ok := contentBounds(img, color.White)
	assert.False(t, ok)

	img.Set(5, 3, color.Black)
	img.Set(12, 6, color.Black)
	box, ok := contentBounds(img, color.White)
	require.True(t, ok)
	assert.Equal(t, image.Rect(5, 3, 13, 7), box)

	cropped := tightCrop(img, color.White, 2)
	assert.Equal(t, image.Rect(3, 1, 15, 9), cropped.Bounds())

	cropped = tightCrop(img, color.White, 100)
	assert.Equal(t, img.Bounds(), cropped.Bounds())
}

func TestWithPNGDensity(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))

	out, err := withPNGDensity(buf.Bytes(), 300)
	require.NoError(t, err)
	assert.Equal(t, "pHYs", string(out[37:41]))
	// 300 dpi is 11811 pixels per metre.
	assert.Equal(t, []byte{0, 0, 0x2e, 0x23}, out[41:45])

	_, err = png.Decode(bytes.NewReader(out))
	assert.NoError(t, err)

	_, err = withPNGDensity([]byte("not a png"), 300)
	assert.Error(t, err)
}

func TestCurveWritesPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img", "curve.png")

	xs := []float64{-2, -1, 0, 1, 2}
	ys := []float64{4, 1, math.NaN(), 1, 4}
	r := New()
	r.DPI = 50
	require.NoError(t, r.Curve(path, xs, ys, Options{PosX: "x", NegX: "-x", PosY: "f(x)", NegY: "-f(x)"}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
	assert.Less(t, img.Bounds().Dx(), int(6.4*50)+1)
}

func TestFieldWritesSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.svg")
	xs := []float64{-1, 0, 1}
	ys := []float64{-1, 0, 1}
	u := [][]float64{{-1, 0, 1}, {-1, 0, 1}, {-1, 0, 1}}
	v := [][]float64{{1, 1, 1}, {0, 0, 0}, {-1, -1, -1}}

	require.NoError(t, New().Field(path, xs, ys, u, v, Options{Title: "Campo vectorial", XLabel: "x", YLabel: "y"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

// recordingCanvas captures the paths a glyph draws.
type recordingCanvas struct {
	vg.Canvas
	col     color.Color
	strokes []vg.Path
	fills   []vg.Path
}

func (c *recordingCanvas) SetColor(col color.Color) { c.col = col }
func (c *recordingCanvas) Stroke(p vg.Path)         { c.strokes = append(c.strokes, p) }
func (c *recordingCanvas) Fill(p vg.Path)           { c.fills = append(c.fills, p) }

func TestArrowGlyphDrawsHead(t *testing.T) {
	c := &recordingCanvas{}
	ArrowGlyph(c, draw.LineStyle{Color: color.Black}, plotter.XY{X: 0.5, Y: 0.5})

	assert.Equal(t, color.Black, c.col)
	require.Len(t, c.strokes, 1)
	require.Len(t, c.fills, 1)
	head := c.fills[0]
	require.NotEmpty(t, head)
	assert.Equal(t, vg.Point{X: 1}, head[0].Pos)
	assert.Equal(t, vg.Point{X: 1 - arrowHeadLength, Y: arrowHeadWidth}, head[1].Pos)

	zero := &recordingCanvas{}
	ArrowGlyph(zero, draw.LineStyle{}, plotter.XY{})
	assert.Empty(t, zero.strokes)
	assert.Empty(t, zero.fills)
}

func TestFieldDrawsEveryArrow(t *testing.T) {
	xs := []float64{-1, 0, 1}
	ys := []float64{-1, 0, 1}
	u := [][]float64{{-1, -1, -1}, {0, 0, 0}, {1, 1, 1}}
	v := [][]float64{{1, 0, -1}, {1, 0, -1}, {1, 0, -1}}

	var drawn int
	r := New()
	r.DPI = 50
	r.Glyph = func(c vg.Canvas, sty draw.LineStyle, vec plotter.XY) {
		if math.Hypot(vec.X, vec.Y) > 0 {
			drawn++
		}
		ArrowGlyph(c, sty, vec)
	}

	path := filepath.Join(t.TempDir(), "rot.png")
	require.NoError(t, r.Field(path, xs, ys, u, v, Options{Title: "Rotación"}))
	assert.Equal(t, 8, drawn, "edge arrows stay inside the visible area")
	assert.FileExists(t, path)
}

func TestFieldRange(t *testing.T) {
	got := fieldRange([]float64{-1, 0, 1}, axisRange{-1.1, 1.1})
	assert.Equal(t, axisRange{-1.5, 1.5}, got)

	got = fieldRange([]float64{-3, 0, 3}, axisRange{-10, 10})
	assert.Equal(t, axisRange{-10, 10}, got)

	got = fieldRange([]float64{0}, axisRange{-1, 1})
	assert.Equal(t, axisRange{-1, 1}, got)
}

func TestFieldRejectsShapeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.png")
	err := New().Field(path, []float64{0, 1}, []float64{0, 1}, [][]float64{{0, 1}}, [][]float64{{0, 1}}, Options{})
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.bmp")
	err := New().Curve(path, []float64{0, 1}, []float64{0, 1}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image format")
}
