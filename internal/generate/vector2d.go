// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"math"

	"github.com/pdiddy/docbuild/internal/expr"
	"github.com/pdiddy/docbuild/internal/render"
)

// Vector2D is a parsed vector2d directive: F(x, y) = (Fx, Fy) sampled on an
// N×N mesh.
type Vector2D struct {
	Fx, Fy     *expr.Expr
	XMin, XMax float64
	YMin, YMax float64
	N          int
	Title      string
}

// Field holds a sampled vector field. U[i][j] and V[i][j] are the
// components at (X[j], Y[i]). Non-finite components are zero.
type Field struct {
	X, Y []float64
	U, V [][]float64
}

func parseVector2D(p *params) (Vector2D, error) {
	fx, err := p.expr("Fx", "x", "y")
	if err != nil {
		return Vector2D{}, err
	}
	fy, err := p.expr("Fy", "x", "y")
	if err != nil {
		return Vector2D{}, err
	}
	spec := Vector2D{Fx: fx, Fy: fy, Title: p.str("title", "Campo vectorial")}

	for _, f := range []struct {
		key string
		def float64
		dst *float64
	}{
		{"xmin", -3.0, &spec.XMin},
		{"xmax", 3.0, &spec.XMax},
		{"ymin", -3.0, &spec.YMin},
		{"ymax", 3.0, &spec.YMax},
	} {
		if *f.dst, err = p.float(f.key, f.def); err != nil {
			return Vector2D{}, err
		}
	}
	if spec.N, err = p.int("n", 20); err != nil {
		return Vector2D{}, err
	}
	if spec.N < 0 {
		return Vector2D{}, fmt.Errorf("%w: n=%d must be non-negative", ErrInvalidParam, spec.N)
	}
	return spec, nil
}

// Sample evaluates both components on the mesh.
func (v Vector2D) Sample() Field {
	xs := Linspace(v.XMin, v.XMax, v.N)
	ys := Linspace(v.YMin, v.YMax, v.N)
	f := Field{
		X: xs,
		Y: ys,
		U: make([][]float64, len(ys)),
		V: make([][]float64, len(ys)),
	}
	for i, y := range ys {
		f.U[i] = make([]float64, len(xs))
		f.V[i] = make([]float64, len(xs))
		for j, x := range xs {
			f.U[i][j] = finiteOrZero(v.Fx.Eval(x, y))
			f.V[i][j] = finiteOrZero(v.Fy.Eval(x, y))
		}
	}
	return f
}

func (v Vector2D) renderOptions() render.Options {
	return render.Options{
		Title:  v.Title,
		XLabel: "x",
		YLabel: "y",
		PosX:   "x",
		NegX:   "-x",
		PosY:   "y",
		NegY:   "-y",
	}
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
