// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"math"

	"github.com/pdiddy/docbuild/internal/expr"
	"github.com/pdiddy/docbuild/internal/render"
)

// Func2D is a parsed func2d directive: y = expr(x) sampled on [XMin, XMax].
type Func2D struct {
	Expr       *expr.Expr
	XMin, XMax float64
	N          int

	// Title is accepted but not drawn; the f(x) extremity labels already
	// name the vertical axis.
	Title string

	XLabel string
	YLabel string
}

// Curve holds sampled points. Non-finite samples are NaN.
type Curve struct {
	X []float64
	Y []float64
}

func parseFunc2D(p *params) (Func2D, error) {
	e, err := p.expr("expr", "x")
	if err != nil {
		return Func2D{}, err
	}
	spec := Func2D{
		Expr:   e,
		Title:  p.str("title", "Gráfica"),
		XLabel: p.str("xlabel", "x"),
		YLabel: p.str("ylabel", "y"),
	}
	if spec.XMin, err = p.float("xmin", -5.0); err != nil {
		return Func2D{}, err
	}
	if spec.XMax, err = p.float("xmax", 5.0); err != nil {
		return Func2D{}, err
	}
	if spec.N, err = p.int("n", 400); err != nil {
		return Func2D{}, err
	}
	if spec.N < 0 {
		return Func2D{}, fmt.Errorf("%w: n=%d must be non-negative", ErrInvalidParam, spec.N)
	}
	return spec, nil
}

// Sample evaluates the expression at N evenly spaced points.
func (f Func2D) Sample() Curve {
	xs := Linspace(f.XMin, f.XMax, f.N)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		y := f.Expr.Eval(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			y = math.NaN()
		}
		ys[i] = y
	}
	return Curve{X: xs, Y: ys}
}

func (f Func2D) renderOptions() render.Options {
	return render.Options{
		PosX: f.XLabel,
		NegX: "-" + f.XLabel,
		PosY: "f(x)",
		NegY: "-f(x)",
	}
}
