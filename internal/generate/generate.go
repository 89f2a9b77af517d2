// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate turns plot directives into images. Each supported kind
// samples its expressions over a grid and hands the numbers to a Renderer.
package generate

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pdiddy/docbuild/internal/render"
	"github.com/pdiddy/docbuild/pkg/types"
)

var (
	// ErrUnsupportedKind is returned for a directive whose kind has no generator.
	ErrUnsupportedKind = errors.New("unsupported plot kind")

	// ErrMissingParam is returned when a required expression parameter is absent.
	ErrMissingParam = errors.New("missing required parameter")

	// ErrInvalidParam is returned in strict mode for an unparseable number.
	ErrInvalidParam = errors.New("invalid parameter")
)

// Renderer draws sampled data to an image file.
type Renderer interface {
	Curve(path string, xs, ys []float64, opts render.Options) error
	Field(path string, xs, ys []float64, u, v [][]float64, opts render.Options) error
}

// Generator renders directives one at a time.
type Generator struct {
	renderer   Renderer
	root       string
	strictness types.Strictness
	log        *slog.Logger
	notices    []types.Notice
}

// New creates a Generator. Relative directive paths resolve against root;
// an empty root means the process working directory.
func New(r Renderer, root string, strictness types.Strictness, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{renderer: r, root: root, strictness: strictness, log: log}
}

// Generate renders one directive. Unsupported kinds and missing required
// expressions are errors; the caller is expected to stop at the first one.
func (g *Generator) Generate(d types.Directive) error {
	p := newParams(d, g.strictness)
	path := g.Resolve(d.File)

	var err error
	switch d.Kind.Normalize() {
	case types.KindFunc2D:
		err = g.func2d(path, p)
	case types.KindVector2D:
		err = g.vector2d(path, p)
	default:
		return fmt.Errorf("%w: %q; use kind=%s or kind=%s", ErrUnsupportedKind, d.Kind, types.KindFunc2D, types.KindVector2D)
	}

	for _, n := range p.notices {
		g.log.Debug("parameter defaulted", "file", d.File, "key", n.Key, "notice", n.Message)
	}
	g.notices = append(g.notices, p.notices...)
	return err
}

// numericKeys lists the optional number parameters of each kind.
var numericKeys = map[types.Kind]struct{ floats, ints []string }{
	types.KindFunc2D:   {floats: []string{"xmin", "xmax"}, ints: []string{"n"}},
	types.KindVector2D: {floats: []string{"xmin", "xmax", "ymin", "ymax"}, ints: []string{"n"}},
}

// Check parses the number parameters of d without sampling or rendering.
// In strict mode it returns the error Generate would return for an
// unparseable or negative number; otherwise it only rejects a negative n.
// Unknown kinds pass and are left to Generate.
func (g *Generator) Check(d types.Directive) error {
	keys, ok := numericKeys[d.Kind.Normalize()]
	if !ok {
		return nil
	}
	p := newParams(d, g.strictness)
	for _, k := range keys.floats {
		if _, err := p.float(k, 0); err != nil {
			return err
		}
	}
	for _, k := range keys.ints {
		n, err := p.int(k, 0)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%w: %s=%d must be non-negative", ErrInvalidParam, k, n)
		}
	}
	return nil
}

// Notices returns the soft conditions recorded so far.
func (g *Generator) Notices() []types.Notice {
	return g.notices
}

// Resolve returns path joined to the generator root when it is relative.
func (g *Generator) Resolve(path string) string {
	if g.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(g.root, path)
}

func (g *Generator) func2d(path string, p *params) error {
	spec, err := parseFunc2D(p)
	if err != nil {
		return err
	}
	c := spec.Sample()
	g.log.Debug("sampled function", "expr", spec.Expr.String(), "n", len(c.X), "xmin", spec.XMin, "xmax", spec.XMax)
	return g.renderer.Curve(path, c.X, c.Y, spec.renderOptions())
}

func (g *Generator) vector2d(path string, p *params) error {
	spec, err := parseVector2D(p)
	if err != nil {
		return err
	}
	f := spec.Sample()
	g.log.Debug("sampled field", "fx", spec.Fx.String(), "fy", spec.Fy.String(), "n", spec.N)
	return g.renderer.Field(path, f.X, f.Y, f.U, f.V, spec.renderOptions())
}
