// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/docbuild/internal/expr"
	"github.com/pdiddy/docbuild/pkg/types"
)

// params reads typed values from a directive. Unparseable optional numbers
// fall back to their default and are recorded as notices, unless strict is
// set, in which case they are errors.
type params struct {
	d       types.Directive
	strict  bool
	notices []types.Notice
}

func newParams(d types.Directive, strictness types.Strictness) *params {
	return &params{d: d, strict: strictness == types.Strict}
}

func (p *params) float(key string, def float64) (float64, error) {
	raw, ok := p.d.Lookup(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return p.fallback(key, raw, strconv.FormatFloat(def, 'g', -1, 64), def)
	}
	return v, nil
}

func (p *params) int(key string, def int) (int, error) {
	raw, ok := p.d.Lookup(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		f, ferr := p.fallback(key, raw, strconv.Itoa(def), float64(def))
		return int(f), ferr
	}
	return v, nil
}

func (p *params) fallback(key, raw, shown string, def float64) (float64, error) {
	if p.strict {
		return 0, fmt.Errorf("%w: %s=%q in %s is not a number", ErrInvalidParam, key, raw, p.d.File)
	}
	p.notices = append(p.notices, types.Notice{
		Code:    types.NoticeDefaulted,
		Message: fmt.Sprintf("%s: %s=%q is not a number, using %s", p.d.File, key, raw, shown),
		Key:     key,
	})
	return def, nil
}

func (p *params) str(key, def string) string {
	if v, ok := p.d.Lookup(key); ok {
		return v
	}
	return def
}

// expr parses the required expression parameter key over vars.
func (p *params) expr(key string, vars ...string) (*expr.Expr, error) {
	src := p.d.Param(key)
	if src == "" {
		return nil, fmt.Errorf("%w: %q is required for kind=%s (%s)", ErrMissingParam, key, p.d.Kind.Normalize(), p.d.File)
	}
	e, err := expr.Parse(src, vars...)
	if err != nil {
		return nil, fmt.Errorf("%s=%q in %s: %w", key, src, p.d.File, err)
	}
	return e, nil
}
