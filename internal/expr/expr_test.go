// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expr

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	tests := []struct {
		src  string
		x    float64
		want float64
	}{
		{src: "x*x", x: 3, want: 9},
		{src: "x**2", x: -3, want: 9},
		{src: "x^2", x: 4, want: 16},
		{src: "-x**2", x: 3, want: -9},
		{src: "(-x)**2", x: 3, want: 9},
		{src: "2**3**2", want: 512},
		{src: "2**-1", want: 0.5},
		{src: "1 + 2 * 3", want: 7},
		{src: "(1 + 2) * 3", want: 9},
		{src: "10 - 4 - 3", want: 3},
		{src: "12 / 4 / 3", want: 1},
		{src: "7 // 2", want: 3},
		{src: "-7 // 2", want: -4},
		{src: "-7 % 3", want: 2},
		{src: "7 % -3", want: -2},
		{src: "--x", x: 2, want: 2},
		{src: "+x", x: 2, want: 2},
		{src: "sin(pi/2)", want: 1},
		{src: "cos(0)", want: 1},
		{src: "exp(0) + log(e)", want: 2},
		{src: "sqrt(16) + abs(-2)", want: 6},
		{src: "pow(2, 10)", want: 1024},
		{src: "atan2(1, 1) * 4", want: math.Pi},
		{src: "np.sin(np.pi/2)", want: 1},
		{src: "1.5e2 + .5", want: 150.5},
		{src: "3.", want: 3},
		{src: "x*exp(-x**2/2)", x: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := Parse(tt.src, "x")
			require.NoError(t, err)
			assert.InDelta(t, tt.want, e.Eval(tt.x), 1e-12)
		})
	}
}

func TestEval_NonFinite(t *testing.T) {
	tests := []struct {
		src   string
		x     float64
		check func(float64) bool
	}{
		{src: "1/(x-3)", x: 3, check: func(v float64) bool { return math.IsInf(v, 0) }},
		{src: "0/x", x: 0, check: math.IsNaN},
		{src: "log(x)", x: -1, check: math.IsNaN},
		{src: "log(x)", x: 0, check: func(v float64) bool { return math.IsInf(v, -1) }},
		{src: "sqrt(x)", x: -4, check: math.IsNaN},
		{src: "x % 0", x: 5, check: math.IsNaN},
		{src: "1e999", check: func(v float64) bool { return math.IsInf(v, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := Parse(tt.src, "x")
			require.NoError(t, err)
			v := e.Eval(tt.x)
			assert.True(t, tt.check(v), "got %v", v)
		})
	}
}

func TestEval_TwoVariables(t *testing.T) {
	fx := MustParse("y", "x", "y")
	fy := MustParse("-x", "x", "y")
	assert.Equal(t, 2.0, fx.Eval(1, 2))
	assert.Equal(t, -1.0, fy.Eval(1, 2))

	// Missing values read as zero.
	assert.Equal(t, 0.0, fx.Eval(1))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{name: "empty", src: "   ", wantMsg: "empty expression"},
		{name: "unknown variable", src: "x + z", wantMsg: `unknown name "z"`},
		{name: "unknown function", src: "arcsin(x)", wantMsg: `unknown function "arcsin"`},
		{name: "python builtin", src: "__import__(x)", wantMsg: "unknown function"},
		{name: "attribute access", src: "os.system(x)", wantMsg: "unknown function"},
		{name: "function without call", src: "sin + 1", wantMsg: "used without arguments"},
		{name: "constant as call", src: "pi(2)", wantMsg: "unknown function"},
		{name: "wrong arity", src: "sin(x, x)", wantMsg: "sin takes 1 argument(s), got 2"},
		{name: "missing argument", src: "pow(x)", wantMsg: "pow takes 2 argument(s), got 1"},
		{name: "unclosed paren", src: "(x + 1", wantMsg: "expected ')'"},
		{name: "unclosed call", src: "sin(x", wantMsg: "to close sin("},
		{name: "trailing operator", src: "x +", wantMsg: "end of expression"},
		{name: "dangling token", src: "x 2", wantMsg: `unexpected "2"`},
		{name: "illegal character", src: "x & 1", wantMsg: `invalid character "&"`},
		{name: "string literal", src: `"x"`, wantMsg: "invalid character"},
		{name: "lone dot", src: ".", wantMsg: "invalid character"},
		{name: "comparison", src: "x == 1", wantMsg: "invalid character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, "x")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{src: "-x**2", want: "(-(x ** 2))"},
		{src: "1 + 2 * x", want: "(1 + (2 * x))"},
		{src: "np.sin(x) // 2", want: "(sin(x) // 2)"},
		{src: "pow(x, pi)", want: "pow(x, pi)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.src, "x").String())
		})
	}
}

func TestAccessors(t *testing.T) {
	e := MustParse("x + y", "x", "y")
	assert.Equal(t, "x + y", e.Source())
	assert.Equal(t, []string{"x", "y"}, e.Vars())
	assert.Contains(t, Functions(), "sqrt")
	assert.Len(t, Functions(), 9)
}
