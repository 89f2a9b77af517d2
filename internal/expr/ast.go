// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expr

import (
	"math"
	"strconv"
	"strings"
)

// node is one element of a parsed expression. Evaluation reads variable
// values from vals by slot index.
type node interface {
	eval(vals []float64) float64
	String() string
}

type nodeNumber struct{ v float64 }

func (n nodeNumber) eval([]float64) float64 { return n.v }

func (n nodeNumber) String() string { return strconv.FormatFloat(n.v, 'g', -1, 64) }

type nodeConst struct {
	name string
	v    float64
}

func (n nodeConst) eval([]float64) float64 { return n.v }

func (n nodeConst) String() string { return n.name }

type nodeVar struct {
	name string
	slot int
}

func (n nodeVar) eval(vals []float64) float64 { return vals[n.slot] }

func (n nodeVar) String() string { return n.name }

type nodeUnary struct {
	op byte
	x  node
}

func (n nodeUnary) eval(vals []float64) float64 {
	v := n.x.eval(vals)
	if n.op == '-' {
		return -v
	}
	return v
}

func (n nodeUnary) String() string { return "(" + string(n.op) + n.x.String() + ")" }

// binary operators; '^' is power and 'f' is floor division.
type nodeBinary struct {
	op          byte
	left, right node
}

func (n nodeBinary) eval(vals []float64) float64 {
	a := n.left.eval(vals)
	b := n.right.eval(vals)
	switch n.op {
	case '+':
		return a + b
	case '-':
		return a - b
	case '*':
		return a * b
	case '/':
		return a / b
	case 'f':
		return math.Floor(a / b)
	case '%':
		return floorMod(a, b)
	case '^':
		return math.Pow(a, b)
	}
	return math.NaN()
}

func (n nodeBinary) String() string {
	op := string(n.op)
	switch n.op {
	case '^':
		op = "**"
	case 'f':
		op = "//"
	}
	return "(" + n.left.String() + " " + op + " " + n.right.String() + ")"
}

type nodeCall struct {
	fn   *function
	args []node
}

func (n nodeCall) eval(vals []float64) float64 {
	var buf [2]float64
	args := buf[:len(n.args)]
	for i, a := range n.args {
		args[i] = a.eval(vals)
	}
	return n.fn.call(args)
}

func (n nodeCall) String() string {
	parts := make([]string, len(n.args))
	for i, a := range n.args {
		parts[i] = a.String()
	}
	return n.fn.name + "(" + strings.Join(parts, ", ") + ")"
}

// floorMod returns a modulo b with the sign of b, matching Python's %.
func floorMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}
