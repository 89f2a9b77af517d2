// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expr

import (
	"math"
	"sort"
	"strings"
)

// function is a named numeric function callable from an expression.
type function struct {
	name  string
	arity int
	f1    func(float64) float64
	f2    func(float64, float64) float64
}

func (f *function) call(args []float64) float64 {
	if f.arity == 1 {
		return f.f1(args[0])
	}
	return f.f2(args[0], args[1])
}

var functions = map[string]*function{
	"sin":   {name: "sin", arity: 1, f1: math.Sin},
	"cos":   {name: "cos", arity: 1, f1: math.Cos},
	"tan":   {name: "tan", arity: 1, f1: math.Tan},
	"exp":   {name: "exp", arity: 1, f1: math.Exp},
	"log":   {name: "log", arity: 1, f1: math.Log},
	"sqrt":  {name: "sqrt", arity: 1, f1: math.Sqrt},
	"abs":   {name: "abs", arity: 1, f1: math.Abs},
	"pow":   {name: "pow", arity: 2, f2: math.Pow},
	"atan2": {name: "atan2", arity: 2, f2: math.Atan2},
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// numpyPrefix is accepted in front of any namespace name so expressions
// written as np.sin(x) keep working.
const numpyPrefix = "np."

func resolveName(name string) string {
	return strings.TrimPrefix(name, numpyPrefix)
}

// Functions returns the names of the callable functions, sorted.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for n := range functions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
