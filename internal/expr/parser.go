// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package expr implements the small arithmetic language used by plot
// directives.
//
// An expression is parsed once into a tree of typed nodes (numbers, named
// constants, variables, operators, function calls) and then evaluated for
// every grid point. Only the declared variables, the constants pi and e, and
// the functions listed by Functions are visible; any other name is rejected
// at parse time. Operators and precedence follow Python:
//
//	+ -          addition, subtraction
//	* / // %     multiplication, division, floor division, floored modulo
//	-x +x        unary sign
//	** ^         power (right-associative, binds tighter than a unary sign on its left)
//
// Evaluation follows IEEE-754 and never fails: 1/0 is +Inf, log(-1) is NaN.
package expr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse is wrapped by every error Parse returns.
var ErrParse = errors.New("expression error")

// Expr is a parsed expression bound to an ordered list of variables.
type Expr struct {
	src  string
	vars []string
	root node
}

// Parse parses src, allowing references to the named variables. The order of
// vars fixes the order of values passed to Eval.
func Parse(src string, vars ...string) (*Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrParse)
	}

	p := &parser{l: lexer{s: src}, vars: vars}
	p.next()

	root, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, p.unexpected()
	}

	return &Expr{src: src, vars: append([]string(nil), vars...), root: root}, nil
}

// MustParse is like Parse but panics on error. It is meant for tests and
// package-level constants.
func MustParse(src string, vars ...string) *Expr {
	e, err := Parse(src, vars...)
	if err != nil {
		panic(err)
	}
	return e
}

// Eval evaluates the expression with vals bound to the variables in the
// order given to Parse. Missing values read as zero.
func (e *Expr) Eval(vals ...float64) float64 {
	if len(vals) < len(e.vars) {
		padded := make([]float64, len(e.vars))
		copy(padded, vals)
		vals = padded
	}
	return e.root.eval(vals)
}

// Source returns the text the expression was parsed from.
func (e *Expr) Source() string { return e.src }

// Vars returns the variables the expression was bound to.
func (e *Expr) Vars() []string { return append([]string(nil), e.vars...) }

// String returns the fully parenthesized form of the expression.
func (e *Expr) String() string { return e.root.String() }

type parser struct {
	l    lexer
	cur  token
	vars []string
}

func (p *parser) next() { p.cur = p.l.next() }

func (p *parser) unexpected() error {
	if p.cur.kind == tokIllegal {
		return fmt.Errorf("%w: invalid character %s at offset %d", ErrParse, p.cur.describe(), p.cur.pos)
	}
	return fmt.Errorf("%w: unexpected %s at offset %d", ErrParse, p.cur.describe(), p.cur.pos)
}

func (p *parser) parseSum() (node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := p.cur.text[0]
		p.next()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = nodeBinary{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseProduct() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op byte
		switch p.cur.kind {
		case tokStar:
			op = '*'
		case tokSlash:
			op = '/'
		case tokFloorDiv:
			op = 'f'
		case tokPercent:
			op = '%'
		default:
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = nodeBinary{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := p.cur.text[0]
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return nodeUnary{op: op, x: x}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokPow {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return nodeBinary{op: '^', left: base, right: exp}, nil
}

func (p *parser) parsePrimary() (node, error) {
	switch p.cur.kind {
	case tokNumber:
		v := p.cur.num
		p.next()
		return nodeNumber{v: v}, nil
	case tokIdent:
		tok := p.cur
		p.next()
		if p.cur.kind == tokLParen {
			return p.parseCall(tok)
		}
		return p.resolveValue(tok)
	case tokLParen:
		p.next()
		ex, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ')' at offset %d", ErrParse, p.cur.pos)
		}
		p.next()
		return ex, nil
	default:
		return nil, p.unexpected()
	}
}

func (p *parser) resolveValue(tok token) (node, error) {
	name := resolveName(tok.text)
	for i, v := range p.vars {
		if v == name {
			return nodeVar{name: name, slot: i}, nil
		}
	}
	if c, ok := constants[name]; ok {
		return nodeConst{name: name, v: c}, nil
	}
	if _, ok := functions[name]; ok {
		return nil, fmt.Errorf("%w: function %s used without arguments at offset %d", ErrParse, name, tok.pos)
	}
	return nil, fmt.Errorf("%w: unknown name %q at offset %d (allowed: %s)",
		ErrParse, tok.text, tok.pos, strings.Join(p.allowedValues(), ", "))
}

func (p *parser) parseCall(tok token) (node, error) {
	name := resolveName(tok.text)
	fn, ok := functions[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown function %q at offset %d (allowed: %s)",
			ErrParse, tok.text, tok.pos, strings.Join(Functions(), ", "))
	}

	p.next() // consume '('
	var args []node
	if p.cur.kind != tokRParen {
		for {
			a, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.cur.kind != tokComma {
				break
			}
			p.next()
		}
	}
	if p.cur.kind != tokRParen {
		return nil, fmt.Errorf("%w: expected ')' to close %s( at offset %d", ErrParse, name, p.cur.pos)
	}
	p.next()

	if len(args) != fn.arity {
		return nil, fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrParse, name, fn.arity, len(args))
	}
	return nodeCall{fn: fn, args: args}, nil
}

func (p *parser) allowedValues() []string {
	out := append([]string(nil), p.vars...)
	return append(out, "pi", "e")
}
