// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expr

import (
	"errors"
	"strconv"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIllegal
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokFloorDiv
	tokPercent
	tokPow
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of expression"
	default:
		return strconv.Quote(t.text)
	}
}

type lexer struct {
	s string
	i int
}

func (l *lexer) next() token {
	for l.i < len(l.s) {
		r, size := utf8.DecodeRuneInString(l.s[l.i:])
		if !unicode.IsSpace(r) {
			break
		}
		l.i += size
	}
	if l.i >= len(l.s) {
		return token{kind: tokEOF, pos: l.i}
	}

	start := l.i
	single := func(k tokenKind) token {
		l.i++
		return token{kind: k, text: l.s[start:l.i], pos: start}
	}

	switch l.s[l.i] {
	case '+':
		return single(tokPlus)
	case '-':
		return single(tokMinus)
	case '*':
		if l.peek(1) == '*' {
			l.i += 2
			return token{kind: tokPow, text: "**", pos: start}
		}
		return single(tokStar)
	case '/':
		if l.peek(1) == '/' {
			l.i += 2
			return token{kind: tokFloorDiv, text: "//", pos: start}
		}
		return single(tokSlash)
	case '%':
		return single(tokPercent)
	case '^':
		return single(tokPow)
	case '(':
		return single(tokLParen)
	case ')':
		return single(tokRParen)
	case ',':
		return single(tokComma)
	}

	r, size := utf8.DecodeRuneInString(l.s[l.i:])
	if isIdentStart(r) {
		l.i += size
		l.scanIdent()
		return token{kind: tokIdent, text: l.s[start:l.i], pos: start}
	}
	if r == '.' || isDigit(r) {
		l.i = scanNumber(l.s, l.i)
		txt := l.s[start:l.i]
		f, err := strconv.ParseFloat(txt, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return token{kind: tokIllegal, text: txt, pos: start}
		}
		return token{kind: tokNumber, text: txt, num: f, pos: start}
	}

	l.i += size
	return token{kind: tokIllegal, text: string(r), pos: start}
}

func (l *lexer) peek(off int) byte {
	if l.i+off < len(l.s) {
		return l.s[l.i+off]
	}
	return 0
}

// scanIdent consumes the rest of an identifier. A dot followed by an
// identifier start continues it, so np.sin lexes as one token.
func (l *lexer) scanIdent() {
	for l.i < len(l.s) {
		r, size := utf8.DecodeRuneInString(l.s[l.i:])
		switch {
		case isIdentContinue(r):
			l.i += size
		case r == '.':
			nr, _ := utf8.DecodeRuneInString(l.s[l.i+size:])
			if !isIdentStart(nr) {
				return
			}
			l.i += size
		default:
			return
		}
	}
}

func scanNumber(s string, i int) int {
	start := i
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(rune(s[i])) {
			i++
		}
	}
	if i == start || (i == start+1 && s[start] == '.') {
		return i
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(rune(s[k])) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
