// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Kind identifies which plot generator handles a directive.
type Kind string

const (
	KindFunc2D   Kind = "func2d"
	KindVector2D Kind = "vector2d"
)

// Normalize returns the kind lowercased with surrounding whitespace removed,
// which is the form generators dispatch on.
func (k Kind) Normalize() Kind {
	return Kind(strings.ToLower(strings.TrimSpace(string(k))))
}

// Directive is one plot request extracted from a <!-- plot ... --> block.
type Directive struct {
	// Kind selects the generator (func2d or vector2d).
	Kind Kind `json:"kind" yaml:"kind"`

	// File is the destination image path, relative to the build working
	// directory unless absolute.
	File string `json:"file" yaml:"file"`

	// Params holds every key=value pair of the block, kind and file included.
	Params map[string]string `json:"params" yaml:"params"`

	// Raw is the unparsed block body.
	Raw string `json:"-" yaml:"-"`
}

// Param returns the trimmed value for key, or "" when absent.
func (d Directive) Param(key string) string {
	return strings.TrimSpace(d.Params[key])
}

// Lookup returns the raw value for key and whether it was present.
func (d Directive) Lookup(key string) (string, bool) {
	v, ok := d.Params[key]
	return v, ok
}

// NoticeCode classifies a soft condition absorbed by the lenient policy.
type NoticeCode string

const (
	NoticeMalformedLine NoticeCode = "malformed-line"
	NoticeIncomplete    NoticeCode = "directive-incomplete"
	NoticeDefaulted     NoticeCode = "param-defaulted"
)

// Notice records a soft condition: something the build tolerated instead of
// failing on.
type Notice struct {
	Code    NoticeCode `json:"code" yaml:"code"`
	Message string     `json:"message" yaml:"message"`

	// Block is the 1-based index of the annotation block, or 0 when the
	// notice is not tied to a block.
	Block int `json:"block,omitempty" yaml:"block,omitempty"`

	// Key is the parameter involved, if any.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`
}

func (n Notice) String() string {
	return string(n.Code) + ": " + n.Message
}
