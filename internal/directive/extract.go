// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package directive finds plot directives and image references in a
// Markdown document.
//
// A directive is an HTML comment whose body starts with the token plot:
//
//	<!-- plot
//	kind=func2d
//	file=graficas/parabola.png
//	expr=x**2
//	-->
//
// Image references use the Markdown embedding syntax ![alt](path "title").
package directive

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/docbuild/pkg/types"
)

var (
	blockPattern = regexp.MustCompile(`(?is)<!--\s*plot\s*(.*?)-->`)
	imagePattern = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)
)

// Result holds everything extracted from one document.
type Result struct {
	// Directives are the complete plot blocks, in document order.
	Directives []types.Directive

	// Images are the referenced image paths, in document order, duplicates kept.
	Images []string

	// Notices are the soft conditions met while parsing blocks.
	Notices []types.Notice
}

// Extract scans markdown for plot blocks and image references. Blocks
// without a kind or file are dropped and recorded as notices.
func Extract(markdown string) Result {
	var res Result

	for i, m := range blockPattern.FindAllStringSubmatch(markdown, -1) {
		block := i + 1
		raw := m[1]

		params, notices := ParseBlock(raw)
		for _, n := range notices {
			n.Block = block
			res.Notices = append(res.Notices, n)
		}

		kind := strings.TrimSpace(params["kind"])
		file := strings.TrimSpace(params["file"])
		if kind == "" || file == "" {
			res.Notices = append(res.Notices, types.Notice{
				Code:    types.NoticeIncomplete,
				Message: fmt.Sprintf("plot block %d skipped: %s", block, missingKeys(kind, file)),
				Block:   block,
			})
			continue
		}

		res.Directives = append(res.Directives, types.Directive{
			Kind:   types.Kind(kind),
			File:   file,
			Params: params,
			Raw:    raw,
		})
	}

	res.Images = ImagePaths(markdown)
	return res
}

// ImagePaths returns the path of every ![alt](path) reference. An optional
// title after the path is discarded.
func ImagePaths(markdown string) []string {
	var paths []string
	for _, m := range imagePattern.FindAllStringSubmatch(markdown, -1) {
		p := strings.TrimSpace(m[1])
		if i := strings.IndexFunc(p, unicode.IsSpace); i >= 0 {
			p = p[:i]
		}
		paths = append(paths, p)
	}
	return paths
}

func missingKeys(kind, file string) string {
	switch {
	case kind == "" && file == "":
		return "missing kind and file"
	case kind == "":
		return "missing kind"
	default:
		return "missing file"
	}
}
