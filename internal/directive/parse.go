// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package directive

import (
	"fmt"
	"strings"

	"github.com/google/shlex"

	"github.com/pdiddy/docbuild/pkg/types"
)

// ParseBlock parses the body of one annotation block into a parameter map.
// Each non-blank, non-comment line of the form key=value contributes one
// entry; later keys overwrite earlier ones. Lines without '=' are skipped and
// reported as notices. ParseBlock never fails.
func ParseBlock(text string) (map[string]string, []types.Notice) {
	params := make(map[string]string)
	var notices []types.Notice

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			notices = append(notices, types.Notice{
				Code:    types.NoticeMalformedLine,
				Message: fmt.Sprintf("line %d has no '=': %q", i+1, line),
			})
			continue
		}

		params[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}

	return params, notices
}

// unquote interprets a raw value as a shell word list and returns its first
// word, so title="Hello World" yields Hello World. When the value cannot be
// tokenized (an unterminated quote, say) the raw value is returned as is.
func unquote(raw string) string {
	if raw == "" {
		return ""
	}

	// shlex treats a leading '#' as a comment; values such as #ff0000 are
	// literal here.
	in := raw
	if strings.HasPrefix(in, "#") {
		in = `\` + in
	}

	words, err := shlex.Split(in)
	if err != nil {
		return raw
	}
	if len(words) == 0 {
		return ""
	}
	return words[0]
}
