// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks that every image a document references exists
// before it is handed to the converter.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// MissingImagesError lists every referenced image that was not found.
type MissingImagesError struct {
	Paths []string
}

func (e *MissingImagesError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d referenced image(s) not found:", len(e.Paths))
	for _, p := range e.Paths {
		b.WriteString("\n  - ")
		b.WriteString(p)
	}
	return b.String()
}

// MissingImages returns the paths, in input order, for which no file exists.
// Relative paths resolve against root.
func MissingImages(root string, paths []string) []string {
	return lo.Filter(paths, func(p string, _ int) bool {
		_, err := os.Stat(resolve(root, p))
		return err != nil
	})
}

// Images returns a *MissingImagesError naming every missing path once, or
// nil when all referenced images exist.
func Images(root string, paths []string) error {
	missing := MissingImages(root, lo.Uniq(paths))
	if len(missing) == 0 {
		return nil
	}
	return &MissingImagesError{Paths: missing}
}

func resolve(root, p string) string {
	if root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

