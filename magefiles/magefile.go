//go:build mage

// Package main contains Mage build targets for docbuild developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "docbuild"
	cmdPkg  = "./cmd/docbuild"
)

// sampleDoc is written by Init when no guia.md exists.
const sampleDoc = `# Guía de ejemplo

<!-- plot
kind=func2d
file=graficas/parabola.png
expr=x**2 - 2
xmin=-3
xmax=3
-->
![Parábola](graficas/parabola.png)

<!-- plot
kind=vector2d
file=graficas/rotacion.png
Fx=-y
Fy=x
title="Campo de rotación"
-->
![Campo de rotación](graficas/rotacion.png)
`

// Init creates the graficas/ directory and a sample guia.md to build.
func Init() error {
	if err := os.MkdirAll("graficas", 0o755); err != nil {
		return fmt.Errorf("creating graficas: %w", err)
	}
	if _, err := os.Stat("guia.md"); err == nil {
		fmt.Println("guia.md already exists; leaving it untouched.")
		return nil
	}
	if err := os.WriteFile("guia.md", []byte(sampleDoc), 0o644); err != nil {
		return fmt.Errorf("writing guia.md: %w", err)
	}
	fmt.Println("Wrote sample guia.md.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Guide builds the binary and runs it on guia.md in the current directory.
func Guide() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "--source", "guia.md", "--output", "guia.docx")
}

// Clean removes build output and generated plots.
func Clean() error {
	for _, p := range []string{binDir, "graficas", "guia.docx"} {
		if err := sh.Rm(p); err != nil {
			return err
		}
	}
	return nil
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}
	docWords, err := countDocWords(".")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Words (documentation):           %d\n", docWords)
	return nil
}

// countGoLines walks the directory tree and counts non-blank lines in Go files.
// If testOnly is true, count only _test.go files; otherwise count non-test .go files.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return skipHidden(root, path, info)
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				total++
			}
		}
		return nil
	})
	return total, err
}

// countDocWords walks the tree and counts words in .md and .yaml files.
func countDocWords(root string) (int, error) {
	total := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return skipHidden(root, path, info)
		}
		ext := filepath.Ext(path)
		if ext != ".md" && ext != ".yaml" && ext != ".yml" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		total += len(strings.Fields(string(data)))
		return nil
	})
	return total, err
}

// skipHidden skips directories below root whose names start with "." or "_".
func skipHidden(root, path string, info os.FileInfo) error {
	name := info.Name()
	if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
		return filepath.SkipDir
	}
	return nil
}
