// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Strictness selects how soft conditions (malformed block lines, incomplete
// directives, unparseable numeric parameters) are handled.
type Strictness string

const (
	// Lenient absorbs soft conditions: lines are skipped, directives dropped,
	// numbers defaulted.
	Lenient Strictness = "lenient"

	// Strict turns every soft condition into a fatal error.
	Strict Strictness = "strict"
)

// ConverterBackend identifies how pandoc is run.
type ConverterBackend string

const (
	BackendAuto      ConverterBackend = "auto"
	BackendPandoc    ConverterBackend = "pandoc"
	BackendContainer ConverterBackend = "container"
)

const (
	DefaultSource       = "guia.md"
	DefaultOutput       = "guia.docx"
	DefaultReferenceDoc = "PlantillaGuia.docx"
	DefaultPandocBin    = "pandoc"
	DefaultPandocImage  = "pandoc/core:latest"
	DefaultInputFormat  = "markdown+tex_math_single_backslash"
)

// ConverterConfig holds settings for the document conversion stage.
type ConverterConfig struct {
	// Backend selects the converter: auto, pandoc, or container.
	Backend ConverterBackend `json:"backend" yaml:"backend"`

	// PandocBin is the pandoc executable name or path (default "pandoc").
	PandocBin string `json:"pandoc" yaml:"pandoc"`

	// Image is the container image used by the container backend.
	Image string `json:"image" yaml:"image"`

	// From is the pandoc input format (default markdown+tex_math_single_backslash).
	From string `json:"from" yaml:"from"`
}

// BuildConfig is the configuration for one build run. It is assembled once
// by the CLI and passed to every stage.
type BuildConfig struct {
	// Source is the Markdown document (default guia.md).
	Source string `json:"source" yaml:"source"`

	// Output is the Word document to produce (default guia.docx).
	Output string `json:"output" yaml:"output"`

	// ReferenceDoc is the optional pandoc style template, used only when it exists.
	ReferenceDoc string `json:"reference_doc" yaml:"reference_doc"`

	// WorkDir is the directory relative paths resolve against. Empty means
	// the process working directory.
	WorkDir string `json:"workdir" yaml:"workdir"`

	Strictness Strictness `json:"strictness" yaml:"strictness"`

	Converter ConverterConfig `json:"converter" yaml:"converter"`

	// ReportPath, when set, receives a YAML record of the run.
	ReportPath string `json:"report,omitempty" yaml:"report,omitempty"`

	// HistoryPath, when set, is a SQLite database that logs every run.
	HistoryPath string `json:"history,omitempty" yaml:"history,omitempty"`
}

// DefaultBuildConfig returns the configuration used when no flag, file, or
// environment variable overrides a setting.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		Source:       DefaultSource,
		Output:       DefaultOutput,
		ReferenceDoc: DefaultReferenceDoc,
		Strictness:   Lenient,
		Converter: ConverterConfig{
			Backend:   BackendAuto,
			PandocBin: DefaultPandocBin,
			Image:     DefaultPandocImage,
			From:      DefaultInputFormat,
		},
	}
}

// Validate checks enumerated fields and required paths.
func (c BuildConfig) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source path is required")
	}
	if c.Output == "" {
		return fmt.Errorf("output path is required")
	}
	switch c.Strictness {
	case Lenient, Strict:
	default:
		return fmt.Errorf("invalid strictness %q: must be %q or %q", c.Strictness, Lenient, Strict)
	}
	switch c.Converter.Backend {
	case BackendAuto, BackendPandoc, BackendContainer:
	default:
		return fmt.Errorf("invalid converter backend %q: must be auto, pandoc, or container", c.Converter.Backend)
	}
	return nil
}
