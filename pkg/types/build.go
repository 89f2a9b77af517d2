// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BuildStatus is the outcome of one build run.
type BuildStatus string

const (
	BuildSucceeded BuildStatus = "succeeded"
	BuildFailed    BuildStatus = "failed"
)

// ImageRecord describes one image the document references.
type ImageRecord struct {
	// Path is the reference as written in the document.
	Path string `json:"path" yaml:"path"`

	// Generated is true when a directive produced the image in this run.
	Generated bool `json:"generated" yaml:"generated"`

	// Exists reports whether the file was present at validation time.
	Exists bool `json:"exists" yaml:"exists"`

	// Size is the file size in bytes, when it exists.
	Size int64 `json:"size,omitempty" yaml:"size,omitempty"`
}

// ConverterRecord names the backend used and the arguments passed to it.
type ConverterRecord struct {
	Backend string   `json:"backend" yaml:"backend"`
	Args    []string `json:"args" yaml:"args"`
}

// BuildReport records everything a run did. It is written as YAML when a
// report path is configured and summarized into the history database.
type BuildReport struct {
	Source     string      `json:"source" yaml:"source"`
	Output     string      `json:"output" yaml:"output"`
	StartedAt  time.Time   `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time   `json:"finished_at" yaml:"finished_at"`
	Status     BuildStatus `json:"status" yaml:"status"`

	// Error is the failure message when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// ExitCode is the process exit code the run maps to.
	ExitCode int `json:"exit_code" yaml:"exit_code"`

	Directives []Directive      `json:"directives" yaml:"directives"`
	Images     []ImageRecord    `json:"images" yaml:"images"`
	Notices    []Notice         `json:"notices,omitempty" yaml:"notices,omitempty"`
	Converter  *ConverterRecord `json:"converter,omitempty" yaml:"converter,omitempty"`
}

// Generated returns the number of images produced by directives.
func (r BuildReport) Generated() int {
	n := 0
	for _, img := range r.Images {
		if img.Generated {
			n++
		}
	}
	return n
}

// Duration returns how long the run took.
func (r BuildReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
