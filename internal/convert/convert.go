// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the Markdown to DOCX conversion with pluggable
// backends: a native pandoc binary or pandoc inside a container.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/docbuild/internal/container"
	"github.com/pdiddy/docbuild/pkg/types"
)

// Converter turns the source document into the output document. Different
// backends (native pandoc, containerized pandoc) implement this interface.
type Converter interface {
	// Name identifies the backend in messages and reports.
	Name() string

	// Available returns an error when the backend cannot run on this host.
	Available() error

	// Convert runs the conversion and blocks until it finishes. A non-zero
	// exit is returned as *ExitError.
	Convert(ctx context.Context, job Job) error
}

// Job describes one conversion. Relative paths are interpreted against
// WorkDir.
type Job struct {
	Source       string
	Output       string
	ReferenceDoc string
	From         string
	WorkDir      string
}

// NewJob builds a Job from the build configuration.
func NewJob(cfg types.BuildConfig) Job {
	return Job{
		Source:       cfg.Source,
		Output:       cfg.Output,
		ReferenceDoc: cfg.ReferenceDoc,
		From:         cfg.Converter.From,
		WorkDir:      cfg.WorkDir,
	}
}

// Args returns the pandoc argument vector. The reference document flag is
// included only when that file exists.
func (j Job) Args() []string {
	from := j.From
	if from == "" {
		from = types.DefaultInputFormat
	}
	args := make([]string, 0, 5)
	if j.HasReferenceDoc() {
		args = append(args, "--reference-doc="+j.ReferenceDoc)
	}
	return append(args, "--from="+from, "-o", j.Output, j.Source)
}

// HasReferenceDoc reports whether the configured reference document exists.
func (j Job) HasReferenceDoc() bool {
	if j.ReferenceDoc == "" {
		return false
	}
	_, err := os.Stat(j.resolve(j.ReferenceDoc))
	return err == nil
}

func (j Job) resolve(path string) string {
	if j.WorkDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(j.WorkDir, path)
}

// ExitError reports a converter process that exited with a non-zero code.
type ExitError struct {
	Backend string
	Code    int
	Err     error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Backend, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// LockedError reports an output document that cannot be opened for writing,
// typically because a word processor holds it open.
type LockedError struct {
	Path string
	Err  error
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s appears to be open in another program; close it and run again", e.Path)
}

func (e *LockedError) Unwrap() error { return e.Err }

// EnsureNotLocked probes an existing output document by opening it for
// append. A missing file is not an error.
func EnsureNotLocked(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return &LockedError{Path: path, Err: err}
	}
	return f.Close()
}

// exitCoder is satisfied by *exec.ExitError and by test doubles.
type exitCoder interface {
	ExitCode() int
}

// asExitError converts a process exit failure into *ExitError and wraps any
// other failure.
func asExitError(backend string, err error) error {
	var ec exitCoder
	if errors.As(err, &ec) && ec.ExitCode() > 0 {
		return &ExitError{Backend: backend, Code: ec.ExitCode(), Err: err}
	}
	return fmt.Errorf("running %s: %w", backend, err)
}

// New returns the converter selected by cfg.Backend. Auto prefers a native
// pandoc binary and falls back to a container runtime that has the image.
func New(cfg types.ConverterConfig) (Converter, error) {
	return newConverter(cfg, defaultExec, container.DetectRuntime)
}

func newConverter(cfg types.ConverterConfig, exec executor, detect func() (container.Runtime, error)) (Converter, error) {
	switch cfg.Backend {
	case types.BackendPandoc:
		return newPandocConverter(cfg.PandocBin, exec), nil
	case types.BackendContainer:
		rt, err := detect()
		if err != nil {
			return nil, err
		}
		return NewContainerConverter(rt, cfg.Image), nil
	case types.BackendAuto, "":
		native := newPandocConverter(cfg.PandocBin, exec)
		if native.Available() == nil {
			return native, nil
		}
		if rt, err := detect(); err == nil {
			cc := NewContainerConverter(rt, cfg.Image)
			if cc.Available() == nil {
				return cc, nil
			}
		}
		// Neither backend works; the native one reports the clearest error.
		return native, nil
	default:
		return nil, fmt.Errorf("unknown converter backend %q (use auto, pandoc or container)", cfg.Backend)
	}
}
