// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// executor abstracts process execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, dir string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, dir string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec = &osExecutor{}

// PandocConverter runs a pandoc binary found on PATH. Its output streams
// pass through to Stdout and Stderr.
type PandocConverter struct {
	Bin    string
	Stdout io.Writer
	Stderr io.Writer
	exec   executor
}

// NewPandocConverter returns a converter running bin ("pandoc" when empty).
func NewPandocConverter(bin string) *PandocConverter {
	return newPandocConverter(bin, defaultExec)
}

func newPandocConverter(bin string, exec executor) *PandocConverter {
	if bin == "" {
		bin = "pandoc"
	}
	return &PandocConverter{Bin: bin, Stdout: os.Stdout, Stderr: os.Stderr, exec: exec}
}

func (p *PandocConverter) Name() string { return p.Bin }

func (p *PandocConverter) Available() error {
	if _, err := p.exec.LookPath(p.Bin); err != nil {
		return fmt.Errorf("%s not found on PATH; install pandoc (https://pandoc.org/installing.html) or set converter.backend=container: %w", p.Bin, err)
	}
	return nil
}

func (p *PandocConverter) Convert(ctx context.Context, job Job) error {
	if err := p.exec.Run(ctx, p.Bin, job.Args(), job.WorkDir, p.Stdout, p.Stderr); err != nil {
		return asExitError(p.Bin, err)
	}
	return nil
}
