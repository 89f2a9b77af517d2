// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/docbuild/internal/container"
	"github.com/pdiddy/docbuild/pkg/types"
)

// containerWorkDir is where the build directory is mounted in the image.
const containerWorkDir = "/data"

// ContainerConverter runs pandoc from an image through a container.Runtime
// (docker or podman) injected at construction time.
type ContainerConverter struct {
	Image  string
	Stdout io.Writer
	Stderr io.Writer

	runtime container.Runtime
}

// NewContainerConverter creates a converter that runs image ("pandoc/core"
// when empty) with rt.
func NewContainerConverter(rt container.Runtime, image string) *ContainerConverter {
	if image == "" {
		image = types.DefaultPandocImage
	}
	return &ContainerConverter{Image: image, Stdout: os.Stdout, Stderr: os.Stderr, runtime: rt}
}

func (c *ContainerConverter) Name() string {
	return c.runtime.Name() + ":" + c.Image
}

// Available verifies that the image exists locally.
func (c *ContainerConverter) Available() error {
	if err := c.runtime.ImageExists(c.Image); err != nil {
		return fmt.Errorf("pandoc image not available in %s (run: %s pull %s): %w", c.runtime.Name(), c.runtime.Name(), c.Image, err)
	}
	return nil
}

// Convert mounts the job's work directory at /data and runs pandoc there.
// Paths in the job must lie inside the work directory.
func (c *ContainerConverter) Convert(ctx context.Context, job Job) error {
	host, err := filepath.Abs(orDot(job.WorkDir))
	if err != nil {
		return fmt.Errorf("resolving work directory: %w", err)
	}

	inner := job
	inner.WorkDir = host
	for _, p := range []*string{&inner.Source, &inner.Output, &inner.ReferenceDoc} {
		if *p == "" || !filepath.IsAbs(*p) {
			continue
		}
		rel, err := filepath.Rel(host, *p)
		if err != nil || strings.HasPrefix(rel, "..") {
			return fmt.Errorf("%s is outside the mounted work directory %s", *p, host)
		}
		*p = filepath.ToSlash(rel)
	}

	// HasReferenceDoc is evaluated on the host before paths become relative
	// to the container.
	args := inner.Args()

	spec := container.RunSpec{
		Image:   c.Image,
		Mounts:  []container.Mount{{Source: host, Target: containerWorkDir}},
		WorkDir: containerWorkDir,
		Args:    args,
		Stdout:  c.Stdout,
		Stderr:  c.Stderr,
	}
	if err := c.runtime.Run(ctx, spec); err != nil {
		return asExitError(c.Name(), err)
	}
	return nil
}

func orDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
