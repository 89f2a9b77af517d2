// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one document build: read the source, extract plot
// directives, generate images, validate image references and convert.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/pdiddy/docbuild/internal/console"
	"github.com/pdiddy/docbuild/internal/convert"
	"github.com/pdiddy/docbuild/internal/directive"
	"github.com/pdiddy/docbuild/internal/generate"
	"github.com/pdiddy/docbuild/internal/history"
	"github.com/pdiddy/docbuild/internal/render"
	"github.com/pdiddy/docbuild/internal/report"
	"github.com/pdiddy/docbuild/internal/validate"
	"github.com/pdiddy/docbuild/pkg/types"
)

// ErrStrict is returned when strict mode rejects a soft condition.
var ErrStrict = errors.New("strict mode")

// Option customizes a Builder.
type Option func(*Builder)

// WithRenderer replaces the gonum/plot renderer.
func WithRenderer(r generate.Renderer) Option {
	return func(b *Builder) { b.renderer = r }
}

// WithPrinter sets where status messages go.
func WithPrinter(p *console.Printer) Option {
	return func(b *Builder) { b.out = p }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// WithClock replaces time.Now for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// Builder runs builds for one configuration.
type Builder struct {
	cfg      types.BuildConfig
	conv     convert.Converter
	renderer generate.Renderer
	out      *console.Printer
	log      *slog.Logger
	now      func() time.Time
}

// New creates a Builder. Without options it renders with gonum/plot, prints
// to stdout and logs through slog.Default.
func New(cfg types.BuildConfig, conv convert.Converter, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		conv:     conv,
		renderer: render.New(),
		out:      console.NewPrinter(os.Stdout),
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Run performs the build. The returned report is complete even when err is
// non-nil; it has already been written to the configured report file and
// history database.
func (b *Builder) Run(ctx context.Context) (types.BuildReport, error) {
	rep := types.BuildReport{
		Source:    b.cfg.Source,
		Output:    b.cfg.Output,
		StartedAt: b.now(),
	}

	err := b.run(ctx, &rep)

	rep.FinishedAt = b.now()
	rep.ExitCode = ExitCode(err)
	if err != nil {
		rep.Status = types.BuildFailed
		rep.Error = err.Error()
	} else {
		rep.Status = types.BuildSucceeded
	}

	b.persist(ctx, rep)
	return rep, err
}

// ExitCode maps a build error to the process exit code: 0 for success, the
// converter's own code when it failed, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *convert.ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

func (b *Builder) run(ctx context.Context, rep *types.BuildReport) error {
	b.out.Info("Starting document build...")

	src := b.resolve(b.cfg.Source)
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("source document %q not found in %s", b.cfg.Source, b.workDir())
	}

	if err := b.conv.Available(); err != nil {
		return fmt.Errorf("converter unavailable: %w", err)
	}

	content, err := readUTF8(src)
	if err != nil {
		return err
	}

	res := directive.Extract(content)
	rep.Directives = res.Directives
	rep.Notices = append(rep.Notices, res.Notices...)
	if err := b.checkNotices(res.Notices); err != nil {
		return err
	}

	generated, err := b.generate(rep, res.Directives)
	if err != nil {
		return err
	}

	rep.Images = b.imageRecords(res.Images, generated)
	if err := validate.Images(b.cfg.WorkDir, res.Images); err != nil {
		b.out.Warn("The Word document will not be generated to avoid an incomplete document.")
		return err
	}

	return b.convert(ctx, rep)
}

func (b *Builder) checkNotices(notices []types.Notice) error {
	for _, n := range notices {
		b.log.Debug("notice", "code", n.Code, "block", n.Block, "key", n.Key, "msg", n.Message)
	}
	if b.cfg.Strictness != types.Strict || len(notices) == 0 {
		return nil
	}
	lines := lo.Map(notices, func(n types.Notice, _ int) string { return "  - " + n.String() })
	return fmt.Errorf("%w: %d problem(s) in plot directives:\n%s", ErrStrict, len(notices), strings.Join(lines, "\n"))
}

// generate renders every directive in document order and stops at the
// first failure. In strict mode every directive's numbers are checked
// before the first image is written. It returns the set of files produced,
// keyed by cleaned path.
func (b *Builder) generate(rep *types.BuildReport, directives []types.Directive) (map[string]bool, error) {
	generated := make(map[string]bool, len(directives))
	if len(directives) == 0 {
		b.out.Info("No plot directives found (<!-- plot ... -->).")
		return generated, nil
	}

	b.out.Info("Found %d plot directive(s). Generating...", len(directives))
	gen := generate.New(b.renderer, b.cfg.WorkDir, b.cfg.Strictness, b.log)
	defer func() { rep.Notices = append(rep.Notices, gen.Notices()...) }()

	if b.cfg.Strictness == types.Strict {
		for _, d := range directives {
			if err := gen.Check(d); err != nil {
				return generated, fmt.Errorf("%w: %s: %w", ErrStrict, d.File, err)
			}
		}
	}

	for i, d := range directives {
		b.out.Info("  -> (%d/%d) Generating: %s  [kind=%s]", i+1, len(directives), d.File, d.Kind)
		if err := gen.Generate(d); err != nil {
			return generated, fmt.Errorf("generating %s: %w", d.File, err)
		}
		generated[filepath.Clean(d.File)] = true
		if fi, err := os.Stat(gen.Resolve(d.File)); err == nil {
			b.out.Info("     saved %s", humanize.Bytes(uint64(fi.Size())))
		}
	}
	return generated, nil
}

func (b *Builder) imageRecords(paths []string, generated map[string]bool) []types.ImageRecord {
	return lo.Map(lo.Uniq(paths), func(p string, _ int) types.ImageRecord {
		rec := types.ImageRecord{Path: p, Generated: generated[filepath.Clean(p)]}
		if fi, err := os.Stat(b.resolve(p)); err == nil {
			rec.Exists = true
			rec.Size = fi.Size()
		}
		return rec
	})
}

func (b *Builder) convert(ctx context.Context, rep *types.BuildReport) error {
	job := convert.NewJob(b.cfg)
	b.out.Info("Generating %s with %s...", b.cfg.Output, b.conv.Name())
	if job.HasReferenceDoc() {
		b.out.Info("Using Word template: %s", b.cfg.ReferenceDoc)
	}

	if err := convert.EnsureNotLocked(b.resolve(b.cfg.Output)); err != nil {
		return err
	}

	rep.Converter = &types.ConverterRecord{Backend: b.conv.Name(), Args: job.Args()}
	if err := b.conv.Convert(ctx, job); err != nil {
		return err
	}

	size := ""
	if fi, err := os.Stat(b.resolve(b.cfg.Output)); err == nil {
		size = " (" + humanize.Bytes(uint64(fi.Size())) + ")"
	}
	b.out.Success("Done: %s generated successfully%s.", b.cfg.Output, size)
	return nil
}

// persist writes the optional report and history record. Failures here do
// not change the build outcome.
func (b *Builder) persist(ctx context.Context, rep types.BuildReport) {
	if b.cfg.ReportPath != "" {
		if err := report.Write(b.resolve(b.cfg.ReportPath), rep); err != nil {
			b.out.Warn("Could not write build report: %v", err)
		}
	}
	if b.cfg.HistoryPath != "" {
		if err := recordHistory(ctx, b.resolve(b.cfg.HistoryPath), rep); err != nil {
			b.out.Warn("Could not record build history: %v", err)
		}
	}
}

func recordHistory(ctx context.Context, path string, rep types.BuildReport) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	_, err = store.Record(ctx, history.FromReport(rep))
	return err
}

func (b *Builder) resolve(path string) string {
	if b.cfg.WorkDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(b.cfg.WorkDir, path)
}

func (b *Builder) workDir() string {
	if b.cfg.WorkDir != "" {
		return b.cfg.WorkDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// readUTF8 reads path as UTF-8, dropping a leading byte order mark.
func readUTF8(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(f, dec))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
