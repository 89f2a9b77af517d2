// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package console writes the build's user-facing status lines and builds
// the diagnostic logger.
package console

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gookit/color"
)

// Printer writes colored status messages: info in blue, success in green,
// warnings in yellow and errors in red.
type Printer struct {
	w     io.Writer
	plain bool
}

// NewPrinter returns a Printer writing to w. Color codes are emitted only
// when the terminal supports them.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Plain returns a Printer that never emits color codes.
func Plain(w io.Writer) *Printer {
	return &Printer{w: w, plain: true}
}

func (p *Printer) Info(format string, args ...any)    { p.print(color.Blue, format, args...) }
func (p *Printer) Success(format string, args ...any) { p.print(color.Green, format, args...) }
func (p *Printer) Warn(format string, args ...any)    { p.print(color.Yellow, format, args...) }
func (p *Printer) Error(format string, args ...any)   { p.print(color.Red, format, args...) }

func (p *Printer) print(c color.Color, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !p.plain {
		msg = c.Render(msg)
	}
	fmt.Fprintln(p.w, msg)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the text logger used for diagnostics.
func NewLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}
