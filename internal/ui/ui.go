// Package ui is the ambient terminal-output layer: color-on-by-default
// status lines honoring NO_COLOR/--no-color, and a progress bar during
// non-JSON, non-quiet indexing runs.
package ui

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

var colorsEnabled = true

// InitColors decides whether ANSI color is used for subsequent Status/Warn/
// Error calls: disabled when noColor is set, NO_COLOR is non-empty, or
// stderr is not a terminal.
func InitColors(noColor bool) {
	colorsEnabled = !noColor && os.Getenv("NO_COLOR") == "" && isatty.IsTerminal(os.Stderr.Fd())
	color.NoColor = !colorsEnabled
}

var (
	statusColor = color.New(color.FgCyan)
	warnColor   = color.New(color.FgYellow)
	errColor    = color.New(color.FgRed, color.Bold)
)

// Status writes a cyan informational line to stderr.
func Status(format string, args ...any) {
	statusColor.Fprintf(os.Stderr, format+"\n", args...)
}

// Warn writes a yellow warning line to stderr.
func Warn(format string, args ...any) {
	warnColor.Fprintf(os.Stderr, format+"\n", args...)
}

// Error writes a bold red error line to stderr.
func Error(format string, args ...any) {
	errColor.Fprintf(os.Stderr, format+"\n", args...)
}

// Bar wraps a progressbar.ProgressBar for the indexer's file-processing loop.
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar builds a progress bar over total items, writing to w (os.Stderr in
// normal runs). Callers in JSON or quiet mode should not construct a Bar at
// all, since a bar on stdout would corrupt machine-readable output.
func NewBar(w io.Writer, total int64, description string) *Bar {
	return &Bar{bar: progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionOnCompletion(func() { io.WriteString(w, "\n") }),
		progressbar.OptionThrottle(65),
	)}
}

// Add advances the bar by delta.
func (b *Bar) Add(delta int) {
	if b == nil || b.bar == nil {
		return
	}
	_ = b.bar.Add(delta)
}

// Finish completes the bar, leaving the terminal line intact.
func (b *Bar) Finish() {
	if b == nil || b.bar == nil {
		return
	}
	_ = b.bar.Finish()
}
