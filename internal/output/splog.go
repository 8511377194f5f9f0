// Package output provides structured console logging for absorb, in the
// same terse info/warn/debug/tip shape used throughout the rest of the
// tool's ambient stack.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Splog is the run's logger. Debug messages are only emitted when Verbose
// is set, matching the -v/--verbose flag.
type Splog struct {
	writer  io.Writer
	Verbose bool
	color   bool
}

// NewSplog creates a logger writing to stdout, colorizing output only when
// stdout is attached to a terminal.
func NewSplog() *Splog {
	return &Splog{
		writer: os.Stdout,
		color:  isatty.IsTerminal(os.Stdout.Fd()),
	}
}

// NewDiscardSplog creates a logger that swallows all output, for use in
// tests that exercise code paths which log but don't assert on it.
func NewDiscardSplog() *Splog {
	return &Splog{writer: io.Discard}
}

var (
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	tipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	targetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
)

// Info writes an info message.
func (s *Splog) Info(format string, args ...interface{}) {
	fmt.Fprintf(s.writer, format+"\n", args...)
}

// Newline writes a blank line.
func (s *Splog) Newline() {
	fmt.Fprintln(s.writer)
}

// Warn writes a warning message.
func (s *Splog) Warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if s.color {
		msg = warnStyle.Render("warning: ") + msg
	} else {
		msg = "warning: " + msg
	}
	fmt.Fprintln(s.writer, msg)
}

// Debug writes a debug message, but only when Verbose is set.
func (s *Splog) Debug(format string, args ...interface{}) {
	if !s.Verbose {
		return
	}
	fmt.Fprintf(s.writer, "debug: "+format+"\n", args...)
}

// Tip writes a tip message, used for the post-run "how to squash" hint.
func (s *Splog) Tip(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if s.color {
		msg = tipStyle.Render("tip: ") + msg
	} else {
		msg = "tip: " + msg
	}
	fmt.Fprintln(s.writer, msg)
}

// ColorTarget renders a commit designator (summary or short SHA) the way
// the plan printer highlights fixup targets.
func (s *Splog) ColorTarget(designator string) string {
	if !s.color {
		return designator
	}
	return targetStyle.Render(designator)
}
