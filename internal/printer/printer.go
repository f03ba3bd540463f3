// Package printer renders progress and diagnostics to the terminal.
package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/cvforge/cvforge/internal/diagnostics"
)

var (
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ECC71"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F39C12"))
	locationCell = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Width(36)
	inputCell    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
)

// Printer writes styled output to one destination.
type Printer struct {
	out io.Writer
}

// New creates a Printer writing to out.
func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Default writes to stdout.
func Default() *Printer {
	return New(os.Stdout)
}

// Information prints an informational line.
func (p *Printer) Information(format string, args ...any) {
	fmt.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Warning prints a warning line.
func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintln(p.out, warnStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error line.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.out, errorStyle.Render(fmt.Sprintf(format, args...)))
}

// Diagnostics prints a validation diagnostic list as a location /
// message / input table.
func (p *Printer) Diagnostics(diags []diagnostics.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	p.Error("There are some errors in the input file.")
	for _, d := range diags {
		line := locationCell.Render(d.Location) + " " + d.Message
		if d.Input != "" {
			line += " " + inputCell.Render(fmt.Sprintf("(%s)", d.Input))
		}
		fmt.Fprintln(p.out, line)
	}
}

// Progress reports a fixed number of pipeline steps. The total is
// computed before the first step so denominators stay accurate.
type Progress struct {
	printer *Printer
	total   int
	current int
	active  string
}

// NewProgress creates a Progress over total steps.
func (p *Printer) NewProgress(total int) *Progress {
	return &Progress{printer: p, total: total}
}

// StartStep announces the next step.
func (pr *Progress) StartStep(description string) {
	pr.current++
	pr.active = description
	label := stepStyle.Render(fmt.Sprintf("[%d/%d]", pr.current, pr.total))
	fmt.Fprintf(pr.printer.out, "%s %s...\n", label, description)
}

// FinishStep marks the current step as done.
func (pr *Progress) FinishStep() {
	fmt.Fprintf(pr.printer.out, "%s %s\n", doneStyle.Render("✓"), pr.active)
}

// Current returns the 1-based index of the running step.
func (pr *Progress) Current() int { return pr.current }

// Total returns the step count the progress was created with.
func (pr *Progress) Total() int { return pr.total }
