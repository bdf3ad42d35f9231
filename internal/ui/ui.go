// Package ui provides terminal output for the pdf2image CLI.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/spherical/pdf2image/internal/domain"
)

// UI writes status lines, tables and progress to the terminal.
type UI struct {
	out     io.Writer
	errOut  io.Writer
	noColor bool
	quiet   bool
}

// Init disables colors globally when requested or when output is not a terminal.
// It returns whether colors are off.
func Init(noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
	return color.NoColor
}

// NewWithWriters creates a UI on arbitrary writers.
func NewWithWriters(out, errOut io.Writer, noColor, quiet bool) *UI {
	return &UI{out: out, errOut: errOut, noColor: noColor, quiet: quiet}
}

// IsTerminal checks if stderr, where progress is drawn, is a terminal.
func IsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (u *UI) line(w io.Writer, attr color.Attribute, symbol, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if u.noColor {
		fmt.Fprintf(w, "%s %s\n", symbol, msg)
		return
	}
	color.New(attr).Fprintf(w, "%s %s\n", symbol, msg)
}

// Success prints a success message.
func (u *UI) Success(format string, args ...interface{}) {
	if u.quiet {
		return
	}
	u.line(u.out, color.FgGreen, "✓", format, args...)
}

// Error prints an error message to stderr. Errors are printed even when quiet.
func (u *UI) Error(format string, args ...interface{}) {
	u.line(u.errOut, color.FgRed, "✗", format, args...)
}

// Warning prints a warning message.
func (u *UI) Warning(format string, args ...interface{}) {
	if u.quiet {
		return
	}
	u.line(u.out, color.FgYellow, "⚠", format, args...)
}

// Info prints an informational message.
func (u *UI) Info(format string, args ...interface{}) {
	if u.quiet {
		return
	}
	u.line(u.out, color.FgCyan, "ℹ", format, args...)
}

// Step prints a step message.
func (u *UI) Step(format string, args ...interface{}) {
	if u.quiet {
		return
	}
	u.line(u.out, color.FgBlue, "→", format, args...)
}

// Section prints a section header.
func (u *UI) Section(title string) {
	if u.quiet {
		return
	}
	if u.noColor {
		fmt.Fprintf(u.out, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
		return
	}
	bold := color.New(color.Bold, color.FgWhite)
	bold.Fprintf(u.out, "\n%s\n", title)
	fmt.Fprintln(u.out, strings.Repeat("=", len(title)))
}

// Newline prints an empty line.
func (u *UI) Newline() {
	if !u.quiet {
		fmt.Fprintln(u.out)
	}
}

// Table displays data in a formatted table.
func (u *UI) Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(u.out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(headers, "\t"))

	separator := make([]string, len(headers))
	for i := range separator {
		separator[i] = strings.Repeat("-", len(headers[i]))
	}
	fmt.Fprintln(w, strings.Join(separator, "\t"))

	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	_ = w.Flush()
}

// ProgressBar draws conversion progress as a percentage bar.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a 0-100 progress bar on the UI's error writer.
func (u *UI) NewProgressBar(description string) *ProgressBar {
	w := u.errOut
	if u.quiet {
		w = io.Discard
	}

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(!u.noColor),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)

	return &ProgressBar{bar: bar}
}

// Update moves the bar to p and shows its message.
func (p *ProgressBar) Update(pr domain.Progress) {
	p.bar.Describe(pr.Message)
	_ = p.bar.Set(int(pr.Percent))
}

// Func adapts the bar to a progress callback.
func (p *ProgressBar) Func() domain.ProgressFunc {
	return p.Update
}

// Finish completes the bar.
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}

// Spinner shows indeterminate progress, used while a document loads.
type Spinner struct {
	spinner *spinner.Spinner
	enabled bool
}

// NewSpinner creates a spinner with the given message. It only animates on a terminal.
func (u *UI) NewSpinner(message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(u.errOut))
	s.Suffix = " " + message
	return &Spinner{spinner: s, enabled: !u.quiet && IsTerminal()}
}

// Start starts the spinner animation.
func (s *Spinner) Start() {
	if s.enabled {
		s.spinner.Start()
	}
}

// Stop stops the spinner animation.
func (s *Spinner) Stop() {
	if s.enabled {
		s.spinner.Stop()
	}
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}

// FormatBytes renders a byte count as MB with two decimals, as shown for selected files.
func FormatBytes(n int64) string {
	return fmt.Sprintf("%.2f MB", float64(n)/1024/1024)
}
