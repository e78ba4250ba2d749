package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/LISSConsulting/LISSTech.Barline/internal/bar"
)

// kindStyle returns a fresh color for a log kind, or nil for plain text.
func kindStyle(k bar.LogKind) *color.Color {
	switch k {
	case bar.LogUpdateFailed, bar.LogInputFailed:
		return color.New(color.FgRed, color.Bold)
	case bar.LogRecovered:
		return color.New(color.FgGreen)
	case bar.LogInputHandled:
		return color.New(color.FgCyan)
	case bar.LogEventMalformed, bar.LogEventUnmatched, bar.LogInputClosed:
		return color.New(color.FgYellow)
	case bar.LogStopped:
		return color.New(color.FgRed)
	default:
		return nil
	}
}

// colorEnabled reports whether w is a terminal that should get ANSI colors.
// color.NoColor only looks at stdout, which is the bar protocol pipe when
// barline runs under i3bar or sway.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// formatLogLine renders an entry as "[15:04:05]  message".
func formatLogLine(entry bar.LogEntry) string {
	msg := entry.Message
	if entry.Kind == bar.LogUpdateFailed && entry.Failures > 1 {
		msg = fmt.Sprintf("%s (x%d)", msg, entry.Failures)
	}
	return fmt.Sprintf("[%s]  %s", entry.Timestamp.Format("15:04:05"), msg)
}

// logPrinter writes log entries one per line. Unless verbose, repeats of
// the same failure and unmatched events are left out.
type logPrinter struct {
	out     io.Writer
	verbose bool
	colored bool
}

// newLogPrinter returns a printer that colors by kind when out is a terminal.
func newLogPrinter(out io.Writer, verbose bool) *logPrinter {
	return &logPrinter{out: out, verbose: verbose, colored: colorEnabled(out)}
}

func (p *logPrinter) print(entry bar.LogEntry) {
	if !p.verbose && (entry.Repeated || entry.Kind == bar.LogEventUnmatched) {
		return
	}
	line := formatLogLine(entry)
	if c := kindStyle(entry.Kind); c != nil && p.colored {
		c.EnableColor()
		line = c.Sprint(line)
	}
	fmt.Fprintln(p.out, line)
}
