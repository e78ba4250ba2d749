package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Barline/internal/bar"
	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// Theme holds accent-color-derived styles for the preview.
type Theme struct {
	accentStyle     lipgloss.Style // header background
	cursorStyle     lipgloss.Style // selected segment marker
	borderFocused   lipgloss.Style
	borderUnfocused lipgloss.Style
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#6780BD").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	color := defaultAccentColor
	if accentColor != "" {
		color = accentColor
	}
	c := lipgloss.Color(color)
	return Theme{
		accentStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		cursorStyle: lipgloss.NewStyle().
			Underline(true).
			Bold(true),
		borderFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c),
		borderUnfocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray),
	}
}

// AccentHeaderStyle returns the style for the header bar.
func (t Theme) AccentHeaderStyle() lipgloss.Style {
	return t.accentStyle
}

// PanelBorderStyle returns the border style for a panel based on whether it
// currently holds keyboard focus.
func (t Theme) PanelBorderStyle(focused bool) lipgloss.Style {
	if focused {
		return t.borderFocused
	}
	return t.borderUnfocused
}

// RenderFrame renders segments on one line in their own colors. When
// cursor is a valid index the segment under it is marked.
func (t Theme) RenderFrame(segs []block.Segment, cursor int) string {
	if len(segs) == 0 {
		return emptyFrameStyle.Render("waiting for the first frame…")
	}
	var b strings.Builder
	for i, seg := range segs {
		style := segmentStyle(seg.Color)
		if i == cursor {
			style = style.Inherit(t.cursorStyle)
		}
		b.WriteString(style.Render(seg.Text))
	}
	return b.String()
}

// RenderLogLine renders a bar.LogEntry as a single terminal line no wider
// than width.
func (t Theme) RenderLogLine(entry bar.LogEntry, width int) string {
	ts := timestampStyle.Render(fmt.Sprintf("[%s]", entry.Timestamp.Format("15:04:05")))

	maxText := width - 14
	if maxText < 20 {
		maxText = 20
	}
	text := truncate(singleLine(entry.Message), maxText)

	switch entry.Kind {
	case bar.LogUpdateFailed:
		if entry.Repeated {
			text = truncate(fmt.Sprintf("%s (x%d)", singleLine(entry.Message), entry.Failures), maxText)
		}
		return fmt.Sprintf("%s  %s", ts, errorStyle.Render("✗ "+text))

	case bar.LogInputFailed:
		return fmt.Sprintf("%s  %s", ts, errorStyle.Render("✗ "+text))

	case bar.LogRecovered:
		return fmt.Sprintf("%s  %s", ts, resultStyle.Render("✓ "+text))

	case bar.LogInputHandled:
		return fmt.Sprintf("%s  %s", ts, inputStyle.Render("➜ "+text))

	case bar.LogEventMalformed, bar.LogEventUnmatched, bar.LogInputClosed:
		return fmt.Sprintf("%s  %s", ts, warnStyle.Render("? "+text))

	case bar.LogStopped:
		return fmt.Sprintf("%s  %s", ts, errorStyle.Render("⏹ "+text))

	default:
		return fmt.Sprintf("%s  %s", ts, infoStyle.Render(text))
	}
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
