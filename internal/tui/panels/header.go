// Package panels renders the preview's header and footer bars.
package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderProps holds all data needed to render the header bar.
type HeaderProps struct {
	Profile  string
	Blocks   int
	Interval time.Duration // frame interval
	Frames   int           // frames received so far
	Elapsed  time.Duration
	Clock    time.Time
}

// FormatElapsed renders a duration as a compact string: "5s", "2m30s", "1h15m".
func FormatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// RenderHeader renders the header bar; accentStyle spans the full width.
func RenderHeader(props HeaderProps, width int, accentStyle lipgloss.Style) string {
	profile := props.Profile
	if profile == "" {
		profile = "—"
	}

	parts := []string{
		"barline preview",
		"profile: " + profile,
		fmt.Sprintf("blocks: %d", props.Blocks),
	}
	if props.Interval > 0 {
		parts = append(parts, "frame every "+props.Interval.String())
	}
	parts = append(parts, fmt.Sprintf("frames: %d", props.Frames))
	if props.Elapsed > 0 {
		parts = append(parts, "up "+FormatElapsed(props.Elapsed))
	}
	if !props.Clock.IsZero() {
		parts = append(parts, props.Clock.Format("15:04:05"))
	}

	return accentStyle.Width(width).Render(strings.Join(parts, "  │  "))
}
