package panels

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9C998E"))

// FooterProps holds all data needed to render the footer bar.
type FooterProps struct {
	Selected   string // name of the segment under the cursor
	LastAction string // outcome of the last synthesized click
	Following  bool   // log follow mode
	LogFocused bool
	Hints      string // key hints for the current focus
}

// RenderFooter renders the footer bar: the selection and last action on
// the left, key hints on the right.
func RenderFooter(props FooterProps, width int) string {
	selected := props.Selected
	if selected == "" {
		selected = "—"
	}
	left := "segment: " + selected
	if props.LastAction != "" {
		left += "  " + props.LastAction
	}

	right := props.Hints
	if props.LogFocused && !props.Following {
		right = "paused  " + right
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}

	return footerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
