// Package tui provides a bubbletea + lipgloss terminal preview of a bar:
// the live frame with a segment cursor, and the bar's diagnostics log.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// defaultAccentColor is the default accent color (the palette's blue).
const defaultAccentColor = string(block.Blue)

var (
	colorWhite  = lipgloss.Color(string(block.White))
	colorGray   = lipgloss.Color(string(block.Gray))
	colorBlue   = lipgloss.Color(string(block.LightBlue))
	colorGreen  = lipgloss.Color(string(block.LightGreen))
	colorYellow = lipgloss.Color(string(block.LightYellow))
	colorRed    = lipgloss.Color(string(block.LightRed))
)

var (
	timestampStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	inputStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	emptyFrameStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)
)

// segmentStyle returns the style a host bar would give a segment of color c.
func segmentStyle(c block.Color) lipgloss.Style {
	if !c.Valid() {
		c = block.DefaultColor
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(string(c)))
}
