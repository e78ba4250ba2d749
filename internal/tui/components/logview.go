// Package components holds reusable widgets for the preview.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultMaxLines bounds the lines a LogView retains.
const DefaultMaxLines = 1000

// LogView is a scrollable, bounded log panel over bubbles/viewport. In
// follow mode new lines keep the view pinned to the bottom; scrolling away
// leaves follow mode.
type LogView struct {
	vp       viewport.Model
	lines    []string // pre-styled, oldest first
	maxLines int
	follow   bool
	width    int
	height   int
}

// NewLogView creates a LogView with the given dimensions, in follow mode.
// maxLines <= 0 selects DefaultMaxLines.
func NewLogView(w, h, maxLines int) LogView {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return LogView{
		vp:       viewport.New(w, h),
		maxLines: maxLines,
		follow:   true,
		width:    w,
		height:   h,
	}
}

// AppendLine appends a rendered line, dropping the oldest lines beyond the
// limit.
func (v LogView) AppendLine(rendered string) LogView {
	v.lines = append(v.lines, rendered)
	if over := len(v.lines) - v.maxLines; over > 0 {
		v.lines = append([]string(nil), v.lines[over:]...)
	}
	v.vp.SetContent(strings.Join(v.lines, "\n"))
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// Len returns the number of retained lines.
func (v LogView) Len() int { return len(v.lines) }

// ToggleFollow switches follow mode; turning it on jumps to the bottom.
func (v LogView) ToggleFollow() LogView {
	v.follow = !v.follow
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// SetSize resizes the log view.
func (v LogView) SetSize(w, h int) LogView {
	v.width = w
	v.height = h
	v.vp.Width = w
	v.vp.Height = h
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// Following reports whether follow mode is active.
func (v LogView) Following() bool {
	return v.follow
}

// Update handles scroll keys and mouse wheel messages.
func (v LogView) Update(msg tea.Msg) (LogView, tea.Cmd) {
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	if v.follow && !v.vp.AtBottom() {
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg:
			v.follow = false
		}
	}
	return v, cmd
}

// View renders the visible lines.
func (v LogView) View() string {
	return v.vp.View()
}
