package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// KeyMap holds the preview's key bindings. Global bindings are handled in
// any focus; the others apply while the bar has focus.
type KeyMap struct {
	Quit  key.Binding
	Focus key.Binding

	Prev key.Binding
	Next key.Binding

	Click      key.Binding
	Middle     key.Binding
	Secondary  key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Back       key.Binding
	Forward    key.Binding

	Follow key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Focus:      key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "bar/log")),
		Prev:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Next:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Click:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "click")),
		Middle:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "middle")),
		Secondary:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "right")),
		ScrollUp:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Back:       key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "back")),
		Forward:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "forward")),
		Follow:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "follow")),
	}
}

// Button returns the mouse button a key stands for, if any.
func (k KeyMap) Button(msg tea.KeyMsg) (block.Button, bool) {
	switch {
	case key.Matches(msg, k.Click):
		return block.ButtonLeft, true
	case key.Matches(msg, k.Middle):
		return block.ButtonMiddle, true
	case key.Matches(msg, k.Secondary):
		return block.ButtonRight, true
	case key.Matches(msg, k.ScrollUp):
		return block.ButtonScrollUp, true
	case key.Matches(msg, k.ScrollDown):
		return block.ButtonScrollDown, true
	case key.Matches(msg, k.Back):
		return block.ButtonBack, true
	case key.Matches(msg, k.Forward):
		return block.ButtonForward, true
	}
	return 0, false
}

// ShortHelp returns the bindings worth showing for the given focus.
func (k KeyMap) ShortHelp(focus FocusTarget) []key.Binding {
	if focus == FocusLog {
		return []key.Binding{k.Follow, k.Focus, k.Quit}
	}
	return []key.Binding{k.Prev, k.Next, k.Click, k.Middle, k.Secondary, k.ScrollUp, k.ScrollDown, k.Focus, k.Quit}
}

// HelpLine renders bindings as "key:desc" hints.
func HelpLine(bindings []key.Binding) string {
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, h.Key+":"+h.Desc)
	}
	return strings.Join(hints, "  ")
}
