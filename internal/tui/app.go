package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Barline/internal/bar"
	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
	"github.com/LISSConsulting/LISSTech.Barline/internal/tui/components"
	"github.com/LISSConsulting/LISSTech.Barline/internal/tui/panels"
)

// Dispatcher delivers a click to the block owning its target.
// *bar.Router satisfies this interface.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev block.Event) (bool, error)
}

// Options configures the preview.
type Options struct {
	Profile  string
	Blocks   int
	Interval time.Duration // frame interval, shown in the header
	Accent   string        // hex accent color; empty for the default
	Keys     *KeyMap       // nil for DefaultKeyMap
}

// Model is the root bubbletea model of the preview.
type Model struct {
	ctx    context.Context
	frames <-chan []block.Segment
	events <-chan bar.LogEntry
	router Dispatcher
	opts   Options
	keys   KeyMap

	log    components.LogView
	layout Layout
	focus  FocusTarget
	theme  Theme
	width  int
	height int

	frame      []block.Segment
	frameCount int
	cursor     int
	lastAction string

	startedAt time.Time
	now       time.Time

	done bool
}

// New creates the preview model. Frames come from the bar's renderer (see
// FrameSink), log entries from the bar's events channel; synthesized clicks
// go to router. Cancelling ctx abandons in-flight clicks.
func New(ctx context.Context, frames <-chan []block.Segment, events <-chan bar.LogEntry, router Dispatcher, opts Options) Model {
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	now := time.Now()
	layout := Calculate(80, 24)
	logW, logH := innerDims(layout.Log)
	return Model{
		ctx:       ctx,
		frames:    frames,
		events:    events,
		router:    router,
		opts:      opts,
		keys:      keys,
		log:       components.NewLogView(logW, logH, 0),
		layout:    layout,
		focus:     FocusBar,
		theme:     NewTheme(opts.Accent),
		width:     80,
		height:    24,
		startedAt: now,
		now:       now,
	}
}

// Init starts listening for frames and log entries, and the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForFrame(m.frames), waitForEvent(m.events), tickCmd())
}

// Selected returns the name of the segment under the cursor, or "".
func (m Model) Selected() string {
	if m.cursor < 0 || m.cursor >= len(m.frame) {
		return ""
	}
	return m.frame[m.cursor].Name
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForFrame(ch <-chan []block.Segment) tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-ch
		if !ok {
			return framesClosedMsg{}
		}
		return frameMsg(frame)
	}
}

func waitForEvent(ch <-chan bar.LogEntry) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return logEntryMsg(entry)
	}
}

func dispatchCmd(ctx context.Context, r Dispatcher, ev block.Event) tea.Cmd {
	return func() tea.Msg {
		changed, err := r.Dispatch(ctx, ev)
		return dispatchedMsg{event: ev, changed: changed, err: err}
	}
}

// Update handles all incoming bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout = Calculate(msg.Width, msg.Height)
		if !m.layout.TooSmall {
			m.log = m.log.SetSize(innerDims(m.layout.Log))
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case frameMsg:
		m.frame = []block.Segment(msg)
		m.frameCount++
		m.clampCursor()
		return m, waitForFrame(m.frames)
	case framesClosedMsg:
		m.done = true
		return m, tea.Quit
	case logEntryMsg:
		entry := bar.LogEntry(msg)
		m.log = m.log.AppendLine(m.theme.RenderLogLine(entry, m.layout.Log.Width))
		return m, waitForEvent(m.events)
	case eventsClosedMsg:
		return m, nil
	case dispatchedMsg:
		m.lastAction = describeDispatch(msg)
		return m, nil
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	}
	if m.focus == FocusLog {
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		if msg.String() == "shift+tab" {
			m.focus = m.focus.Prev()
		} else {
			m.focus = m.focus.Next()
		}
		return m, nil
	}

	if m.focus == FocusLog {
		if key.Matches(msg, m.keys.Follow) {
			m.log = m.log.ToggleFollow()
			return m, nil
		}
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Prev):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Next):
		if m.cursor < len(m.frame)-1 {
			m.cursor++
		}
		return m, nil
	}

	button, ok := m.keys.Button(msg)
	if !ok || m.router == nil {
		return m, nil
	}
	name := m.Selected()
	if name == "" {
		return m, nil
	}
	ev := block.Event{Name: name, Button: button, Modifiers: []string{}}
	return m, dispatchCmd(m.ctx, m.router, ev)
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.frame) {
		m.cursor = len(m.frame) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func describeDispatch(msg dispatchedMsg) string {
	prefix := fmt.Sprintf("%s → %s", msg.event.Button, msg.event.Name)
	switch {
	case errors.Is(msg.err, bar.ErrNoBlock):
		return prefix + ": no block"
	case msg.err != nil:
		return prefix + ": failed"
	case msg.changed:
		return prefix + ": changed"
	default:
		return prefix + ": ignored"
	}
}

// View renders the preview.
func (m Model) View() string {
	if m.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d).\nPlease resize to at least %dx%d.", m.width, m.height, minWidth, minHeight)
		return lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Render(msg)
	}

	header := panels.RenderHeader(panels.HeaderProps{
		Profile:  m.opts.Profile,
		Blocks:   m.opts.Blocks,
		Interval: m.opts.Interval,
		Frames:   m.frameCount,
		Elapsed:  m.now.Sub(m.startedAt),
		Clock:    m.now,
	}, m.layout.Header.Width, m.theme.AccentHeaderStyle())

	footer := panels.RenderFooter(panels.FooterProps{
		Selected:   m.Selected(),
		LastAction: m.lastAction,
		Following:  m.log.Following(),
		LogFocused: m.focus == FocusLog,
		Hints:      HelpLine(m.keys.ShortHelp(m.focus)),
	}, m.layout.Footer.Width)

	cursor := -1
	if m.focus == FocusBar {
		cursor = m.cursor
	}
	barW, barH := innerDims(m.layout.Bar)
	logW, logH := innerDims(m.layout.Log)

	frame := m.theme.PanelBorderStyle(m.focus == FocusBar).
		Width(barW).Height(barH).
		Render(m.theme.RenderFrame(m.frame, cursor))
	log := m.theme.PanelBorderStyle(m.focus == FocusLog).
		Width(logW).Height(logH).
		Render(m.log.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, frame, log, footer)
}

// Done reports whether the preview ended because the bar stopped.
func (m Model) Done() bool { return m.done }
