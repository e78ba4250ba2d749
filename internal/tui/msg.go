package tui

import (
	"time"

	"github.com/LISSConsulting/LISSTech.Barline/internal/bar"
	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// frameMsg carries a frame written by the bar's renderer.
type frameMsg []block.Segment

// framesClosedMsg signals the renderer stopped.
type framesClosedMsg struct{}

// logEntryMsg wraps a LogEntry for the diagnostics panel.
type logEntryMsg bar.LogEntry

// eventsClosedMsg signals the event channel closed.
type eventsClosedMsg struct{}

// dispatchedMsg reports the outcome of a synthesized click.
type dispatchedMsg struct {
	event   block.Event
	changed bool
	err     error
}

// tickMsg is sent every second for the clock.
type tickMsg time.Time
