package bar

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
	"github.com/LISSConsulting/LISSTech.Barline/internal/protocol"
)

// ErrNoBlock is returned by Dispatch when no block owns the event's target.
var ErrNoBlock = errors.New("bar: no block for event")

// EventSource yields click events in arrival order.
// *protocol.Decoder satisfies this interface.
type EventSource interface {
	Next() (block.Event, error)
}

// Router delivers click events to the block that rendered the clicked
// segment.
type Router struct {
	reg    *Registry
	events chan<- LogEntry

	// OnChange, if set, is called after a click changed a block and the
	// block was updated.
	OnChange func()
}

// NewRouter creates a Router over reg.
func NewRouter(reg *Registry, events chan<- LogEntry) *Router {
	return &Router{reg: reg, events: events}
}

// Run reads and dispatches events until the source ends, returns a read
// error, or ctx is cancelled. Malformed lines, unmatched events and handler
// failures are logged and skipped. Each read blocks; cancellation is only
// observed between events.
func (r *Router) Run(ctx context.Context, src EventSource) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ev, err := src.Next()
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			emit(r.events, LogEntry{Kind: LogInputClosed, Message: "event stream closed"})
			return nil
		case errors.Is(err, protocol.ErrMalformed):
			emit(r.events, LogEntry{Kind: LogEventMalformed, Message: err.Error()})
			continue
		default:
			return fmt.Errorf("bar: read event: %w", err)
		}

		r.Dispatch(ctx, ev)
	}
}

// Dispatch routes one event. It returns whether the target block changed
// state; a changed block has already been updated when Dispatch returns.
func (r *Router) Dispatch(ctx context.Context, ev block.Event) (bool, error) {
	e := r.reg.Match(ev.Name)
	if e == nil {
		emit(r.events, LogEntry{
			Kind:    LogEventUnmatched,
			Button:  ev.Button,
			Message: fmt.Sprintf("no block for %q (%s)", ev.Name, ev.Button),
		})
		return false, ErrNoBlock
	}

	changed, rep, err := e.dispatch(ctx, ev)
	if err != nil {
		emit(r.events, LogEntry{
			Kind:    LogInputFailed,
			Block:   e.Name(),
			Button:  ev.Button,
			Message: fmt.Sprintf("%s: %s click failed: %v", e.Name(), ev.Button, err),
		})
		return false, err
	}
	if !changed {
		return false, nil
	}

	emit(r.events, LogEntry{
		Kind:    LogInputHandled,
		Block:   e.Name(),
		Button:  ev.Button,
		Message: fmt.Sprintf("%s: %s click on %s", e.Name(), ev.Button, ev.Name),
	})
	reportUpdate(r.events, e.Name(), rep)
	if r.OnChange != nil {
		r.OnChange()
	}
	return true, nil
}
