package bar

import (
	"context"
	"fmt"
	"time"
)

// Options configures a Bar.
type Options struct {
	// RenderInterval overrides the frame interval; zero picks the fastest
	// block cadence.
	RenderInterval time.Duration

	// Events receives log entries from every component. May be nil.
	Events chan<- LogEntry
}

// Bar wires the scheduler, renderer and router around one registry.
type Bar struct {
	Registry  *Registry
	Scheduler *Scheduler
	Renderer  *Renderer
	Router    *Router

	events chan<- LogEntry
}

// New creates a Bar writing frames to out. A click that changes a block
// triggers an immediate frame.
func New(reg *Registry, out FrameWriter, opts Options) *Bar {
	renderer := NewRenderer(reg, out, RenderInterval(reg, opts.RenderInterval))
	router := NewRouter(reg, opts.Events)
	router.OnChange = renderer.Refresh

	return &Bar{
		Registry:  reg,
		Scheduler: NewScheduler(reg, opts.Events),
		Renderer:  renderer,
		Router:    router,
		events:    opts.Events,
	}
}

// Run starts the update loops, the router over src and the renderer, and
// blocks until ctx is cancelled or output fails. The router is not waited
// for: its blocking read cannot be interrupted, and the process exits with
// the renderer.
func (b *Bar) Run(parent context.Context, src EventSource) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	emit(b.events, LogEntry{
		Kind:    LogInfo,
		Message: fmt.Sprintf("Starting bar with %d blocks (frame every %s)", b.Registry.Len(), b.Renderer.Interval()),
	})

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		b.Scheduler.Run(ctx)
	}()

	if src != nil {
		go func() {
			if err := b.Router.Run(ctx, src); err != nil && ctx.Err() == nil {
				emit(b.events, LogEntry{Kind: LogInputClosed, Message: err.Error()})
			}
		}()
	}

	err := b.Renderer.Run(ctx)
	cancel()
	<-schedDone

	if parent.Err() != nil {
		emit(b.events, LogEntry{Kind: LogStopped, Message: "Bar stopped"})
	}
	return err
}
