package bar

import (
	"context"
	"time"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

const (
	// DefaultRenderInterval is used when no block has a periodic cadence.
	DefaultRenderInterval = 250 * time.Millisecond

	// MinRenderInterval bounds how often frames are written.
	MinRenderInterval = 50 * time.Millisecond
)

// FrameWriter is the output side of the bar protocol.
// *protocol.Encoder satisfies this interface.
type FrameWriter interface {
	WriteHeader() error
	EncodeFrame(segs []block.Segment) error
}

// Renderer periodically snapshots the registry and writes one frame per
// tick. It never updates a block, so a stalled source cannot stall output.
type Renderer struct {
	reg      *Registry
	out      FrameWriter
	interval time.Duration
	refresh  chan struct{}
}

// NewRenderer creates a Renderer writing a frame to out every interval.
func NewRenderer(reg *Registry, out FrameWriter, interval time.Duration) *Renderer {
	if interval < MinRenderInterval {
		interval = MinRenderInterval
	}
	return &Renderer{
		reg:      reg,
		out:      out,
		interval: interval,
		refresh:  make(chan struct{}, 1),
	}
}

// Interval returns the tick interval.
func (r *Renderer) Interval() time.Duration { return r.interval }

// Run writes the header and then a frame per tick until ctx is cancelled or
// the output fails. It returns ctx.Err() on cancellation.
func (r *Renderer) Run(ctx context.Context) error {
	if err := r.out.WriteHeader(); err != nil {
		return err
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if err := r.out.EncodeFrame(r.reg.Snapshot()); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-r.refresh:
		}
	}
}

// Refresh asks for a frame ahead of the next tick. It never blocks; requests
// made while one is pending are merged.
func (r *Renderer) Refresh() {
	select {
	case r.refresh <- struct{}{}:
	default:
	}
}

// RenderInterval picks the frame interval for reg: override when positive,
// otherwise the fastest periodic cadence in the registry. The result is never
// below MinRenderInterval.
func RenderInterval(reg *Registry, override time.Duration) time.Duration {
	interval := override
	if interval <= 0 {
		for _, e := range reg.Entries() {
			if e.Interval() > Never && (interval <= 0 || e.Interval() < interval) {
				interval = e.Interval()
			}
		}
	}
	if interval <= 0 {
		interval = DefaultRenderInterval
	}
	if interval < MinRenderInterval {
		interval = MinRenderInterval
	}
	return interval
}
