// Package bar is the engine of the status line: a fixed registry of blocks,
// one update loop per block, a renderer that multiplexes their segments into
// the output stream, and a router that delivers click events back to blocks.
package bar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// Never is the interval of a block that is updated once at start and
// afterwards only in response to input.
const Never time.Duration = 0

// ErrPanic wraps a panic recovered from a block call.
var ErrPanic = errors.New("bar: block panicked")

// Spec pairs a block with its update interval.
type Spec struct {
	Block    block.Block
	Interval time.Duration
}

// Entry is a registry slot. The block it holds is only ever reached through
// the entry's lock, so its update loop, the router and the renderer never
// touch it at the same time.
type Entry struct {
	name     string
	interval time.Duration

	mu       sync.RWMutex
	blk      block.Block
	failures int    // consecutive failed updates
	lastErr  string // message of the last failure
}

// Name returns the block name captured at registration.
func (e *Entry) Name() string { return e.name }

// Interval returns the block's update interval.
func (e *Entry) Interval() time.Duration { return e.interval }

// Render returns the block's current segments under a read lock.
func (e *Entry) Render() (segs []block.Segment) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	defer func() {
		if r := recover(); r != nil {
			segs = nil
		}
	}()
	return e.blk.Render()
}

// Update refreshes the block under the entry lock.
func (e *Entry) Update(ctx context.Context) error {
	return e.update(ctx).err
}

// updateReport describes the outcome of one update for logging.
type updateReport struct {
	err       error
	failures  int  // consecutive failures including this one
	repeated  bool // same error as the previous failure
	recovered int  // length of the failure streak that just ended
}

func (e *Entry) update(ctx context.Context) updateReport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.refreshLocked(ctx)
}

// dispatch delivers ev to the block and, if its state changed, updates it
// again before releasing the lock.
func (e *Entry) dispatch(ctx context.Context, ev block.Event) (bool, updateReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	changed, err := e.handleLocked(ctx, ev)
	if err != nil || !changed {
		return false, updateReport{}, err
	}
	return true, e.refreshLocked(ctx), nil
}

func (e *Entry) refreshLocked(ctx context.Context) updateReport {
	err := e.safeUpdate(ctx)
	if err != nil {
		e.failures++
		msg := err.Error()
		rep := updateReport{
			err:      err,
			failures: e.failures,
			repeated: e.failures > 1 && msg == e.lastErr,
		}
		e.lastErr = msg
		return rep
	}

	rep := updateReport{recovered: e.failures}
	e.failures = 0
	e.lastErr = ""
	return rep
}

func (e *Entry) safeUpdate(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return e.blk.Update(ctx)
}

func (e *Entry) handleLocked(ctx context.Context, ev block.Event) (changed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			changed = false
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return e.blk.HandleInput(ctx, ev)
}

// Registry is the ordered, fixed set of entries. Order is render order.
type Registry struct {
	entries []*Entry
}

// NewRegistry builds a registry from specs in order. Block names must be
// non-empty and unique.
func NewRegistry(specs []Spec) (*Registry, error) {
	var errs []error
	seen := make(map[string]bool, len(specs))
	entries := make([]*Entry, 0, len(specs))

	for i, s := range specs {
		if s.Block == nil {
			errs = append(errs, fmt.Errorf("bar: entry %d has no block", i))
			continue
		}
		name := s.Block.Name()
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("bar: entry %d has an empty name", i))
			continue
		case seen[name]:
			errs = append(errs, fmt.Errorf("bar: duplicate block name %q", name))
			continue
		case s.Interval < 0:
			errs = append(errs, fmt.Errorf("bar: block %q has a negative interval", name))
			continue
		}
		seen[name] = true
		entries = append(entries, &Entry{name: name, interval: s.Interval, blk: s.Block})
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &Registry{entries: entries}, nil
}

// Entries returns the entries in registry order. The slice is a copy.
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.entries) }

// Match returns the first entry whose block name is a prefix of target, or
// nil. Segment names are built as "<block>_<field>", so matching the bare
// block name recovers the segment's owner.
func (r *Registry) Match(target string) *Entry {
	for _, e := range r.entries {
		if strings.HasPrefix(target, e.name) {
			return e
		}
	}
	return nil
}

// Snapshot collects every entry's current segments in registry order. Each
// entry is locked only while its own segments are read.
func (r *Registry) Snapshot() []block.Segment {
	var frame []block.Segment
	for _, e := range r.entries {
		frame = append(frame, e.Render()...)
	}
	return frame
}
