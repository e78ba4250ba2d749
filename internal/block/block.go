// Package block defines the capability contract every status block satisfies,
// together with the segment, colour and click-event types it speaks in.
package block

import "context"

// Block is a status-producing unit hosted by the bar.
//
// Implementations are not safe for concurrent use: the bar serialises every
// call through a per-block lock, so a block never needs its own locking.
type Block interface {
	// Name is the stable, non-empty identifier of the block. Every segment
	// the block renders carries a name that starts with it.
	Name() string

	// Color is the default colour for an untagged segment.
	Color() Color

	// Render returns the current segments. It must not mutate state.
	Render() []Segment

	// Update refreshes internal state from the block's source. On error the
	// previously rendered segments must stay valid.
	Update(ctx context.Context) error

	// HandleInput reacts to a click or scroll aimed at the block and reports
	// whether its state changed.
	HandleInput(ctx context.Context, ev Event) (bool, error)
}

// Base supplies the default behaviour of the contract. Blocks embed it,
// set Text from Update and override whatever else they need.
type Base struct {
	BlockName  string
	BlockColor Color
	Text       string
}

// Name returns the block name.
func (b *Base) Name() string { return b.BlockName }

// Color returns BlockColor, or DefaultColor when unset.
func (b *Base) Color() Color {
	if b.BlockColor == "" {
		return DefaultColor
	}
	return b.BlockColor
}

// Render returns a single segment built from the name, text and colour.
func (b *Base) Render() []Segment {
	return []Segment{NewSegment(b.BlockName, b.Text, b.Color())}
}

// Update does nothing.
func (b *Base) Update(context.Context) error { return nil }

// HandleInput ignores the event.
func (b *Base) HandleInput(context.Context, Event) (bool, error) { return false, nil }
