// Package blocks holds the concrete status blocks (clock, date, separator,
// load, network, media, volume) and builds them from a configured profile.
package blocks

import (
	"errors"
	"fmt"
	"time"

	"github.com/LISSConsulting/LISSTech.Barline/internal/bar"
	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
	"github.com/LISSConsulting/LISSTech.Barline/internal/config"
)

// Update cadences.
const (
	SubSecond = 250 * time.Millisecond
	Second    = time.Second
	SubMinute = 30 * time.Second
)

// DefaultInterval returns the update cadence of a kind when a profile does
// not set one.
func DefaultInterval(kind string) time.Duration {
	switch kind {
	case config.KindMedia, config.KindVolume:
		return SubSecond
	case config.KindLoad, config.KindNetwork:
		return Second
	case config.KindDate, config.KindClock:
		return SubMinute
	default:
		return bar.Never
	}
}

// Sources are the external collaborators blocks read from. Media and Mixer
// are only required when the profile contains those kinds; the rest default
// to the host.
type Sources struct {
	Players  Players
	Mixer    Mixer
	Load     LoadFunc
	Counters CounterFunc
	Now      func() time.Time
}

// Build creates the registry specs for a profile in order. Separators are
// numbered from 1 so that every block name is unique.
func Build(profile config.ProfileConfig, cfg *config.Config, src Sources) ([]bar.Spec, error) {
	var (
		specs []bar.Spec
		errs  []error
		seps  int
	)

	for i, bc := range profile.Blocks {
		var b block.Block
		switch bc.Kind {
		case config.KindClock:
			b = NewClock(src.Now)
		case config.KindDate:
			b = NewDate(src.Now)
		case config.KindSeparator:
			seps++
			b = NewSeparator(seps)
		case config.KindLoad:
			b = NewLoad(src.Load)
		case config.KindNetwork:
			b = NewNetwork(NetworkOptions{
				InterfacePrefix: cfg.Network.InterfacePrefix,
				Label:           cfg.Network.Label,
				Window:          cfg.Network.Window.Duration,
				Counters:        src.Counters,
				Now:             src.Now,
			})
		case config.KindMedia:
			if src.Players == nil {
				errs = append(errs, fmt.Errorf("blocks: block %d (media) needs a player source", i))
				continue
			}
			b = NewMedia(src.Players, MediaOptions{Priority: cfg.Media.Priority, Ignore: cfg.Media.Ignore})
		case config.KindVolume:
			if src.Mixer == nil {
				errs = append(errs, fmt.Errorf("blocks: block %d (volume) needs a mixer", i))
				continue
			}
			b = NewVolume(src.Mixer, cfg.Volume.Step)
		default:
			errs = append(errs, fmt.Errorf("blocks: block %d has unknown kind %q", i, bc.Kind))
			continue
		}

		if bc.Color != "" {
			c, ok := block.ParseColor(bc.Color)
			if !ok {
				errs = append(errs, fmt.Errorf("blocks: block %d has invalid color %q", i, bc.Color))
				continue
			}
			setColor(b, c)
		}

		specs = append(specs, bar.Spec{Block: b, Interval: Interval(bc)})
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return specs, nil
}

// Interval returns the update cadence of a configured block: bar.Never,
// the explicit "every" value, or the kind's default.
func Interval(bc config.BlockConfig) time.Duration {
	switch {
	case bc.Every.Never:
		return bar.Never
	case bc.Every.Duration > 0:
		return bc.Every.Duration
	default:
		return DefaultInterval(bc.Kind)
	}
}

// setColor overrides the block's default colour when it is built on
// block.Base.
func setColor(b block.Block, c block.Color) {
	type based interface{ base() *block.Base }
	switch v := b.(type) {
	case *block.Base:
		v.BlockColor = c
	case based:
		v.base().BlockColor = c
	}
}

func (c *Clock) base() *block.Base   { return &c.Base }
func (d *Date) base() *block.Base    { return &d.Base }
func (l *Load) base() *block.Base    { return &l.Base }
func (n *Network) base() *block.Base { return &n.Base }
func (m *Media) base() *block.Base   { return &m.Base }
func (v *Volume) base() *block.Base  { return &v.Base }
