package blocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/net"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// DefaultRateWindow is how far back the network block averages throughput.
const DefaultRateWindow = 10 * time.Second

// CounterFunc returns per-interface byte counters.
type CounterFunc func(ctx context.Context) ([]net.IOCountersStat, error)

// SystemCounters reads per-interface counters from the host.
func SystemCounters(ctx context.Context) ([]net.IOCountersStat, error) {
	return net.IOCountersWithContext(ctx, true)
}

// NetworkOptions configures a Network block.
type NetworkOptions struct {
	InterfacePrefix string        // interfaces whose name starts with this are summed
	Label           string        // text of the device segment
	Window          time.Duration // rate averaging window
	Counters        CounterFunc
	Now             func() time.Time
}

type netSample struct {
	at       time.Time
	sent     uint64
	received uint64
}

// Network shows upload and download rates averaged over a sliding window.
type Network struct {
	block.Base
	opts    NetworkOptions
	history []netSample

	up, down uint64
	haveRate bool
}

// NewNetwork creates a network block. Zero options fall back to the "enp"
// prefix, an "Eth " label, DefaultRateWindow and the host's counters.
func NewNetwork(opts NetworkOptions) *Network {
	if opts.InterfacePrefix == "" {
		opts.InterfacePrefix = "enp"
	}
	if opts.Label == "" {
		opts.Label = "Eth "
	}
	if opts.Window <= 0 {
		opts.Window = DefaultRateWindow
	}
	if opts.Counters == nil {
		opts.Counters = SystemCounters
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Network{Base: block.Base{BlockName: "network"}, opts: opts}
}

func (n *Network) Render() []block.Segment {
	up, down := "N/A", "N/A"
	if n.haveRate {
		up, down = FormatRate(n.up), FormatRate(n.down)
	}
	return []block.Segment{
		block.NewSegment("network_device", n.opts.Label, n.Color()),
		block.NewSegment("network_speed", fmt.Sprintf("▲ %s ▼ %s", up, down), block.Blue),
	}
}

func (n *Network) Update(ctx context.Context) error {
	stats, err := n.opts.Counters(ctx)
	if err != nil {
		return fmt.Errorf("network counters: %w", err)
	}

	cur := netSample{at: n.opts.Now()}
	for _, s := range stats {
		if strings.HasPrefix(s.Name, n.opts.InterfacePrefix) {
			cur.sent += s.BytesSent
			cur.received += s.BytesRecv
		}
	}

	// Counters went backwards: an interface was reset or removed.
	if last := len(n.history) - 1; last >= 0 {
		if cur.sent < n.history[last].sent || cur.received < n.history[last].received {
			n.history = n.history[:0]
		}
	}

	n.history = append(n.history, cur)
	drop := 0
	for drop < len(n.history)-1 && cur.at.Sub(n.history[drop].at) > n.opts.Window {
		drop++
	}
	n.history = n.history[drop:]

	oldest := n.history[0]
	elapsed := cur.at.Sub(oldest.at).Milliseconds()
	if elapsed <= 0 {
		n.haveRate = false
		return nil
	}
	n.up = (cur.sent - oldest.sent) * 1000 / uint64(elapsed)
	n.down = (cur.received - oldest.received) * 1000 / uint64(elapsed)
	n.haveRate = true
	return nil
}

// FormatRate renders a bytes-per-second rate in a fixed-width decimal form,
// e.g. "1.23MB", "45.6kB", " 999 B".
func FormatRate(bps uint64) string {
	switch {
	case bps >= 100_000_000:
		return fmt.Sprintf("%4dMB", bps/1_000_000)
	case bps >= 10_000_000:
		return fmt.Sprintf("%2d.%01dMB", bps/1_000_000, bps/100_000%10)
	case bps >= 1_000_000:
		return fmt.Sprintf("%1d.%02dMB", bps/1_000_000, bps/10_000%100)
	case bps >= 100_000:
		return fmt.Sprintf("%4dkB", bps/1000)
	case bps >= 10_000:
		return fmt.Sprintf("%2d.%01dkB", bps/1000, bps/100%10)
	case bps >= 1000:
		return fmt.Sprintf("%1d.%02dkB", bps/1000, bps/10%100)
	default:
		return fmt.Sprintf("%4d B", bps)
	}
}
