package blocks

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/load"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// LoadFunc returns the one-minute load average.
type LoadFunc func(ctx context.Context) (float64, error)

// SystemLoad reads the load average from the host.
func SystemLoad(ctx context.Context) (float64, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return avg.Load1, nil
}

// Load shows the one-minute load average, turning yellow at 1.0 and red
// with a "!!!" suffix at 2.0.
type Load struct {
	block.Base
	read  LoadFunc
	color block.Color
}

// NewLoad creates a load block. A nil read uses SystemLoad.
func NewLoad(read LoadFunc) *Load {
	if read == nil {
		read = SystemLoad
	}
	return &Load{Base: block.Base{BlockName: "load"}, read: read}
}

func (l *Load) Color() block.Color {
	if l.color != "" {
		return l.color
	}
	return l.Base.Color()
}

func (l *Load) Render() []block.Segment {
	return []block.Segment{block.NewSegment(l.BlockName, l.Text, l.Color())}
}

func (l *Load) Update(ctx context.Context) error {
	one, err := l.read(ctx)
	if err != nil {
		return fmt.Errorf("load average: %w", err)
	}

	l.Text = fmt.Sprintf("%.2f", one)
	switch {
	case one < 1.0:
		l.color = ""
	case one < 2.0:
		l.color = block.Yellow
	default:
		l.color = block.Red
		l.Text += "!!!"
	}
	return nil
}
