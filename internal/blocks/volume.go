package blocks

import (
	"context"
	"fmt"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// Mixer reads and changes the output volume.
// *Pactl satisfies this interface.
type Mixer interface {
	Volume(ctx context.Context) (percent int, muted bool, err error)
	ToggleMute(ctx context.Context) error
	AdjustVolume(ctx context.Context, delta int) error
}

// Volume shows the default output volume. Left click toggles mute and
// scrolling moves the volume by Step percent.
type Volume struct {
	block.Base
	mixer Mixer
	step  int
}

// NewVolume creates a volume block. A non-positive step means 1%.
func NewVolume(mixer Mixer, step int) *Volume {
	if step <= 0 {
		step = 1
	}
	return &Volume{
		Base:  block.Base{BlockName: "volume", BlockColor: block.Red},
		mixer: mixer,
		step:  step,
	}
}

func (v *Volume) Update(ctx context.Context) error {
	percent, muted, err := v.mixer.Volume(ctx)
	if err != nil {
		return err
	}
	v.Text = fmt.Sprintf("%d%%", percent)
	if muted {
		v.Text += " [muted]"
	}
	return nil
}

func (v *Volume) HandleInput(ctx context.Context, ev block.Event) (bool, error) {
	var err error
	switch ev.Button {
	case block.ButtonLeft:
		err = v.mixer.ToggleMute(ctx)
	case block.ButtonScrollUp:
		err = v.mixer.AdjustVolume(ctx, v.step)
	case block.ButtonScrollDown:
		err = v.mixer.AdjustVolume(ctx, -v.step)
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
