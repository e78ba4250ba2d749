package blocks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

type fakeMixer struct {
	percent int
	muted   bool
	err     error
	calls   []string
}

func (m *fakeMixer) Volume(context.Context) (int, bool, error) {
	return m.percent, m.muted, m.err
}

func (m *fakeMixer) ToggleMute(context.Context) error {
	m.calls = append(m.calls, "toggle")
	if m.err == nil {
		m.muted = !m.muted
	}
	return m.err
}

func (m *fakeMixer) AdjustVolume(_ context.Context, delta int) error {
	if delta > 0 {
		m.calls = append(m.calls, "up")
	} else {
		m.calls = append(m.calls, "down")
	}
	if m.err == nil {
		m.percent += delta
	}
	return m.err
}

func TestVolume(t *testing.T) {
	ctx := context.Background()

	t.Run("render", func(t *testing.T) {
		mixer := &fakeMixer{percent: 42}
		v := NewVolume(mixer, 0)
		if err := v.Update(ctx); err != nil {
			t.Fatal(err)
		}
		seg := v.Render()[0]
		if seg.Name != "volume" || seg.Text != "42%" || seg.Color != block.Red {
			t.Errorf("segment = %+v", seg)
		}

		mixer.muted = true
		_ = v.Update(ctx)
		if got := v.Render()[0].Text; got != "42% [muted]" {
			t.Errorf("muted text = %q", got)
		}
	})

	t.Run("input", func(t *testing.T) {
		mixer := &fakeMixer{percent: 50}
		v := NewVolume(mixer, 5)

		for _, b := range []block.Button{block.ButtonScrollUp, block.ButtonScrollUp, block.ButtonScrollDown, block.ButtonLeft} {
			changed, err := v.HandleInput(ctx, block.Event{Name: "volume", Button: b})
			if err != nil || !changed {
				t.Fatalf("%s: HandleInput = %v, %v", b, changed, err)
			}
		}
		if got := strings.Join(mixer.calls, ","); got != "up,up,down,toggle" {
			t.Errorf("calls = %s", got)
		}
		if mixer.percent != 55 || !mixer.muted {
			t.Errorf("mixer = %d%% muted=%v", mixer.percent, mixer.muted)
		}

		if changed, err := v.HandleInput(ctx, block.Event{Button: block.ButtonMiddle}); changed || err != nil {
			t.Errorf("middle click = %v, %v", changed, err)
		}
	})

	t.Run("errors", func(t *testing.T) {
		mixer := &fakeMixer{percent: 30}
		v := NewVolume(mixer, 1)
		_ = v.Update(ctx)

		mixer.err = errors.New("connection refused")
		if err := v.Update(ctx); err == nil {
			t.Error("expected update error")
		}
		if got := v.Render()[0].Text; got != "30%" {
			t.Errorf("text after failure = %q", got)
		}
		if changed, err := v.HandleInput(ctx, block.Event{Button: block.ButtonLeft}); changed || err == nil {
			t.Errorf("HandleInput = %v, %v", changed, err)
		}
	})
}

func TestParseSinkVolume(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    int
		wantErr bool
	}{
		{"stereo", "Volume: front-left: 32768 /  50% / -18.06 dB,   front-right: 34078 /  52% / -17.04 dB\n        balance 0.00\n", 51, false},
		{"mono", "Volume: mono: 65536 / 100% / 0.00 dB\n", 100, false},
		{"boosted", "Volume: front-left: 98304 / 150% / 10.57 dB,   front-right: 98304 / 150% / 10.57 dB\n", 150, false},
		{"garbage", "Failed to get sink volume: No such entity\n", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSinkVolume(tt.out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}

	if !parseSinkMute("Mute: yes\n") || parseSinkMute("Mute: no\n") {
		t.Error("parseSinkMute misread mute state")
	}
}

// fakePactl writes a shell script that answers like pactl and records
// mutating calls to calls.log next to it.
func fakePactl(t *testing.T) (string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake needs a POSIX shell")
	}
	dir := t.TempDir()
	log := filepath.Join(dir, "calls.log")
	script := `#!/bin/sh
case "$1" in
get-sink-volume)
  echo "Volume: front-left: 45875 /  70% / -9.29 dB,   front-right: 45875 /  70% / -9.29 dB"
  echo "        balance 0.00"
  ;;
get-sink-mute)
  echo "Mute: no"
  ;;
set-sink-mute|set-sink-volume)
  echo "$@" >> "` + log + `"
  ;;
*)
  echo "No valid command specified." >&2
  exit 1
  ;;
esac
`
	path := filepath.Join(dir, "pactl")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path, log
}

func TestPactl(t *testing.T) {
	ctx := context.Background()
	path, log := fakePactl(t)

	p, err := NewPactl(path)
	if err != nil {
		t.Fatal(err)
	}

	percent, muted, err := p.Volume(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if percent != 70 || muted {
		t.Errorf("Volume = %d, %v; want 70, false", percent, muted)
	}

	if err := p.AdjustVolume(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if err := p.AdjustVolume(ctx, -3); err != nil {
		t.Fatal(err)
	}
	if err := p.ToggleMute(ctx); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(log)
	if err != nil {
		t.Fatal(err)
	}
	want := "set-sink-volume @DEFAULT_SINK@ +2%\nset-sink-volume @DEFAULT_SINK@ -3%\nset-sink-mute @DEFAULT_SINK@ toggle\n"
	if string(data) != want {
		t.Errorf("calls:\n%s\nwant:\n%s", data, want)
	}

	t.Run("command failure carries stderr", func(t *testing.T) {
		_, err := p.run(ctx, "bogus")
		if err == nil || !strings.Contains(err.Error(), "No valid command specified.") {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("missing binary", func(t *testing.T) {
		if _, err := NewPactl("barline-no-such-pactl"); err == nil {
			t.Error("expected error for missing binary")
		}
	})
}
