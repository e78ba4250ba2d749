package blocks

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

const defaultSink = "@DEFAULT_SINK@"

// Pactl controls the default PulseAudio/PipeWire sink through the pactl CLI.
type Pactl struct {
	Command string // pactl binary, resolved at construction
}

// NewPactl resolves command (default "pactl") on PATH.
func NewPactl(command string) (*Pactl, error) {
	if command == "" {
		command = "pactl"
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("pactl: %w", err)
	}
	return &Pactl{Command: path}, nil
}

// Volume returns the default sink's volume, averaged over channels, and
// whether it is muted.
func (p *Pactl) Volume(ctx context.Context) (int, bool, error) {
	out, err := p.run(ctx, "get-sink-volume", defaultSink)
	if err != nil {
		return 0, false, fmt.Errorf("pactl get volume: %w", err)
	}
	percent, err := parseSinkVolume(out)
	if err != nil {
		return 0, false, fmt.Errorf("pactl get volume: %w", err)
	}

	out, err = p.run(ctx, "get-sink-mute", defaultSink)
	if err != nil {
		return 0, false, fmt.Errorf("pactl get mute: %w", err)
	}
	return percent, parseSinkMute(out), nil
}

// ToggleMute flips the default sink's mute state.
func (p *Pactl) ToggleMute(ctx context.Context) error {
	if _, err := p.run(ctx, "set-sink-mute", defaultSink, "toggle"); err != nil {
		return fmt.Errorf("pactl toggle mute: %w", err)
	}
	return nil
}

// AdjustVolume changes the default sink's volume by delta percent.
func (p *Pactl) AdjustVolume(ctx context.Context, delta int) error {
	if _, err := p.run(ctx, "set-sink-volume", defaultSink, fmt.Sprintf("%+d%%", delta)); err != nil {
		return fmt.Errorf("pactl set volume: %w", err)
	}
	return nil
}

func (p *Pactl) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, p.Command, args...)
	cmd.Env = append(cmd.Environ(), "LC_ALL=C")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = strings.TrimSpace(stdout.String())
		}
		return "", fmt.Errorf("%s: %w", errMsg, err)
	}
	return stdout.String(), nil
}

var percentRe = regexp.MustCompile(`(\d+)%`)

// parseSinkVolume averages the per-channel percentages of
// "Volume: front-left: 32768 /  50% / -18.06 dB,   front-right: ...".
func parseSinkVolume(out string) (int, error) {
	line, _, _ := strings.Cut(out, "\n")
	matches := percentRe.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("no volume in %q", strings.TrimSpace(line))
	}
	sum := 0
	for _, m := range matches {
		n, _ := strconv.Atoi(m[1])
		sum += n
	}
	return (sum + len(matches)/2) / len(matches), nil
}

func parseSinkMute(out string) bool {
	return strings.Contains(strings.ToLower(out), "mute: yes")
}
