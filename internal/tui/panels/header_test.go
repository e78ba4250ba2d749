package panels

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderHeader_BasicFields(t *testing.T) {
	accent := lipgloss.NewStyle().Background(lipgloss.Color("#6780BD"))
	props := HeaderProps{
		Profile:  "DP-2",
		Blocks:   11,
		Interval: 250 * time.Millisecond,
		Frames:   42,
		Elapsed:  95 * time.Second,
		Clock:    time.Date(2026, 1, 1, 15, 30, 5, 0, time.UTC),
	}

	rendered := RenderHeader(props, 200, accent)

	for _, want := range []string{"barline preview", "profile: DP-2", "blocks: 11", "frame every 250ms", "frames: 42", "up 1m35s", "15:30:05"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("RenderHeader() missing %q; output: %q", want, rendered)
		}
	}
}

func TestRenderHeader_EmptyFieldFallbacks(t *testing.T) {
	rendered := RenderHeader(HeaderProps{}, 200, lipgloss.NewStyle())
	if !strings.Contains(rendered, "profile: —") {
		t.Errorf("RenderHeader() with empty props missing profile fallback; got %q", rendered)
	}
	for _, absent := range []string{"frame every", "up "} {
		if strings.Contains(rendered, absent) {
			t.Errorf("RenderHeader() with empty props should omit %q; got %q", absent, rendered)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{5 * time.Second, "5s"},
		{150 * time.Second, "2m30s"},
		{75 * time.Minute, "1h15m"},
		{1500 * time.Millisecond, "2s"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
