package components

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewLogView(t *testing.T) {
	lv := NewLogView(80, 24, 0)
	if !lv.Following() {
		t.Error("NewLogView: expected follow mode to be enabled by default")
	}
	if lv.width != 80 || lv.height != 24 {
		t.Errorf("dimensions: got %dx%d, want 80x24", lv.width, lv.height)
	}
	if lv.maxLines != DefaultMaxLines {
		t.Errorf("maxLines = %d, want %d", lv.maxLines, DefaultMaxLines)
	}
}

func TestLogView_AppendLine(t *testing.T) {
	lv := NewLogView(80, 10, 0)
	for _, l := range []string{"volume: update failed", "volume: recovered", "media: left click"} {
		lv = lv.AppendLine(l)
	}
	if lv.Len() != 3 {
		t.Errorf("expected 3 lines, got %d", lv.Len())
	}
	view := lv.View()
	for _, want := range []string{"update failed", "recovered", "left click"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q: %q", want, view)
		}
	}
}

func TestLogView_AppendLineDropsOldest(t *testing.T) {
	lv := NewLogView(80, 10, 3)
	for i := 0; i < 5; i++ {
		lv = lv.AppendLine(fmt.Sprintf("line %d", i))
	}
	if lv.Len() != 3 {
		t.Fatalf("expected 3 retained lines, got %d", lv.Len())
	}
	if lv.lines[0] != "line 2" || lv.lines[2] != "line 4" {
		t.Errorf("retained %v, want lines 2..4", lv.lines)
	}
}

func TestLogView_ToggleFollow(t *testing.T) {
	lv := NewLogView(80, 10, 0)
	lv = lv.ToggleFollow()
	if lv.Following() {
		t.Error("after first toggle follow should be false")
	}
	lv = lv.ToggleFollow()
	if !lv.Following() {
		t.Error("after second toggle follow should be true")
	}
}

func TestLogView_SetSize(t *testing.T) {
	lv := NewLogView(80, 10, 0)
	lv = lv.SetSize(100, 20)
	if lv.width != 100 || lv.height != 20 {
		t.Errorf("SetSize: got %dx%d, want 100x20", lv.width, lv.height)
	}
	if lv.vp.Width != 100 || lv.vp.Height != 20 {
		t.Errorf("viewport dimensions: got %dx%d, want 100x20", lv.vp.Width, lv.vp.Height)
	}
}

// scrollableLV returns a LogView scrolled to the top of more content than
// fits.
func scrollableLV(t *testing.T) LogView {
	t.Helper()
	lv := NewLogView(80, 2, 0)
	for i := 0; i < 20; i++ {
		lv = lv.AppendLine(fmt.Sprintf("line %02d", i))
	}
	lv.vp.YOffset = 0
	if lv.vp.AtBottom() {
		t.Skip("viewport content does not exceed height")
	}
	return lv
}

func TestLogView_Update(t *testing.T) {
	tests := []struct {
		name       string
		msg        tea.Msg
		wantFollow bool
	}{
		{"key scroll leaves follow", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}, false},
		{"mouse wheel leaves follow", tea.MouseMsg{Button: tea.MouseButtonWheelUp}, false},
		{"resize keeps follow", tea.WindowSizeMsg{Width: 80, Height: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lv, _ := scrollableLV(t).Update(tt.msg)
			if lv.Following() != tt.wantFollow {
				t.Errorf("Following() = %v, want %v", lv.Following(), tt.wantFollow)
			}
		})
	}
}

func TestLogView_Update_AtBottom(t *testing.T) {
	lv := NewLogView(80, 100, 0)
	for i := 0; i < 3; i++ {
		lv = lv.AppendLine(fmt.Sprintf("line %d", i))
	}
	if !lv.vp.AtBottom() {
		t.Skip("expected viewport to be at bottom for this test case")
	}
	lv2, _ := lv.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if !lv2.Following() {
		t.Error("expected follow mode to remain on when viewport is at bottom")
	}
}
