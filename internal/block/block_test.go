package block

import (
	"context"
	"encoding/json"
	"testing"
)

func TestBaseDefaults(t *testing.T) {
	b := &Base{BlockName: "clock", Text: "12:30"}

	if got := b.Color(); got != DefaultColor {
		t.Errorf("Color() = %q, want %q", got, DefaultColor)
	}

	segs := b.Render()
	if len(segs) != 1 {
		t.Fatalf("Render() returned %d segments, want 1", len(segs))
	}
	want := Segment{Name: "clock", Text: "12:30", Color: DefaultColor}
	if segs[0] != want {
		t.Errorf("Render()[0] = %+v, want %+v", segs[0], want)
	}

	changed, err := b.HandleInput(context.Background(), Event{Name: "clock", Button: ButtonLeft})
	if err != nil {
		t.Fatalf("HandleInput: %v", err)
	}
	if changed {
		t.Error("default HandleInput should report no change")
	}
	if err := b.Update(context.Background()); err != nil {
		t.Errorf("default Update: %v", err)
	}
}

func TestBaseColorOverride(t *testing.T) {
	b := &Base{BlockName: "volume", BlockColor: Red}
	if got := b.Render()[0].Color; got != Red {
		t.Errorf("segment color = %q, want %q", got, Red)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"red", Red, true},
		{"light_blue", LightBlue, true},
		{"Light-Cyan", LightCyan, true},
		{"#A1b2C3", Color("#A1b2C3"), true},
		{"#12345", "", false},
		{"chartreuse", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseColor(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestButtonString(t *testing.T) {
	if got := ButtonScrollUp.String(); got != "scroll-up" {
		t.Errorf("ButtonScrollUp.String() = %q", got)
	}
	if got := Button(42).String(); got != "button(42)" {
		t.Errorf("Button(42).String() = %q", got)
	}
}

func TestEventDecodesHostFields(t *testing.T) {
	line := `{"name":"media_title","button":3,"modifiers":["Shift"],"x":1900,"y":10,"relative_x":12,"relative_y":8,"output_x":1900,"output_y":10,"width":80,"height":22}`

	var ev Event
	if err := json.Unmarshal([]byte(line), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Name != "media_title" || ev.Button != ButtonRight {
		t.Errorf("got name=%q button=%v", ev.Name, ev.Button)
	}
	if len(ev.Modifiers) != 1 || ev.Modifiers[0] != "Shift" {
		t.Errorf("modifiers = %v", ev.Modifiers)
	}
	if ev.RelativeX != 12 || ev.Width != 80 || ev.Height != 22 {
		t.Errorf("geometry not decoded: %+v", ev)
	}
}
