package block

import "fmt"

// Button identifies the mouse button of a click event.
type Button uint8

const (
	ButtonLeft Button = iota + 1
	ButtonMiddle
	ButtonRight
	ButtonScrollUp
	ButtonScrollDown
	ButtonScrollLeft
	ButtonScrollRight
	ButtonBack
	ButtonForward
)

var buttonNames = map[Button]string{
	ButtonLeft:        "left",
	ButtonMiddle:      "middle",
	ButtonRight:       "right",
	ButtonScrollUp:    "scroll-up",
	ButtonScrollDown:  "scroll-down",
	ButtonScrollLeft:  "scroll-left",
	ButtonScrollRight: "scroll-right",
	ButtonBack:        "back",
	ButtonForward:     "forward",
}

// String returns a human-readable button name.
func (b Button) String() string {
	if s, ok := buttonNames[b]; ok {
		return s
	}
	return fmt.Sprintf("button(%d)", uint8(b))
}

// Event is a click or scroll reported by the host bar.
type Event struct {
	Name      string   `json:"name"`
	Instance  string   `json:"instance,omitempty"`
	Button    Button   `json:"button"`
	Modifiers []string `json:"modifiers"`
	X         int      `json:"x"`
	Y         int      `json:"y"`
	RelativeX int      `json:"relative_x"`
	RelativeY int      `json:"relative_y"`
	OutputX   int      `json:"output_x"`
	OutputY   int      `json:"output_y"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
}
