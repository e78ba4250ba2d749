package block

import (
	"regexp"
	"strings"
)

// Color is a "#RRGGBB" hex colour string.
type Color string

// The bar palette.
const (
	Gray         Color = "#9C998E"
	Black        Color = "#303030"
	LightBlack   Color = "#767676"
	White        Color = "#cccccc"
	LightWhite   Color = "#FFFFFF"
	Red          Color = "#D65453"
	LightRed     Color = "#FF7777"
	Green        Color = "#48A16F"
	LightGreen   Color = "#80D9A5"
	Yellow       Color = "#C09C4F"
	LightYellow  Color = "#F7E285"
	Blue         Color = "#6780BD"
	LightBlue    Color = "#9DADD0"
	Magenta      Color = "#DF679A"
	LightMagenta Color = "#FF9FD4"
	Cyan         Color = "#4E9E9E"
	LightCyan    Color = "#85D5D4"
)

// DefaultColor is the neutral colour used when a block does not pick one.
const DefaultColor = White

var palette = map[string]Color{
	"gray":          Gray,
	"black":         Black,
	"light_black":   LightBlack,
	"white":         White,
	"light_white":   LightWhite,
	"red":           Red,
	"light_red":     LightRed,
	"green":         Green,
	"light_green":   LightGreen,
	"yellow":        Yellow,
	"light_yellow":  LightYellow,
	"blue":          Blue,
	"light_blue":    LightBlue,
	"magenta":       Magenta,
	"light_magenta": LightMagenta,
	"cyan":          Cyan,
	"light_cyan":    LightCyan,
}

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ParseColor resolves a palette name ("light_red") or a "#RRGGBB" string.
func ParseColor(s string) (Color, bool) {
	if hexColorRe.MatchString(s) {
		return Color(s), true
	}
	c, ok := palette[strings.ToLower(strings.ReplaceAll(s, "-", "_"))]
	return c, ok
}

// Valid reports whether c is a well-formed hex colour.
func (c Color) Valid() bool {
	return hexColorRe.MatchString(string(c))
}
