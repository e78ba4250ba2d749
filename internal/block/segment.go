package block

// Segment is one named, coloured unit of text in a frame.
type Segment struct {
	Name                string `json:"name"`
	Text                string `json:"full_text"`
	Color               Color  `json:"color"`
	Separator           bool   `json:"separator"`
	SeparatorBlockWidth uint   `json:"separator_block_width"`
}

// NewSegment returns a segment without the host's own separator, matching
// how every block lays itself out.
func NewSegment(name, text string, color Color) Segment {
	return Segment{
		Name:  name,
		Text:  text,
		Color: color,
	}
}
