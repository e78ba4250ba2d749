package blocks

import (
	"fmt"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// SeparatorText is drawn between neighbouring blocks.
const SeparatorText = " ‹ "

// NewSeparator returns a static block named "separator_<n>". It renders the
// same segment forever and ignores input.
func NewSeparator(n int) *block.Base {
	return &block.Base{
		BlockName:  fmt.Sprintf("separator_%d", n),
		BlockColor: block.Gray,
		Text:       SeparatorText,
	}
}
