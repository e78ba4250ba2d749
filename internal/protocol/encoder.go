// Package protocol implements the i3bar/swaybar wire format: the header and
// infinite-array framing on the output side, and the click-event stream on
// the input side.
package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// Version is the bar protocol version announced in the header.
const Version = 1

// Header is the first line written to the host bar.
type Header struct {
	Version     int  `json:"version"`
	ClickEvents bool `json:"click_events"`
}

// Encoder writes the output stream. It is not safe for concurrent use; the
// renderer is its only writer.
type Encoder struct {
	w   *bufio.Writer
	buf bytes.Buffer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line and opens the infinite array.
func (e *Encoder) WriteHeader() error {
	data, err := json.Marshal(Header{Version: Version, ClickEvents: true})
	if err != nil {
		return fmt.Errorf("protocol: marshal header: %w", err)
	}
	e.w.Write(data)
	e.w.WriteString("\n[\n")
	if err := e.w.Flush(); err != nil {
		return fmt.Errorf("protocol: write header: %w", err)
	}
	return nil
}

// EncodeFrame writes segs as one comma-terminated JSON array line and flushes.
func (e *Encoder) EncodeFrame(segs []block.Segment) error {
	escaped := make([]block.Segment, len(segs))
	for i, s := range segs {
		escaped[i] = escapeSegment(s)
	}

	e.buf.Reset()
	enc := json.NewEncoder(&e.buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(escaped); err != nil {
		return fmt.Errorf("protocol: marshal frame: %w", err)
	}
	line := bytes.TrimRight(e.buf.Bytes(), "\n")

	e.w.Write(line)
	e.w.WriteString(",\n")
	if err := e.w.Flush(); err != nil {
		return fmt.Errorf("protocol: write frame: %w", err)
	}
	return nil
}

// DecodeFrame parses one frame line as written by EncodeFrame and reverses
// the field escaping.
func DecodeFrame(line []byte) ([]block.Segment, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(string(line)), ",")

	var segs []block.Segment
	if err := json.Unmarshal([]byte(trimmed), &segs); err != nil {
		return nil, fmt.Errorf("protocol: decode frame: %w", err)
	}
	for i := range segs {
		segs[i].Name = Unescape(segs[i].Name)
		segs[i].Text = Unescape(segs[i].Text)
		segs[i].Color = block.Color(Unescape(string(segs[i].Color)))
	}
	return segs, nil
}

func escapeSegment(s block.Segment) block.Segment {
	s.Name = Escape(s.Name)
	s.Text = Escape(s.Text)
	s.Color = block.Color(Escape(string(s.Color)))
	return s
}
