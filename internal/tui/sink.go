package tui

import (
	"sync"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// FrameSink is a bar.FrameWriter that hands frames to the preview instead
// of encoding them. It keeps only the newest unread frame, so a slow
// terminal never holds up the renderer.
type FrameSink struct {
	ch   chan []block.Segment
	once sync.Once
}

// NewFrameSink creates an empty sink.
func NewFrameSink() *FrameSink {
	return &FrameSink{ch: make(chan []block.Segment, 1)}
}

// WriteHeader is a no-op; the preview has no protocol header.
func (s *FrameSink) WriteHeader() error { return nil }

// EncodeFrame replaces any unread frame with segs. It must not be called
// concurrently or after Close.
func (s *FrameSink) EncodeFrame(segs []block.Segment) error {
	frame := append([]block.Segment(nil), segs...)
	for {
		select {
		case s.ch <- frame:
			return nil
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// Frames returns the channel the preview reads frames from.
func (s *FrameSink) Frames() <-chan []block.Segment { return s.ch }

// Close ends the frame stream. Safe to call more than once.
func (s *FrameSink) Close() {
	s.once.Do(func() { close(s.ch) })
}
