package protocol

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// ErrMalformed marks an input line that could not be decoded as an event.
// The stream itself stays usable.
var ErrMalformed = errors.New("protocol: malformed event")

// MalformedError carries the offending line.
type MalformedError struct {
	Line string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("protocol: malformed event %q: %v", e.Line, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Is reports ErrMalformed so callers can use errors.Is.
func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

// MaxLineLength bounds one input line. Longer lines are dropped as
// malformed and reading continues with the next line.
const MaxLineLength = 1024 * 1024

// ErrLineTooLong is the cause carried by a MalformedError for a line over
// MaxLineLength.
var ErrLineTooLong = errors.New("line exceeds maximum length")

// malformedPreview caps the line kept in a MalformedError for oversized input.
const malformedPreview = 64

// Decoder reads click events from the host, one per line.
type Decoder struct {
	r       *bufio.Reader
	started bool
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, 4*1024)}
}

// Next blocks until the next event arrives. The first line of the stream is
// the host's preamble and is discarded. Next returns io.EOF when the stream
// ends and an error matching ErrMalformed for a line that is not an event.
func (d *Decoder) Next() (block.Event, error) {
	if !d.started {
		d.started = true
		if _, _, err := d.readLine(); err != nil {
			return block.Event{}, d.end(err)
		}
	}

	for {
		raw, tooLong, err := d.readLine()
		if err != nil {
			return block.Event{}, d.end(err)
		}
		if tooLong {
			if len(raw) > malformedPreview {
				raw = raw[:malformedPreview]
			}
			return block.Event{}, &MalformedError{Line: string(raw) + "...", Err: ErrLineTooLong}
		}

		line := strings.TrimSpace(string(raw))
		line = strings.TrimSpace(strings.TrimLeft(line, ","))
		if line == "" {
			continue
		}

		var ev block.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return block.Event{}, &MalformedError{Line: line, Err: err}
		}
		return ev, nil
	}
}

// readLine returns the next line without its terminator. A line longer than
// MaxLineLength is consumed to its end and reported with tooLong set; raw
// then holds only its first bytes. A final line without a newline is
// returned before io.EOF.
func (d *Decoder) readLine() (raw []byte, tooLong bool, err error) {
	var line []byte
	for {
		chunk, readErr := d.r.ReadSlice('\n')
		switch {
		case tooLong:
		case len(line)+len(chunk) > MaxLineLength:
			tooLong = true
			if len(line) < malformedPreview {
				line = append(line, chunk[:min(len(chunk), malformedPreview-len(line))]...)
			}
		default:
			line = append(line, chunk...)
		}

		switch {
		case readErr == nil:
			return trimEOL(line), tooLong, nil
		case errors.Is(readErr, bufio.ErrBufferFull):
			continue
		case errors.Is(readErr, io.EOF) && (len(line) > 0 || tooLong):
			return trimEOL(line), tooLong, nil
		default:
			return nil, false, readErr
		}
	}
}

func trimEOL(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func (d *Decoder) end(err error) error {
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	return fmt.Errorf("protocol: read events: %w", err)
}
