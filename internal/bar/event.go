package bar

import (
	"time"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// LogKind identifies the type of a bar log event.
type LogKind int

const (
	LogInfo           LogKind = iota // General informational message
	LogUpdateFailed                  // A block update returned an error or panicked
	LogRecovered                     // A block updated successfully after failing
	LogInputHandled                  // A click changed a block's state
	LogInputFailed                   // A block rejected a click
	LogEventMalformed                // An input line could not be decoded
	LogEventUnmatched                // No block owns the clicked segment
	LogInputClosed                   // The host closed the event stream
	LogStopped                       // The bar stopped (context cancelled)
)

var logKindNames = map[LogKind]string{
	LogInfo:           "info",
	LogUpdateFailed:   "update_failed",
	LogRecovered:      "recovered",
	LogInputHandled:   "input_handled",
	LogInputFailed:    "input_failed",
	LogEventMalformed: "event_malformed",
	LogEventUnmatched: "event_unmatched",
	LogInputClosed:    "input_closed",
	LogStopped:        "stopped",
}

func (k LogKind) String() string {
	if s, ok := logKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// LogEntry is a structured event emitted by the bar while it runs. Entries
// are sent on the channel given in Options.Events; when that channel is nil
// or full they are dropped.
type LogEntry struct {
	Kind      LogKind
	Timestamp time.Time
	Message   string

	// Block is the name of the block the entry concerns, if any.
	Block string

	// Button is set for input entries.
	Button block.Button `json:",omitempty"`

	// Failures counts consecutive failed updates of Block; on a recovery
	// entry it is the length of the streak that ended. Repeated is set when
	// the failure carries the same error as the previous one.
	Failures int  `json:",omitempty"`
	Repeated bool `json:",omitempty"`
}

// emit sends entry without blocking.
func emit(ch chan<- LogEntry, entry LogEntry) {
	if ch == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	select {
	case ch <- entry:
	default:
	}
}
