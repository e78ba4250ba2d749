// Package store persists bar log entries to a JSONL session log and indexes
// failure incidents so they can be read back. One store instance is created
// per barline process in cmd/barline.
package store

import (
	"time"

	"github.com/LISSConsulting/LISSTech.Barline/internal/bar"
)

// Writer persists bar log entries to durable storage.
type Writer interface {
	Append(entry bar.LogEntry) error
	Close() error
}

// Reader retrieves past incidents from storage.
type Reader interface {
	Incidents() ([]Incident, error)
	IncidentLog(n int) ([]bar.LogEntry, error)
	SessionSummary() (SessionSummary, error)
}

// Store combines Writer and Reader into a single session-scoped handle.
type Store interface {
	Writer
	Reader
}

// Incident is one failure streak of a block: from its first failed update to
// the update that recovered it.
type Incident struct {
	Number    int
	Block     string
	Failures  int    // failed updates in the streak
	FirstErr  string // message of the first failure
	StartAt   time.Time
	EndAt     time.Time // zero while the block is still failing
	Recovered bool
}

// SessionSummary summarises the current session.
type SessionSummary struct {
	SessionID string
	StartedAt time.Time
	Entries   int
	Incidents int
	Open      []string // blocks failing right now, sorted
}
