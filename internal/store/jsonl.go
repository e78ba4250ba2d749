package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/LISSConsulting/LISSTech.Barline/internal/bar"
)

// JSONL is a Store backed by an append-only JSONL file. Each line is a
// JSON-serialized bar.LogEntry.
//
// Session identity: "<unix-timestamp>-<pid>.jsonl", one file per process.
type JSONL struct {
	file      *os.File
	mu        sync.Mutex
	idx       *fileIndex
	sessionID string
	startedAt time.Time
	pos       int64 // current write position in the file
	readOnly  bool
}

// NewJSONL creates the session JSONL log in dir. dir is created with
// os.MkdirAll if it does not exist.
func NewJSONL(dir string) (*JSONL, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: mkdir %q: %w", dir, err)
	}
	now := time.Now()
	sessionID := fmt.Sprintf("%d-%d", now.Unix(), os.Getpid())
	path := filepath.Join(dir, sessionID+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	pos, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("store: seek: %w", err)
	}
	return &JSONL{
		file:      f,
		idx:       newFileIndex(),
		sessionID: sessionID,
		startedAt: now,
		pos:       pos,
	}, nil
}

// OpenJSONL opens an existing session log read-only and rebuilds its index,
// so Incidents, IncidentLog and SessionSummary work on past sessions.
// Append fails on the returned store.
func OpenJSONL(path string) (*JSONL, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	j := &JSONL{
		file:      f,
		idx:       newFileIndex(),
		sessionID: strings.TrimSuffix(filepath.Base(path), ".jsonl"),
		readOnly:  true,
	}

	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			offset := j.pos
			j.pos += int64(len(line))
			var e bar.LogEntry
			if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 && json.Unmarshal(trimmed, &e) == nil {
				if j.startedAt.IsZero() {
					j.startedAt = e.Timestamp
				}
				j.idx.onAppend(e, offset, int64(len(line)))
			}
		}
		if errors.Is(err, io.EOF) {
			return j, nil
		}
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("store: read %q: %w", path, err)
		}
	}
}

// Path returns the session file path.
func (j *JSONL) Path() string { return j.file.Name() }

// Append serializes entry as a JSON line and writes it to the file. It is
// safe to call from multiple goroutines. The file is synced on Close only.
func (j *JSONL) Append(entry bar.LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	lineOffset := j.pos
	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	lineLen := int64(len(data))
	j.pos += lineLen
	j.idx.onAppend(entry, lineOffset, lineLen)
	return nil
}

// Close syncs and closes the underlying file.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.readOnly {
		return j.file.Close()
	}
	return errors.Join(j.file.Sync(), j.file.Close())
}

// Incidents returns every incident of this session, open ones included.
// The returned slice is a copy and safe to mutate.
func (j *JSONL) Incidents() ([]Incident, error) {
	j.mu.Lock()
	result := make([]Incident, len(j.idx.incidents))
	copy(result, j.idx.incidents)
	j.mu.Unlock()
	return result, nil
}

// IncidentLog returns every entry logged between an incident's first failure
// and its recovery, reading from the JSONL file using the in-memory
// byte-offset index. Returns an error if incident n has not recovered (or
// never happened).
func (j *JSONL) IncidentLog(n int) ([]bar.LogEntry, error) {
	j.mu.Lock()
	r, ok := j.idx.ranges[n]
	j.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("store: incident %d not found", n)
	}
	size := r.end - r.start
	if size <= 0 {
		return nil, nil
	}
	buf := make([]byte, size)
	if _, err := j.file.ReadAt(buf, r.start); err != nil {
		return nil, fmt.Errorf("store: read incident %d: %w", n, err)
	}
	var entries []bar.LogEntry
	for _, line := range bytes.Split(buf, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var e bar.LogEntry
		if err := json.Unmarshal(line, &e); err != nil {
			log.Printf("store: skipping malformed line in incident %d: %v", n, err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// SessionSummary returns metadata about the current session derived from
// the in-memory index.
func (j *JSONL) SessionSummary() (SessionSummary, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return SessionSummary{
		SessionID: j.sessionID,
		StartedAt: j.startedAt,
		Entries:   j.idx.entries,
		Incidents: len(j.idx.incidents),
		Open:      j.idx.openBlocks(),
	}, nil
}

// sessionFiles returns the .jsonl file names in dir, oldest first.
func sessionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files) // timestamp-prefixed names sort chronologically
	return files, nil
}

// EnforceRetention removes the oldest session log files in dir, keeping at most
// maxKeep files. If maxKeep is 0, no files are removed. Returns nil if dir does
// not exist or is empty.
func EnforceRetention(dir string, maxKeep int) error {
	if maxKeep <= 0 {
		return nil
	}
	files, err := sessionFiles(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: read dir %q: %w", dir, err)
	}

	toDelete := len(files) - maxKeep
	for i := 0; i < toDelete; i++ {
		path := filepath.Join(dir, files[i])
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("store: remove %q: %w", path, err)
		}
	}
	return nil
}

// LatestSession returns the path of the newest session log in dir.
func LatestSession(dir string) (string, error) {
	files, err := sessionFiles(dir)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("store: read dir %q: %w", dir, err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("store: no session logs in %s", dir)
	}
	return filepath.Join(dir, files[len(files)-1]), nil
}

// Tail returns the last n entries of the session log at path, or all of
// them when n <= 0. Malformed lines are skipped.
func Tail(path string, n int) ([]bar.LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	defer f.Close()

	var entries []bar.LogEntry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e bar.LogEntry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
		if n > 0 && len(entries) > n {
			entries = entries[1:]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("store: read %q: %w", path, err)
	}
	return entries, nil
}
