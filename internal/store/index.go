package store

import (
	"sort"

	"github.com/LISSConsulting/LISSTech.Barline/internal/bar"
)

// byteRange is the [start, end) byte range of one incident in the JSONL file.
// start is the offset of the first failure line; end is the first byte after
// the recovery line.
type byteRange struct {
	start int64
	end   int64
}

// fileIndex keeps in-memory byte-offset bookmarks per incident. It is updated
// by onAppend as each entry is written and gives O(1) lookup for IncidentLog
// reads via file.ReadAt. Several blocks may be failing at once, so open
// incidents are tracked per block.
type fileIndex struct {
	incidents []Incident        // closed and open, ordered by start
	ranges    map[int]byteRange // incident Number → byte range, once closed
	open      map[string]*openIncident
	entries   int
}

type openIncident struct {
	startOffset int64
	pos         int // position in incidents
}

func newFileIndex() *fileIndex {
	return &fileIndex{
		ranges: make(map[int]byteRange),
		open:   make(map[string]*openIncident),
	}
}

// onAppend updates the index when an entry line has been appended.
// lineOffset is the byte offset of the first byte of the written line;
// lineLen is the total bytes written (including the trailing newline).
func (idx *fileIndex) onAppend(entry bar.LogEntry, lineOffset, lineLen int64) {
	idx.entries++

	switch entry.Kind {
	case bar.LogUpdateFailed:
		if o, ok := idx.open[entry.Block]; ok {
			idx.incidents[o.pos].Failures = max(idx.incidents[o.pos].Failures+1, entry.Failures)
			return
		}
		idx.incidents = append(idx.incidents, Incident{
			Number:   len(idx.incidents) + 1,
			Block:    entry.Block,
			Failures: max(1, entry.Failures),
			FirstErr: entry.Message,
			StartAt:  entry.Timestamp,
		})
		idx.open[entry.Block] = &openIncident{startOffset: lineOffset, pos: len(idx.incidents) - 1}

	case bar.LogRecovered:
		o, ok := idx.open[entry.Block]
		if !ok {
			return
		}
		inc := &idx.incidents[o.pos]
		inc.EndAt = entry.Timestamp
		inc.Recovered = true
		inc.Failures = max(inc.Failures, entry.Failures)
		idx.ranges[inc.Number] = byteRange{start: o.startOffset, end: lineOffset + lineLen}
		delete(idx.open, entry.Block)
	}
}

// openBlocks returns the names of blocks with an open incident, sorted.
func (idx *fileIndex) openBlocks() []string {
	names := make([]string, 0, len(idx.open))
	for name := range idx.open {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
