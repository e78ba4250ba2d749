package bar

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Scheduler runs one update loop per registry entry. Loops are independent:
// a slow or failing block only delays itself.
type Scheduler struct {
	reg    *Registry
	events chan<- LogEntry
	wg     sync.WaitGroup
}

// NewScheduler creates a Scheduler for reg. Update failures are reported on
// events, which may be nil.
func NewScheduler(reg *Registry, events chan<- LogEntry) *Scheduler {
	return &Scheduler{reg: reg, events: events}
}

// Run starts every update loop and blocks until ctx is cancelled and all
// loops have exited.
func (s *Scheduler) Run(ctx context.Context) {
	for _, e := range s.reg.Entries() {
		s.wg.Add(1)
		go s.loop(ctx, e)
	}
	s.wg.Wait()
}

// loop updates e immediately and then once per interval. A Never interval
// returns after the first update.
func (s *Scheduler) loop(ctx context.Context, e *Entry) {
	defer s.wg.Done()

	reportUpdate(s.events, e.Name(), e.update(ctx))
	if e.Interval() <= Never {
		return
	}

	ticker := time.NewTicker(e.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reportUpdate(s.events, e.Name(), e.update(ctx))
		}
	}
}

// reportUpdate logs a failed update, or the end of a failure streak.
func reportUpdate(events chan<- LogEntry, name string, rep updateReport) {
	switch {
	case rep.err != nil:
		emit(events, LogEntry{
			Kind:     LogUpdateFailed,
			Block:    name,
			Message:  fmt.Sprintf("%s: update failed: %v", name, rep.err),
			Failures: rep.failures,
			Repeated: rep.repeated,
		})
	case rep.recovered > 0:
		emit(events, LogEntry{
			Kind:     LogRecovered,
			Block:    name,
			Message:  fmt.Sprintf("%s: recovered after %d failed updates", name, rep.recovered),
			Failures: rep.recovered,
		})
	}
}
