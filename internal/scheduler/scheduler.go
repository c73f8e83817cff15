// Package scheduler runs the daily reminder job on a cron expression in the
// configured timezone.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the cron runner for the daily check.
type Scheduler struct {
	cron *cron.Cron
	spec string
}

// New creates a scheduler that fires job according to spec (standard 5-field
// cron syntax) in the given location.
// PRE: spec is a valid cron expression, loc is non-nil
// POST: Returns a stopped scheduler with the job registered
func New(spec string, loc *time.Location, job func()) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("register daily job %q: %w", spec, err)
	}
	return &Scheduler{cron: c, spec: spec}, nil
}

// Start begins firing the registered job in its own goroutine.
// PRE: s was created with New
// POST: Cron runner is active
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler_event", "event", "scheduler_started", "spec", s.spec)
}

// Stop halts the cron runner and waits for an in-flight job to finish.
// PRE: Start was called
// POST: No further firings occur
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("scheduler_event", "event", "scheduler_stopped")
}

// NextRun reports when the job will fire next.
// PRE: Start was called
// POST: Returns the next firing time, zero if none is scheduled
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
