package scheduler

import (
	"testing"
	"time"
)

// TestNew_ValidSpec registers the job and reports a future firing time.
func TestNew_ValidSpec(t *testing.T) {
	s, err := New("0 8 * * *", time.UTC, func() {})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Start()
	defer s.Stop()

	next := s.NextRun()
	if next.IsZero() {
		t.Fatal("NextRun is zero after Start")
	}
	if !next.After(time.Now()) {
		t.Errorf("NextRun = %v, want a future time", next)
	}
	if next.Hour() != 8 || next.Minute() != 0 {
		t.Errorf("NextRun = %v, want 08:00", next)
	}
}

// TestNew_InvalidSpec rejects malformed cron expressions.
func TestNew_InvalidSpec(t *testing.T) {
	if _, err := New("not a cron spec", time.UTC, func() {}); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

// TestScheduler_FiresJob runs a tightly scheduled job at least once.
func TestScheduler_FiresJob(t *testing.T) {
	fired := make(chan struct{}, 1)
	s, err := New("@every 100ms", time.UTC, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Start()
	defer s.Stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("job never fired")
	}
}
