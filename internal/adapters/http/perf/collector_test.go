package perf

import (
	"sync"
	"testing"
	"time"
)

// TestCollector_Record_And_Snapshot verifies basic record and snapshot functionality.
func TestCollector_Record_And_Snapshot(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Route: "GET /api/holidays", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Route: "GET /api/holidays", StatusCode: 200, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Route: "GET /", StatusCode: 200, DurationMs: 5, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRequests != 3 {
		t.Errorf("TotalRequests = %d, want 3", snap.TotalRequests)
	}
	if len(snap.SlowestRoutes) != 2 {
		t.Fatalf("SlowestRoutes len = %d, want 2", len(snap.SlowestRoutes))
	}
	if snap.SlowestRoutes[0].Route != "GET /api/holidays" || snap.SlowestRoutes[0].AvgMs != 20 {
		t.Errorf("slowest = %+v", snap.SlowestRoutes[0])
	}
}

// TestCollector_RingBuffer_Overwrites verifies oldest entries are overwritten when full.
func TestCollector_RingBuffer_Overwrites(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()

	for i := 0; i < 5; i++ {
		c.Record(Entry{Route: "GET /x", DurationMs: float64(i), Timestamp: now})
	}

	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded = %d, want 5", c.TotalRecorded())
	}

	// Buffer of size 3 should only have entries 2,3,4 (overwrote 0,1)
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if len(snap.SlowestRoutes) != 1 {
		t.Fatalf("SlowestRoutes len = %d, want 1", len(snap.SlowestRoutes))
	}
	if snap.SlowestRoutes[0].Count != 3 {
		t.Errorf("Count = %d, want 3 (ring buffer kept last 3)", snap.SlowestRoutes[0].Count)
	}
}

// TestCollector_Percentiles verifies P50/P95/P99 calculation.
func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()

	// 1..100 ms
	for i := 1; i <= 100; i++ {
		c.Record(Entry{Route: "GET /x", DurationMs: float64(i), Timestamp: now})
	}

	snap := c.Snapshot(now.Add(-time.Minute), 5)
	if snap.P50Ms < 49 || snap.P50Ms > 52 {
		t.Errorf("P50Ms = %v, want ~50", snap.P50Ms)
	}
	if snap.P95Ms < 94 || snap.P95Ms > 97 {
		t.Errorf("P95Ms = %v, want ~95", snap.P95Ms)
	}
	if snap.P99Ms < 98 || snap.P99Ms > 100 {
		t.Errorf("P99Ms = %v, want ~99", snap.P99Ms)
	}
}

// TestCollector_SinceFilter excludes entries older than the window.
func TestCollector_SinceFilter(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()

	c.Record(Entry{Route: "GET /old", DurationMs: 1, Timestamp: now.Add(-time.Hour)})
	c.Record(Entry{Route: "GET /new", DurationMs: 2, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if len(snap.SlowestRoutes) != 1 || snap.SlowestRoutes[0].Route != "GET /new" {
		t.Errorf("routes = %+v", snap.SlowestRoutes)
	}
}

// TestCollector_ConcurrentRecord exercises Record under contention.
func TestCollector_ConcurrentRecord(t *testing.T) {
	c := NewCollector(64)
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Record(Entry{Route: "GET /x", DurationMs: 1, Timestamp: now})
			}
		}()
	}
	wg.Wait()

	if c.TotalRecorded() != 800 {
		t.Errorf("TotalRecorded = %d, want 800", c.TotalRecorded())
	}
}
