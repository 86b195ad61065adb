package observability

import (
	"testing"
	"time"
)

func TestMetricsSnapshotCopiesCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/workload", "GET", 200, time.Millisecond)
	m.RecordRequest("/api/workload", "GET", 200, time.Millisecond)
	m.RecordError("/api/tickets/:key", "GET", "NOT_FOUND")
	m.RecordAction("post_comment", false)
	m.RecordRanked(3)

	snap := m.Snapshot()
	if got := snap.Requests["/api/workload|GET|200"]; got != 2 {
		t.Fatalf("requests = %d, want 2", got)
	}
	if got := snap.Errors["/api/tickets/:key|GET|NOT_FOUND"]; got != 1 {
		t.Fatalf("errors = %d, want 1", got)
	}
	if got := snap.Actions["post_comment|false"]; got != 1 {
		t.Fatalf("actions = %d, want 1", got)
	}
	if snap.Ranked != 3 {
		t.Fatalf("ranked = %d, want 3", snap.Ranked)
	}

	snap.Requests["/api/workload|GET|200"] = 99
	if got := m.Snapshot().Requests["/api/workload|GET|200"]; got != 2 {
		t.Fatalf("snapshot must not alias internal state, got %d", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordAction("x", true)
	m.RecordRanked(1)
	if snap := m.Snapshot(); snap.Ranked != 0 {
		t.Fatalf("nil metrics should report zero")
	}
}
