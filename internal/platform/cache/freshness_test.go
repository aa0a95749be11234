package cache

import (
	"testing"
	"time"
)

func TestFreshnessTracker_FilterNew(t *testing.T) {
	t.Parallel()

	tracker := NewFreshnessTracker(5 * time.Minute)
	now := time.Date(2026, 1, 18, 19, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return now }

	fresh := tracker.FilterNew([]string{"e1", "e2"})
	if len(fresh) != 2 {
		t.Fatalf("expected both ids new on first sight, got %v", fresh)
	}

	// Inside the window everything is stale.
	now = now.Add(2 * time.Minute)
	if fresh := tracker.FilterNew([]string{"e1", "e2"}); len(fresh) != 0 {
		t.Fatalf("expected no new ids inside window, got %v", fresh)
	}

	// The stale pass above re-stamped e1/e2, so only the unseen id is new.
	now = now.Add(4 * time.Minute)
	fresh = tracker.FilterNew([]string{"e1", "e3"})
	if len(fresh) != 1 || fresh[0] != "e3" {
		t.Fatalf("expected only e3 new, got %v", fresh)
	}

	// Past the window an old id becomes new again.
	now = now.Add(6 * time.Minute)
	fresh = tracker.FilterNew([]string{"e2"})
	if len(fresh) != 1 || fresh[0] != "e2" {
		t.Fatalf("expected e2 new past window, got %v", fresh)
	}
}

func TestFreshnessTracker_Prune(t *testing.T) {
	t.Parallel()

	tracker := NewFreshnessTracker(5 * time.Minute)
	now := time.Date(2026, 1, 18, 19, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return now }

	tracker.FilterNew([]string{"old-1", "old-2"})
	now = now.Add(25 * time.Hour)
	tracker.FilterNew([]string{"recent"})

	if removed := tracker.Prune(24 * time.Hour); removed != 2 {
		t.Fatalf("pruned %d entries, want 2", removed)
	}
	if got := tracker.Len(); got != 1 {
		t.Fatalf("tracker size %d after prune, want 1", got)
	}
}
