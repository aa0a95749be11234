package cache

import (
	"sync"
	"time"
)

// FreshnessTracker remembers when each external event id was last seen,
// so the poller can skip odds re-fetch for events inside the window.
type FreshnessTracker struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
	window   time.Duration
	now      func() time.Time
}

func NewFreshnessTracker(window time.Duration) *FreshnessTracker {
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &FreshnessTracker{
		lastSeen: make(map[string]time.Time),
		window:   window,
		now:      time.Now,
	}
}

// FilterNew returns the ids that are absent or last seen longer than the
// window ago. Every id passed in is stamped with the current time.
func (t *FreshnessTracker) FilterNew(ids []string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	fresh := make([]string, 0, len(ids))
	for _, id := range ids {
		seen, ok := t.lastSeen[id]
		if !ok || now.Sub(seen) > t.window {
			fresh = append(fresh, id)
		}
		t.lastSeen[id] = now
	}
	return fresh
}

// Prune drops entries older than maxAge and reports how many were removed.
func (t *FreshnessTracker) Prune(maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-maxAge)
	removed := 0
	for id, seen := range t.lastSeen {
		if seen.Before(cutoff) {
			delete(t.lastSeen, id)
			removed++
		}
	}
	return removed
}

func (t *FreshnessTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lastSeen)
}
