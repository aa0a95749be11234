package usecase

import (
	"sync"
	"time"
)

// Run statuses exposed on the health surface.
const (
	StatusOK          = "ok"
	StatusDegraded    = "degraded"
	StatusUnavailable = "unavailable"
)

const (
	defaultDegradedThreshold    = 5
	defaultUnavailableThreshold = 10
)

// RunState tracks poll cycle outcomes for the health surface.
type RunState struct {
	mu sync.Mutex

	lastRunTime       time.Time
	lastRunCount      int
	consecutiveErrors int

	degradedThreshold    int
	unavailableThreshold int
	now                  func() time.Time
}

func NewRunState(degradedThreshold, unavailableThreshold int) *RunState {
	if degradedThreshold < 1 {
		degradedThreshold = defaultDegradedThreshold
	}
	if unavailableThreshold <= degradedThreshold {
		unavailableThreshold = defaultUnavailableThreshold
	}
	return &RunState{
		degradedThreshold:    degradedThreshold,
		unavailableThreshold: unavailableThreshold,
		now:                  time.Now,
	}
}

func (s *RunState) RecordSuccess(snapshotCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRunTime = s.now()
	s.lastRunCount = snapshotCount
	s.consecutiveErrors = 0
}

func (s *RunState) RecordError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consecutiveErrors++
}

// RunStatus is the read-only view served by the health endpoint.
// Available false signals the harder unavailability threshold.
type RunStatus struct {
	Status            string
	Available         bool
	LastRunTime       *time.Time
	LastRunCount      int
	ConsecutiveErrors int
}

func (s *RunState) Status() RunStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := StatusOK
	switch {
	case s.consecutiveErrors > s.unavailableThreshold:
		status = StatusUnavailable
	case s.consecutiveErrors > s.degradedThreshold:
		status = StatusDegraded
	}

	out := RunStatus{
		Status:            status,
		Available:         s.consecutiveErrors <= s.unavailableThreshold,
		LastRunCount:      s.lastRunCount,
		ConsecutiveErrors: s.consecutiveErrors,
	}
	if !s.lastRunTime.IsZero() {
		t := s.lastRunTime
		out.LastRunTime = &t
	}
	return out
}
