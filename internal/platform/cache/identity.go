package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/courtline/odds-ingestion/internal/platform/resilience"
)

// IdentityCache maps external event ids to internal game ids. It is a
// performance layer over an idempotent, persistently-backed resolution,
// so coarse full-clear eviction is safe.
type IdentityCache struct {
	mu      sync.RWMutex
	entries map[string]uuid.UUID
	flight  resilience.SingleFlight
}

func NewIdentityCache() *IdentityCache {
	return &IdentityCache{
		entries: make(map[string]uuid.UUID),
	}
}

func (c *IdentityCache) Get(externalID string) (uuid.UUID, bool) {
	c.mu.RLock()
	id, ok := c.entries[externalID]
	c.mu.RUnlock()
	return id, ok
}

// GetOrCreate returns the cached id for externalID, invoking factory at
// most once across concurrent callers for the same id. A factory error
// leaves no entry, so a later call retries.
func (c *IdentityCache) GetOrCreate(ctx context.Context, externalID string, factory func(context.Context) (uuid.UUID, error)) (uuid.UUID, error) {
	if factory == nil {
		return uuid.Nil, fmt.Errorf("factory is required")
	}
	if externalID == "" {
		return uuid.Nil, fmt.Errorf("external id is required")
	}

	if id, ok := c.Get(externalID); ok {
		return id, nil
	}

	val, err, _ := c.flight.Do(externalID, func() (any, error) {
		// Re-check after winning the flight: another caller may have
		// populated the entry between our read miss and here.
		if id, ok := c.Get(externalID); ok {
			return id, nil
		}

		id, factoryErr := factory(ctx)
		if factoryErr != nil {
			return uuid.Nil, factoryErr
		}

		c.mu.Lock()
		c.entries[externalID] = id
		c.mu.Unlock()
		return id, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return val.(uuid.UUID), nil
}

func (c *IdentityCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// MaybeEvict drops every entry once the cache grows past threshold.
// Reports whether an eviction happened.
func (c *IdentityCache) MaybeEvict(threshold int) bool {
	if threshold < 1 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) <= threshold {
		return false
	}
	c.entries = make(map[string]uuid.UUID)
	return true
}
