package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/opsmind/phonesystem/backend/internal/metrics"
	"github.com/opsmind/phonesystem/backend/internal/types"
	"github.com/rs/zerolog"
)

type callEntry struct {
	filter    types.CallFilter
	records   []types.CallRecord
	expiresAt time.Time
}

// CallCache keeps fetched call lists for a short TTL so the table and the
// charts of one dashboard share a single upstream fetch.
type CallCache struct {
	ttl     time.Duration
	entries map[string]callEntry
	now     func() time.Time
	mu      sync.RWMutex
}

// NewCallCache creates a cache; a zero ttl disables it.
func NewCallCache(ttl time.Duration) *CallCache {
	return &CallCache{
		ttl:     ttl,
		entries: make(map[string]callEntry),
		now:     time.Now,
	}
}

// Get returns the cached list for filter if it has not expired.
func (c *CallCache) Get(filter types.CallFilter) ([]types.CallRecord, bool) {
	m := metrics.Get()
	if c.ttl <= 0 {
		m.RecordCacheMiss()
		return nil, false
	}

	c.mu.RLock()
	entry, ok := c.entries[filter.Key()]
	c.mu.RUnlock()

	if !ok || !c.now().Before(entry.expiresAt) {
		m.RecordCacheMiss()
		return nil, false
	}
	m.RecordCacheHit()
	return entry.records, true
}

// Put stores records for filter.
func (c *CallCache) Put(filter types.CallFilter, records []types.CallRecord) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[filter.Key()] = callEntry{
		filter:    filter,
		records:   records,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate drops every entry whose filter names assistantID or, when
// phoneID is set, that phone number. Returns the number dropped.
func (c *CallCache) Invalidate(assistantID, phoneID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for key, entry := range c.entries {
		if (assistantID != "" && strings.EqualFold(entry.filter.AssistantID, assistantID)) ||
			(phoneID != "" && strings.EqualFold(entry.filter.PhoneNumberID, phoneID)) {
			delete(c.entries, key)
			dropped++
		}
	}
	if dropped > 0 {
		metrics.Get().RecordCacheInvalidation(dropped)
	}
	return dropped
}

// Sweep removes expired entries and returns how many were removed.
func (c *CallCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Size returns the current number of cached lists
func (c *CallCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartSweeper evicts expired entries every interval until ctx is done.
func (c *CallCache) StartSweeper(ctx context.Context, interval time.Duration, logger zerolog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info().Dur("interval", interval).Msg("call cache sweeper started")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("call cache sweeper stopped")
			return

		case <-ticker.C:
			if removed := c.Sweep(); removed > 0 {
				logger.Debug().
					Int("removed", removed).
					Int("remaining", c.Size()).
					Msg("expired call lists evicted")
			}
		}
	}
}
