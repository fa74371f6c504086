// Package cache provides planner.GenerationCache implementations.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tendant/content-planner/pkg/planner"
)

type entry struct {
	value     planner.GeneratedContent
	expiresAt time.Time
}

// Memory is an in-process GenerationCache holding at most maxEntries values.
// Expired entries are dropped lazily on read and when the cache is full; if
// nothing has expired the entry closest to expiry makes room.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]entry
	maxEntries int
	now        func() time.Time
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{
		entries:    make(map[string]entry),
		maxEntries: 1024,
		now:        time.Now,
	}
}

var _ planner.GenerationCache = (*Memory)(nil)

func (m *Memory) Get(ctx context.Context, key string) (*planner.GeneratedContent, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return cloneGenerated(&e.value), true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value *planner.GeneratedContent, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.makeRoom(now)
	}
	m.entries[key] = entry{value: *cloneGenerated(value), expiresAt: now.Add(ttl)}
	return nil
}

func (m *Memory) makeRoom(now time.Time) {
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
			continue
		}
		if oldestKey == "" || e.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt = k, e.expiresAt
		}
	}
	if len(m.entries) >= m.maxEntries && oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}

func cloneGenerated(g *planner.GeneratedContent) *planner.GeneratedContent {
	c := *g
	c.TitleIdeas = append([]string(nil), g.TitleIdeas...)
	c.Hashtags = append([]string(nil), g.Hashtags...)
	return &c
}
