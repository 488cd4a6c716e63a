// Package cache provides the in-memory implementation of port.Cache.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// DefaultMaxEntries bounds the memory cache when no limit is given.
const DefaultMaxEntries = 1000

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a thread-safe TTL cache. When full, expired entries are purged first,
// then the entry closest to expiry is evicted.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]entry
	maxEntries int
	nowFunc    func() time.Time
}

// NewMemory creates a cache holding at most maxEntries values; 0 means DefaultMaxEntries.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		nowFunc:    time.Now,
	}
}

// Get returns a copy of the value stored under key. Expired entries are deleted and reported as misses.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !m.nowFunc().Before(e.expiresAt) {
		m.mu.Lock()
		// another writer may have refreshed the key meanwhile
		if cur, still := m.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

// Set stores a copy of value for ttl. A non-positive ttl deletes the key.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ttl <= 0 {
		delete(m.entries, key)
		return nil
	}

	now := m.nowFunc()
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.purgeExpiredLocked(now)
		if len(m.entries) >= m.maxEntries {
			m.evictSoonestLocked()
		}
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.entries[key] = entry{value: stored, expiresAt: now.Add(ttl)}
	return nil
}

// Delete removes key.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// Cleanup removes every expired entry and returns how many were removed.
func (m *Memory) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.purgeExpiredLocked(m.nowFunc())
}

// Len returns the number of stored entries, expired ones included until cleaned up.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) purgeExpiredLocked(now time.Time) int {
	removed := 0
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

func (m *Memory) evictSoonestLocked() {
	var (
		victim string
		soon   time.Time
	)
	for k, e := range m.entries {
		if victim == "" || e.expiresAt.Before(soon) {
			victim, soon = k, e.expiresAt
		}
	}
	delete(m.entries, victim)
}

// GenerateKey creates a cache key from a namespace and JSON-serializable parameters.
func GenerateKey(namespace string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", namespace, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", namespace, hash[:16])
}
