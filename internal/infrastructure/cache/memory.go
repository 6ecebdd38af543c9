package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is a process-local TTL cache. It is safe for concurrent use.
//
// Every Delete bumps a generation counter. Readers that compute a snapshot
// take the generation first and store with SetIfGeneration, so a snapshot
// computed across an invalidation is dropped instead of cached.
type Memory struct {
	store *gocache.Cache

	mu         sync.Mutex
	generation uint64
}

func NewMemory(defaultTTL, cleanupInterval time.Duration) *Memory {
	return &Memory{store: gocache.New(defaultTTL, cleanupInterval)}
}

func (m *Memory) Get(key string) (any, bool) {
	return m.store.Get(key)
}

// Set stores value under key. A zero ttl uses the cache default.
func (m *Memory) Set(key string, value any, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	m.store.Set(key, value, ttl)
}

func (m *Memory) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// SetIfGeneration stores value only when no Delete happened since gen was read.
func (m *Memory) SetIfGeneration(key string, value any, ttl time.Duration, gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation != gen {
		return false
	}
	m.Set(key, value, ttl)
	return true
}

func (m *Memory) Delete(keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	for _, key := range keys {
		m.store.Delete(key)
	}
}
