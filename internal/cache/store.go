package cache

import (
	"context"
	"sync"
	"time"

	"github.com/feral-file/ff-asset-aggregator/internal/adapter"
)

// Store is a TTL'd byte store backing the result cache. Implementations
// must be safe for concurrent use.
//
//go:generate mockgen -source=store.go -destination=../mocks/cache_store.go -package=mocks -mock_names=Store=MockCacheStore
type Store interface {
	// Get returns the value stored at key; found is false on a miss or an
	// expired entry
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value at key with a TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Keys returns all live keys matching the glob pattern
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Del removes the given keys
	Del(ctx context.Context, keys ...string) error
}

// memoryEntry is a value with its expiry deadline
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store for single-replica deployments and
// tests. Expired entries are dropped lazily on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	clock   adapter.Clock
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(clock adapter.Clock) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		clock:   clock,
	}
}

// Get returns the value stored at key
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if s.clock.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores value at key with a TTL
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{
		value:     value,
		expiresAt: s.clock.Now().Add(ttl),
	}
	return nil
}

// Keys returns all live keys matching the glob pattern. Only the trailing
// wildcard form used by the result cache is supported.
func (s *MemoryStore) Keys(_ context.Context, pattern string) ([]string, error) {
	now := s.clock.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			continue
		}
		if matchPattern(pattern, key) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Del removes the given keys
func (s *MemoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

// matchPattern matches a key against a glob pattern with a single optional
// trailing '*'
func matchPattern(pattern, key string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	if pattern[len(pattern)-1] == '*' {
		prefix := pattern[:len(pattern)-1]
		return len(key) >= len(prefix) && key[:len(prefix)] == prefix
	}
	return pattern == key
}

// RedisStore is a Store backed by redis for multi-replica deployments
type RedisStore struct {
	client adapter.RedisClient
}

// NewRedisStore creates a new redis-backed store
func NewRedisStore(client adapter.RedisClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the value stored at key
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.client.Get(ctx, key)
}

// Set stores value at key with a TTL
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl)
}

// Keys returns all keys matching the glob pattern
func (s *RedisStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	return s.client.Keys(ctx, pattern)
}

// Del removes the given keys
func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...)
}
