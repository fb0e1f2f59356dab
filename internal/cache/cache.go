// Package cache provides the process-local TTL response cache shared by all
// request handlers, with request coalescing across concurrent misses.
package cache

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[T any] struct {
	value    T
	storedAt time.Time
}

// Store is a keyed TTL cache. A single mutex guards the map; hold times are
// map-lookup sized and the lock is never held across an upstream call.
// Expired entries are removed lazily when a read encounters them, there is
// no background sweep.
type Store[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     func() time.Time
	group   singleflight.Group
}

// New creates a store whose entries are readable for ttl after insertion.
func New[T any](ttl time.Duration) *Store[T] {
	return NewWithClock[T](ttl, time.Now)
}

// NewWithClock is New with an injected clock, for deterministic tests.
func NewWithClock[T any](ttl time.Duration, now func() time.Time) *Store[T] {
	return &Store[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the value for key if it was stored less than TTL ago. An
// expired entry encountered here is deleted.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if s.now().Sub(e.storedAt) >= s.ttl {
		delete(s.entries, key)
		var zero T
		return zero, false
	}
	return e.value, true
}

// Put overwrites the entry for key and resets its insertion time.
func (s *Store[T]) Put(key string, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[T]{value: v, storedAt: s.now()}
}

// Fetch returns the cached value for key, or resolves it with fn. Concurrent
// misses on the same key share a single fn call instead of each hitting the
// upstream. A successful result is stored before being returned; an error is
// handed to every waiter and never cached, so the next request retries.
// The second return reports whether the value came from the cache.
func (s *Store[T]) Fetch(key string, fn func() (T, error)) (T, bool, error) {
	if v, ok := s.Get(key); ok {
		return v, true, nil
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		// A coalesced caller may have stored the value while we queued.
		if v, ok := s.Get(key); ok {
			return v, nil
		}
		v, err := fn()
		if err != nil {
			return nil, err
		}
		s.Put(key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v.(T), false, nil
}

// Len reports the number of stored entries, expired or not. Used by the
// health endpoint.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// TTL returns the configured entry lifetime.
func (s *Store[T]) TTL() time.Duration {
	return s.ttl
}

// Key builds the cache key for one query kind and keyword.
func Key(kind, keyword string) string {
	return kind + "_" + Normalize(keyword)
}

// Normalize trims and lower-cases a keyword so "Go" and " go " resolve to
// the same cache entry.
func Normalize(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}
