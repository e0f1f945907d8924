package cache

import (
	"sync"
	"time"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// entry is a cached value with its write timestamp. For a given key there is
// at most one live entry: Put overwrites, it never appends.
type entry struct {
	value     string
	createdAt time.Time
}

// Store is an in-memory key/value cache with read-time TTL checking.
//
// Freshness is evaluated on Get/IsFresh against a per-read TTL; expired
// entries are not evicted eagerly, they are simply treated as misses until
// the next Put overwrites them. There is no size bound — the store lives for
// a single session and holds a small, bounded set of query results, so
// correctness is preferred over capacity management.
type Store struct {
	clock Clock

	mu      sync.RWMutex
	entries map[string]entry
}

// New creates an empty Store.
func New() *Store {
	return NewWithClock(realClock{})
}

// NewWithClock creates a Store with a custom clock (for testing).
func NewWithClock(clock Clock) *Store {
	return &Store{
		clock:   clock,
		entries: make(map[string]entry),
	}
}

// Get returns the value stored under key if it is younger than ttl.
// A stale or absent entry reports ok=false.
func (s *Store) Get(key string, ttl time.Duration) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	if s.clock.Now().Sub(e.createdAt) >= ttl {
		return "", false
	}
	return e.value, true
}

// Put stores value under key with the current timestamp, replacing any
// previous entry and resetting its freshness.
func (s *Store) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, createdAt: s.clock.Now()}
}

// IsFresh reports whether key holds an entry younger than ttl.
func (s *Store) IsFresh(key string, ttl time.Duration) bool {
	_, ok := s.Get(key, ttl)
	return ok
}

// Len returns the number of entries currently held, fresh or stale.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
