package profile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Store defines the storage operations the Manager needs.
// Implemented by storage.Store.
type Store interface {
	ReplaceProfileFields(fields map[string]string) error
	GetAllProfileFields() (map[string]string, error)
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Manager provides cached, structured access to the session profile.
type Manager struct {
	store Store
	clock Clock
	ttl   time.Duration

	mu       sync.RWMutex
	cached   *Profile
	cachedAt time.Time
}

// NewManager creates a Manager with a 60-second read cache.
func NewManager(store Store) *Manager {
	return NewManagerWithClock(store, realClock{}, 60*time.Second)
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(store Store, clock Clock, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		clock: clock,
		ttl:   ttl,
	}
}

// Get reads the profile from storage (or the read cache) and returns a copy.
// Returns nil when no profile has been saved yet.
func (m *Manager) Get() (*Profile, error) {
	// Fast path: read lock for cache hit.
	m.mu.RLock()
	if m.cached != nil && m.clock.Now().Before(m.cachedAt.Add(m.ttl)) {
		p := copyProfile(m.cached)
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock.
	if m.cached != nil && m.clock.Now().Before(m.cachedAt.Add(m.ttl)) {
		return copyProfile(m.cached), nil
	}

	fields, err := m.store.GetAllProfileFields()
	if err != nil {
		return nil, fmt.Errorf("loading profile fields: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	p := buildProfile(fields)
	m.cached = p
	m.cachedAt = m.clock.Now()
	return copyProfile(p), nil
}

// Replace persists p wholesale, discarding any previously saved profile, and
// invalidates the read cache.
func (m *Manager) Replace(p Profile) error {
	fields := map[string]string{
		"education":  p.Education,
		"experience": p.Experience,
	}
	if len(p.Skills) > 0 {
		b, err := json.Marshal(p.Skills)
		if err != nil {
			return fmt.Errorf("marshalling skills: %w", err)
		}
		fields["skills"] = string(b)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.ReplaceProfileFields(fields); err != nil {
		return fmt.Errorf("replacing profile: %w", err)
	}

	m.cached = nil
	return nil
}

// buildProfile assembles a Profile from flat key-value pairs. The skills
// value is a JSON object of name → level.
func buildProfile(fields map[string]string) *Profile {
	p := &Profile{
		Education:  fields["education"],
		Experience: fields["experience"],
	}
	if v, ok := fields["skills"]; ok && v != "" {
		if err := json.Unmarshal([]byte(v), &p.Skills); err != nil {
			slog.Warn("malformed skills field, skipping", "error", err)
		}
	}
	return p
}

func copyProfile(p *Profile) *Profile {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Skills != nil {
		cp.Skills = make(map[string]int, len(p.Skills))
		for k, v := range p.Skills {
			cp.Skills[k] = v
		}
	}
	return &cp
}
