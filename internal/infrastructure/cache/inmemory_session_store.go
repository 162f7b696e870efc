package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemorySessionStore is the single-instance store used when Redis is not
// configured. Sessions are kept encoded so callers never share state.
type InMemorySessionStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewInMemorySessionStore creates an empty store
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Save stores an encoded copy of sess that expires after ttl
func (s *InMemorySessionStore) Save(_ context.Context, sess *Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sess.ID] = memoryEntry{data: data, expiresAt: s.now().Add(ttl)}
	return nil
}

// Load decodes the session with id. Expired entries are dropped and answer
// ErrSessionNotFound.
func (s *InMemorySessionStore) Load(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok && !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var sess Session
	if err := json.Unmarshal(entry.data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Delete removes the session with id. A missing id is not an error.
func (s *InMemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Sweep drops expired sessions and returns how many were removed
func (s *InMemorySessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included
func (s *InMemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweeper is a session store that only drops expired entries when asked.
// The Redis store expires keys itself and is not one.
type Sweeper interface {
	Sweep() int
}

// SweepJob returns a scheduled job that sweeps store
func SweepJob(store Sweeper, logger *zap.Logger) func(context.Context) error {
	return func(context.Context) error {
		if n := store.Sweep(); n > 0 {
			logger.Info("Swept expired editor sessions", zap.Int("count", n))
		}
		return nil
	}
}

var (
	_ SessionStore = (*InMemorySessionStore)(nil)
	_ Sweeper      = (*InMemorySessionStore)(nil)
)
