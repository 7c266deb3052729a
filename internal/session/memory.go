package session

import (
	"context"
	"sync"
	"time"

	"embedding-wrangler/internal/wrangler"
)

// MemoryStore keeps sessions in process memory. Idle sessions expire after
// ttl; expired entries are dropped on access and by a sweep that runs on
// writes at most once per ttl.
type MemoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	sessions  map[string]memoryEntry
	lastSweep time.Time
}

type memoryEntry struct {
	state   wrangler.State
	touched time.Time
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (wrangler.State, error) {
	if !ValidID(id) {
		return wrangler.State{}, ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(id)
	if !ok {
		return wrangler.State{}, nil
	}
	return entry.state.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn wrangler.Update) (wrangler.State, error) {
	if !ValidID(id) {
		return wrangler.State{}, ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.ttl > 0 && now.Sub(s.lastSweep) >= s.ttl {
		s.sweep(now)
	}

	entry, _ := s.lookup(id)
	st := entry.state.Clone()
	fn(&st)
	s.sessions[id] = memoryEntry{state: st, touched: now}
	return st.Clone(), nil
}

// Len reports how many live sessions are held.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id := range s.sessions {
		if _, ok := s.lookup(id); ok {
			n++
		}
	}
	return n
}

func (s *MemoryStore) Close() error {
	return nil
}

// sweep drops every expired entry. It must be called with mu held.
func (s *MemoryStore) sweep(now time.Time) {
	for id, entry := range s.sessions {
		if now.Sub(entry.touched) > s.ttl {
			delete(s.sessions, id)
		}
	}
	s.lastSweep = now
}

// lookup must be called with mu held.
func (s *MemoryStore) lookup(id string) (memoryEntry, bool) {
	entry, ok := s.sessions[id]
	if !ok {
		return memoryEntry{}, false
	}
	if s.ttl > 0 && s.now().Sub(entry.touched) > s.ttl {
		delete(s.sessions, id)
		return memoryEntry{}, false
	}
	return entry, true
}
