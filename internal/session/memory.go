package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps session state in process memory. Used when REDIS_URL is
// empty and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	flashes map[string][]Flash
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
		flashes: make(map[string][]Flash),
		now:     time.Now,
	}
}

func (s *MemoryStore) Revoke(_ context.Context, id string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, k)
		}
	}
	if until.After(now) {
		s.revoked[id] = until
	}
	delete(s.flashes, id)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.revoked[id]
	return ok && exp.After(s.now()), nil
}

func (s *MemoryStore) PushFlash(_ context.Context, id string, f Flash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flashes[id] = append(s.flashes[id], f)
	return nil
}

func (s *MemoryStore) PopFlashes(_ context.Context, id string) ([]Flash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flashes := s.flashes[id]
	delete(s.flashes, id)
	return flashes, nil
}

func (s *MemoryStore) Close() error { return nil }
