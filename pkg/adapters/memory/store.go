package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Store implements ports.LocationStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Location
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Location),
	}
}

// detach copies loc without its matched handlers, which are live values and
// would not survive serialization either.
func detach(loc *domain.Location) *domain.Location {
	out := loc.Clone()
	out.Matched = nil
	return out
}

// Save persists the location in memory.
func (s *Store) Save(ctx context.Context, sessionID string, loc *domain.Location) error {
	copied := detach(loc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves the location from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so callers can't mutate the stored value.
	return detach(loc), nil
}

// Delete removes the location.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns stored sessions in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}
