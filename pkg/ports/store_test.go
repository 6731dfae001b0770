package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
)

// MockStore is an in-memory implementation of LocationStore for testing purposes.
type MockStore struct {
	data map[string]*domain.Location
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Location),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, loc *domain.Location) error {
	// Drop the live handler chain to simulate serialization
	copied := loc.Clone()
	copied.Matched = nil
	m.data[sessionID] = copied
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.Location, error) {
	loc, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return loc.Clone(), nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestMockStore_Contract(t *testing.T) {
	ports.RunLocationStoreContract(t, NewMockStore())
}
