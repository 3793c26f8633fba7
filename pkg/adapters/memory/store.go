package memory

import (
	"context"
	"sync"

	"github.com/aretw0/tremaux/pkg/domain"
)

// Store implements ports.RouteStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Route
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Route),
	}
}

// Save persists the route in memory.
func (s *Store) Save(ctx context.Context, route *domain.Route) error {
	// Copy on write so later edits by the caller do not leak in.
	copied := route.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[route.MazeID] = copied
	return nil
}

// Load retrieves the route from memory.
func (s *Store) Load(ctx context.Context, mazeID string) (*domain.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	route, ok := s.data[mazeID]
	if !ok {
		return nil, domain.ErrRouteNotFound
	}
	return route.Clone(), nil
}

// Delete removes the route.
func (s *Store) Delete(ctx context.Context, mazeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, mazeID)
	return nil
}

// List returns the stored maze IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
