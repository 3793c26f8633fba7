package routes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/tremaux/internal/logging"
	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/aretw0/tremaux/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates route access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.RouteStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock expiry.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new route Manager over the given store.
func NewManager(store ports.RouteStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(mazeID) after unlocking.
func (m *Manager) acquire(mazeID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[mazeID]
	if !exists {
		entry = &lockEntry{}
		m.locks[mazeID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(mazeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[mazeID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, mazeID)
	}
}

// Load retrieves a stored route.
func (m *Manager) Load(ctx context.Context, mazeID string) (*domain.Route, error) {
	var route *domain.Route
	err := m.WithLock(ctx, mazeID, func(ctx context.Context) error {
		var err error
		route, err = m.store.Load(ctx, mazeID)
		return err
	})
	return route, err
}

// LoadOrNew loads a stored route, or returns an empty one when the maze has none.
// The empty route is not persisted.
func (m *Manager) LoadOrNew(ctx context.Context, mazeID string) (*domain.Route, error) {
	route, err := m.Load(ctx, mazeID)
	if errors.Is(err, domain.ErrRouteNotFound) {
		return domain.NewRoute(mazeID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check route existence: %w", err)
	}
	return route, nil
}

// Save persists the route.
func (m *Manager) Save(ctx context.Context, route *domain.Route) error {
	return m.WithLock(ctx, route.MazeID, func(ctx context.Context) error {
		return m.store.Save(ctx, route)
	})
}

// Delete removes the route from the store.
func (m *Manager) Delete(ctx context.Context, mazeID string) error {
	return m.WithLock(ctx, mazeID, func(ctx context.Context) error {
		return m.store.Delete(ctx, mazeID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying route store.
func (m *Manager) Store() ports.RouteStore {
	return m.store
}

// WithLock executes fn while holding the lock for the maze.
func (m *Manager) WithLock(ctx context.Context, mazeID string, fn func(context.Context) error) error {
	entry := m.acquire(mazeID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(mazeID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, mazeID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"maze", mazeID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
