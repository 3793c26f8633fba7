package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/tremaux/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces route keys.
const DefaultPrefix = "tremaux:route:"

// Store implements ports.RouteStore using Redis.
// Each route is a JSON value; a sorted set indexes the live maze IDs by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for routes.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for routes.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(mazeID string) string {
	return s.prefix + mazeID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the route to Redis.
func (s *Store) Save(ctx context.Context, route *domain.Route) error {
	data, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("failed to marshal route: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(route.MazeID), data, s.ttl)

	// Score is the expiry time; routes without TTL sort far in the future.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: route.MazeID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the route from Redis.
func (s *Store) Load(ctx context.Context, mazeID string) (*domain.Route, error) {
	val, err := s.client.Get(ctx, s.key(mazeID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrRouteNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	route := domain.NewRoute(mazeID)
	if err := json.Unmarshal(val, route); err != nil {
		return nil, fmt.Errorf("failed to unmarshal route: %w", err)
	}
	return route, nil
}

// Delete removes the route.
func (s *Store) Delete(ctx context.Context, mazeID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(mazeID))
	pipe.ZRem(ctx, s.indexKey(), mazeID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the live maze IDs, pruning expired entries from the index first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired routes: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	return ids, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
