package ports

import (
	"context"

	"github.com/aretw0/tremaux/pkg/domain"
)

// RouteStore defines the interface for persisting recorded routes.
// A route outlives the attempt that recorded it, so replay can run in another process.
type RouteStore interface {
	// Save persists the route under route.MazeID.
	Save(ctx context.Context, route *domain.Route) error

	// Load retrieves the route of a maze.
	// Returns domain.ErrRouteNotFound if the maze has no route.
	Load(ctx context.Context, mazeID string) (*domain.Route, error)

	// Delete removes the route of a maze.
	Delete(ctx context.Context, mazeID string) error

	// List returns the IDs of all stored routes.
	List(ctx context.Context) ([]string, error)
}
