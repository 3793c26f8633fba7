package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRouteStoreContract runs a suite of tests to verify that a RouteStore implementation
// adheres to the defined interface contract.
func RunRouteStoreContract(t *testing.T, store RouteStore) {
	ctx := context.Background()
	mazeID := "contract-test-maze-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		route := domain.NewRoute(mazeID)
		route.Steps[domain.Cell{X: 0, Y: 0}] = domain.East
		route.Steps[domain.Cell{X: 1, Y: 0}] = domain.South
		route.Steps[domain.Cell{X: 12, Y: 7}] = domain.West

		err := store.Save(ctx, route)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, mazeID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, mazeID, loaded.MazeID)
		assert.Equal(t, route.Steps, loaded.Steps)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		route := domain.NewRoute(mazeID)
		route.Steps[domain.Cell{X: 0, Y: 0}] = domain.South
		require.NoError(t, store.Save(ctx, route))

		loaded, err := store.Load(ctx, mazeID)
		require.NoError(t, err)
		assert.Len(t, loaded.Steps, 1)
		assert.Equal(t, domain.South, loaded.Steps[domain.Cell{X: 0, Y: 0}])
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, mazeID)
		require.NoError(t, err)
		loaded.Steps[domain.Cell{X: 99, Y: 99}] = domain.North

		again, err := store.Load(ctx, mazeID)
		require.NoError(t, err)
		assert.NotContains(t, again.Steps, domain.Cell{X: 99, Y: 99})
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+mazeID)
		assert.ErrorIs(t, err, domain.ErrRouteNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewRoute(mazeID)))

		err := store.Delete(ctx, mazeID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, mazeID)
		assert.ErrorIs(t, err, domain.ErrRouteNotFound, "Load after Delete should return ErrRouteNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := mazeID + "-1"
		id2 := mazeID + "-2"
		_ = store.Save(ctx, domain.NewRoute(id1))
		_ = store.Save(ctx, domain.NewRoute(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
