package routes_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tremaux/pkg/adapters/memory"
	"github.com/aretw0/tremaux/pkg/adapters/redis"
	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/aretw0/tremaux/pkg/ports"
	"github.com/aretw0/tremaux/pkg/routes"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ReadModifyWriteIsSerialised(t *testing.T) {
	manager := routes.NewManager(memory.NewStore())
	ctx := context.Background()
	const id = "race"

	require.NoError(t, manager.Save(ctx, domain.NewRoute(id)))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(x int) {
			defer wg.Done()
			err := manager.WithLock(ctx, id, func(ctx context.Context) error {
				r, err := manager.Store().Load(ctx, id)
				if err != nil {
					return err
				}
				time.Sleep(time.Millisecond)
				r.Steps[domain.Cell{X: x}] = domain.East
				return manager.Store().Save(ctx, r)
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	r, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, r.Steps, 20, "no update is lost")
}

func TestManager_LoadOrNew(t *testing.T) {
	store := memory.NewStore()
	manager := routes.NewManager(store)
	ctx := context.Background()

	r, err := manager.LoadOrNew(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", r.MazeID)
	assert.Empty(t, r.Steps)

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "an empty route is not persisted")
}

type failingStore struct{ ports.RouteStore }

func (failingStore) Load(context.Context, string) (*domain.Route, error) {
	return nil, errors.New("disk on fire")
}

func TestManager_LoadOrNewPropagatesStoreErrors(t *testing.T) {
	manager := routes.NewManager(failingStore{})
	_, err := manager.LoadOrNew(context.Background(), "x")
	assert.ErrorContains(t, err, "disk on fire")
}

func TestManager_DeleteAndList(t *testing.T) {
	manager := routes.NewManager(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, manager.Save(ctx, domain.NewRoute("a")))
	require.NoError(t, manager.Save(ctx, domain.NewRoute("b")))
	require.NoError(t, manager.Delete(ctx, "a"))

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)

	_, err = manager.Load(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrRouteNotFound)
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	manager := routes.NewManager(store,
		routes.WithLocker(redis.NewLocker(client, "test:")),
		routes.WithLockTTL(time.Second),
	)
	ctx := context.Background()

	err := manager.WithLock(ctx, "m1", func(ctx context.Context) error {
		assert.True(t, mr.Exists("test:lock:m1"), "held while fn runs")
		return store.Save(ctx, domain.NewRoute("m1"))
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("test:lock:m1"), "released afterwards")

	_, err = manager.Load(ctx, "m1")
	require.NoError(t, err)
}

type blockedLocker struct{}

func (blockedLocker) Lock(ctx context.Context, _ string, _ time.Duration) (ports.UnlockFunc, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestManager_LockTimeout(t *testing.T) {
	manager := routes.NewManager(memory.NewStore(), routes.WithLocker(blockedLocker{}))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	called := false
	err := manager.WithLock(ctx, "m", func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)
}
