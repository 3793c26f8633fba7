package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tremaux/internal/config"
	"github.com/aretw0/tremaux/pkg/adapters/file"
	"github.com/aretw0/tremaux/pkg/adapters/memory"
	"github.com/aretw0/tremaux/pkg/adapters/redis"
	"github.com/aretw0/tremaux/pkg/routes"
	backend "github.com/redis/go-redis/v9"
)

// openRoutes builds the route manager for the configured store driver.
// The returned func releases the store's resources.
func openRoutes(cfg config.Config) (*routes.Manager, func() error, error) {
	opts := []routes.Option{routes.WithLogger(app.logger)}
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Store.Driver) {
	case config.DriverMemory:
		return routes.NewManager(memory.NewStore(), opts...), noop, nil
	case config.DriverFile:
		return routes.NewManager(file.New(cfg.Store.Path), opts...), noop, nil
	case config.DriverRedis:
		rc := cfg.Store.Redis
		client := backend.NewClient(&backend.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		store := redis.NewFromClient(client, redis.WithPrefix(rc.Prefix), redis.WithTTL(rc.TTL))
		opts = append(opts,
			routes.WithLocker(redis.NewLocker(client, rc.Prefix)),
			routes.WithLockTTL(rc.LockTTL),
		)
		return routes.NewManager(store, opts...), store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func init() {
	rootCmd.PersistentFlags().String("store", "", "Route store driver (memory, file, redis); overrides the config")
}

// storeConfig applies the --store flag to the loaded configuration.
func storeConfig(flagValue string) config.Config {
	cfg := app.cfg
	if flagValue != "" {
		cfg.Store.Driver = flagValue
	}
	return cfg
}
