// Package config loads the tremaux YAML configuration.
//
// The file is parsed with yaml.v3 into a generic map and decoded with mapstructure
// on top of Default(), so a file only needs the keys it changes. Unknown keys are
// rejected to catch typos.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/tremaux/internal/logging"
	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "tremaux.yaml"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Maze   MazeConfig   `mapstructure:"maze"`
	Engine EngineConfig `mapstructure:"engine"`
	Store  StoreConfig  `mapstructure:"store"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// MazeConfig selects the maze the run command solves.
type MazeConfig struct {
	File     string `mapstructure:"file"` // ASCII maze; generated when empty
	Width    int    `mapstructure:"width"`
	Height   int    `mapstructure:"height"`
	Seed     int64  `mapstructure:"seed"`
	Loops    int    `mapstructure:"loops"`
	Heading  string `mapstructure:"heading"`
	MaxMoves int    `mapstructure:"max_moves"`
}

type EngineConfig struct {
	LedgerCapacity int   `mapstructure:"ledger_capacity"` // 0 = unbounded
	Seed           int64 `mapstructure:"seed"`            // 0 = time-seeded
}

type StoreConfig struct {
	Driver string      `mapstructure:"driver"`
	Path   string      `mapstructure:"path"`
	Redis  RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Maze: MazeConfig{
			Width:    12,
			Height:   8,
			Seed:     1,
			Loops:    0,
			Heading:  "EAST",
			MaxMoves: 100000,
		},
		Store: StoreConfig{
			Driver: DriverFile,
			Path:   ".tremaux/routes",
			Redis: RedisConfig{
				Addr:    "localhost:6379",
				Prefix:  "tremaux:route:",
				LockTTL: 30 * time.Second,
			},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults
// unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays a YAML document on cfg and validates the result.
func Decode(data []byte, cfg *Config) error {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse yaml: %w", err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg.Validate()
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var errs []error
	if c.Maze.File == "" && (c.Maze.Width < 1 || c.Maze.Height < 1) {
		errs = append(errs, fmt.Errorf("maze width and height must be positive"))
	}
	if c.Maze.Loops < 0 {
		errs = append(errs, fmt.Errorf("maze loops must not be negative"))
	}
	if _, err := domain.ParseDirection(c.Maze.Heading); err != nil {
		errs = append(errs, fmt.Errorf("maze heading: %w", err))
	}
	if c.Engine.LedgerCapacity < 0 {
		errs = append(errs, fmt.Errorf("engine ledger_capacity must not be negative"))
	}
	switch strings.ToLower(c.Store.Driver) {
	case DriverMemory, DriverFile, DriverRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// StartHeading parses Maze.Heading.
func (c Config) StartHeading() domain.Direction {
	d, err := domain.ParseDirection(c.Maze.Heading)
	if err != nil {
		return domain.East
	}
	return d
}
