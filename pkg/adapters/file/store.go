package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/tremaux/pkg/domain"
)

// ErrInvalidMazeID is returned for IDs that cannot be used as file names.
var ErrInvalidMazeID = errors.New("invalid maze id")

// Store implements ports.RouteStore using the local filesystem.
// It stores routes as JSON files in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".tremaux/routes".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".tremaux", "routes")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(mazeID string) (string, error) {
	if mazeID == "" || mazeID == "." || mazeID == ".." || strings.ContainsAny(mazeID, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMazeID, mazeID)
	}
	return filepath.Join(s.BasePath, mazeID+".json"), nil
}

// Save persists the route to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, route *domain.Route) error {
	destPath, err := s.path(route.MazeID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure route directory: %w", err)
	}

	data, err := json.MarshalIndent(route, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal route: %w", err)
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+route.MazeID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing route file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to route: %w", err)
	}
	return nil
}

// Load retrieves the route from a JSON file.
func (s *Store) Load(ctx context.Context, mazeID string) (*domain.Route, error) {
	filePath, err := s.path(mazeID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrRouteNotFound
		}
		return nil, fmt.Errorf("failed to read route file: %w", err)
	}

	route := domain.NewRoute(mazeID)
	if err := json.Unmarshal(data, route); err != nil {
		return nil, fmt.Errorf("failed to unmarshal route: %w", err)
	}
	return route, nil
}

// Delete removes the route file.
func (s *Store) Delete(ctx context.Context, mazeID string) error {
	filePath, err := s.path(mazeID)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete route file: %w", err)
	}
	return nil
}

// List returns the IDs of all stored routes.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}
