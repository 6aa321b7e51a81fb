// Package flags provides shared flag accessors and the resolved storage
// root for CLI commands. This package exists to avoid import cycles between
// the root command and noun subpackages (profile, backup).
package flags

import (
	"log/slog"
	"sync"

	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/logging"
	"github.com/thoreinstein/pmx/internal/profile"
	"github.com/thoreinstein/pmx/internal/storage"
)

var (
	mu         sync.Mutex
	configFlag string
	root       *storage.Root
	source     storage.Source
	logger     = logging.Default()
)

// SetConfigFlag sets the --config flag value.
func SetConfigFlag(path string) {
	mu.Lock()
	defer mu.Unlock()
	configFlag = path
}

// SetLogger sets the logger handed to engine components.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l != nil {
		logger = l
	}
}

// Logger returns the CLI logger.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// LoadRoot resolves and loads the storage root once per process. Later
// calls return the cached result.
func LoadRoot() (*storage.Root, error) {
	mu.Lock()
	defer mu.Unlock()
	if root != nil {
		return root, nil
	}

	r, src, err := storage.Open(configFlag, logger)
	if err != nil {
		return nil, err
	}
	root, source = r, src
	logger.Debug("storage root loaded", "path", r.Path, "source", src)
	return root, nil
}

// SetRoot replaces the cached root. Tests use it to point commands at a
// temporary directory; nil clears the cache.
func SetRoot(r *storage.Root) {
	mu.Lock()
	defer mu.Unlock()
	root = r
	source = storage.SourceFlag
}

// Root returns the loaded root or an error if LoadRoot has not succeeded.
func Root() (*storage.Root, error) {
	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		return nil, errors.New("storage root not loaded")
	}
	return root, nil
}

// Source reports where the loaded root was resolved from.
func Source() storage.Source {
	mu.Lock()
	defer mu.Unlock()
	return source
}

// Repository returns the profile repository of the loaded root.
func Repository() (*profile.Repository, error) {
	r, err := Root()
	if err != nil {
		return nil, err
	}
	return profile.NewRepository(r.Path, profile.WithLogger(Logger())), nil
}
