package storage

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thoreinstein/pmx/internal/config"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/logging"
	"github.com/thoreinstein/pmx/internal/paths"
)

// Root is a resolved storage directory and its configuration.
type Root struct {
	Path   string
	Config *config.Config
}

// RepoDir returns <root>/repo.
func (r *Root) RepoDir() string {
	return filepath.Join(r.Path, paths.RepoDirName)
}

// ConfigPath returns <root>/config.toml.
func (r *Root) ConfigPath() string {
	return filepath.Join(r.Path, paths.ConfigFileName)
}

func requireDir(path, kind string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &errors.NotFoundError{Kind: kind, Name: path}
		}
		return errors.Wrapf(err, "checking %s", kind)
	}
	if !info.IsDir() {
		return errors.Newf("%s %s is not a directory", kind, path)
	}
	return nil
}

// Load opens an existing storage root. The directory and its repo/
// subdirectory must exist. A missing config.toml is created with defaults;
// an unreadable one fails with *errors.ConfigError.
func Load(path string) (*Root, error) {
	if err := requireDir(path, "storage directory"); err != nil {
		return nil, err
	}
	root := &Root{Path: path}
	if err := requireDir(root.RepoDir(), "repo directory"); err != nil {
		return nil, err
	}

	cfgPath := root.ConfigPath()
	info, err := os.Stat(cfgPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		root.Config = config.Default()
		if err := config.Write(cfgPath, root.Config); err != nil {
			return nil, err
		}
		return root, nil
	case err != nil:
		return nil, errors.Wrap(err, "checking config file")
	case info.IsDir():
		return nil, &errors.ConfigError{Path: cfgPath, Err: errors.New("config path is a directory")}
	}

	if root.Config, err = config.Read(cfgPath); err != nil {
		return nil, err
	}
	return root, nil
}

// Initialize creates the storage layout at path and loads it. Existing
// directories are kept, as is an existing config.toml.
func Initialize(path string) (*Root, error) {
	if err := paths.EnsureDir(path, 0); err != nil {
		return nil, errors.Wrapf(err, "creating storage directory %s", path)
	}
	if err := paths.EnsureDir(filepath.Join(path, paths.RepoDirName), 0); err != nil {
		return nil, errors.Wrapf(err, "creating repo directory in %s", path)
	}
	return Load(path)
}

// Auto resolves the root from the environment and loads it. Any load
// failure falls back to Initialize on the same path, and Initialize's error
// is returned if that fails too.
//
// Initialize never overwrites an existing config.toml, so a root whose
// config is present but invalid is not repaired: Auto returns the
// *errors.ConfigError and the file must be fixed by hand.
func Auto(logger *slog.Logger) (*Root, error) {
	path, err := Resolve("")
	if err != nil {
		return nil, err
	}
	return loadOrInitialize(path, logger)
}

func loadOrInitialize(path string, logger *slog.Logger) (*Root, error) {
	if logger == nil {
		logger = logging.NewDiscard()
	}

	root, err := Load(path)
	if err == nil {
		return root, nil
	}

	logger.Warn("storage load failed, initializing", "path", path, "error", err)
	return Initialize(path)
}

// Open resolves the root the way the CLI does. A root named by --config or
// PMX_CONFIG_FILE must already exist; otherwise Auto semantics apply.
func Open(explicit string, logger *slog.Logger) (*Root, Source, error) {
	path, src, err := ResolveWith(explicit, os.LookupEnv)
	if err != nil {
		return nil, src, err
	}
	if src.Explicit() {
		root, err := Load(path)
		return root, src, err
	}
	root, err := loadOrInitialize(path, logger)
	return root, src, err
}
