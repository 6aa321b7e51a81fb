package profile

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/logging"
	"github.com/thoreinstein/pmx/internal/paths"
	"github.com/thoreinstein/pmx/pkg/fileutil"
)

const filePerm = 0o644

// Repository stores profiles as markdown files under <root>/repo.
// Every method validates its name argument before touching the filesystem.
type Repository struct {
	dir    string
	logger *slog.Logger
	lock   sync.Locker
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for filesystem activity.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithLock serializes Create, Write and Delete behind l.
func WithLock(l sync.Locker) Option {
	return func(r *Repository) {
		r.lock = l
	}
}

// NewRepository returns a repository for the storage root at root.
func NewRepository(root string, opts ...Option) *Repository {
	r := &Repository{
		dir:    filepath.Join(root, paths.RepoDirName),
		logger: logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the repo/ directory.
func (r *Repository) Dir() string {
	return r.dir
}

func (r *Repository) filePath(n Name) string {
	return filepath.Join(r.dir, filepath.FromSlash(string(n))+paths.ProfileExt)
}

func (r *Repository) mutate(fn func() error) error {
	if r.lock != nil {
		r.lock.Lock()
		defer r.lock.Unlock()
	}
	return fn()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Exists reports whether the profile is present. Invalid names do not exist.
func (r *Repository) Exists(name string) bool {
	n, err := ValidateName(name)
	if err != nil {
		return false
	}
	return isFile(r.filePath(n))
}

// Path returns the absolute file path of a profile, whether or not it exists.
func (r *Repository) Path(name string) (string, error) {
	n, err := ValidateName(name)
	if err != nil {
		return "", err
	}
	return r.filePath(n), nil
}

// Create writes a new profile, creating parent directories as needed.
// Content is stored verbatim.
func (r *Repository) Create(name, content string) error {
	n, err := ValidateName(name)
	if err != nil {
		return err
	}
	p := r.filePath(n)

	return r.mutate(func() error {
		if _, err := os.Stat(p); err == nil {
			return &errors.AlreadyExistsError{Name: name, Path: p}
		}
		if err := paths.EnsureDir(filepath.Dir(p), 0); err != nil {
			return errors.Wrapf(err, "creating directory for profile %q", name)
		}
		if err := fileutil.AtomicWriteFile(p, []byte(content), filePerm); err != nil {
			return errors.Wrapf(err, "creating profile %q", name)
		}
		r.logger.Info("profile created", "name", name, "path", p)
		return nil
	})
}

// Read returns the content of a profile.
func (r *Repository) Read(name string) (string, error) {
	n, err := ValidateName(name)
	if err != nil {
		return "", err
	}
	p := r.filePath(n)

	data, err := fileutil.ReadFileWithLimit(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &errors.NotFoundError{Kind: "profile", Name: name, Path: p}
		}
		return "", errors.Wrapf(err, "reading profile %q", name)
	}
	r.logger.Log(context.Background(), logging.LevelTrace, "profile read", "name", name, "bytes", len(data))
	return string(data), nil
}

// Write replaces the content of an existing profile.
func (r *Repository) Write(name, content string) error {
	n, err := ValidateName(name)
	if err != nil {
		return err
	}
	p := r.filePath(n)

	return r.mutate(func() error {
		if !isFile(p) {
			return &errors.NotFoundError{Kind: "profile", Name: name, Path: p}
		}
		if err := fileutil.AtomicWriteFile(p, []byte(content), filePerm); err != nil {
			return errors.Wrapf(err, "writing profile %q", name)
		}
		r.logger.Info("profile written", "name", name)
		return nil
	})
}

// Delete removes the profile file. Parent directories are left in place even
// when they become empty.
func (r *Repository) Delete(name string) error {
	n, err := ValidateName(name)
	if err != nil {
		return err
	}
	p := r.filePath(n)

	return r.mutate(func() error {
		if !isFile(p) {
			return &errors.NotFoundError{Kind: "profile", Name: name, Path: p}
		}
		if err := os.Remove(p); err != nil {
			return errors.Wrapf(err, "deleting profile %q", name)
		}
		r.logger.Info("profile deleted", "name", name)
		return nil
	})
}

// List scans repo/ and returns the profile tree.
func (r *Repository) List() (*Node, error) {
	root, err := scan(r.dir)
	if err != nil {
		return nil, errors.Wrap(err, "listing profiles")
	}
	return root, nil
}

// Names returns every addressable profile name, sorted. Files whose names
// fail ValidateName cannot be read back and are left out.
func (r *Repository) Names() ([]string, error) {
	root, err := r.List()
	if err != nil {
		return nil, err
	}

	leaves := Leaves(root)
	names := leaves[:0]
	for _, name := range leaves {
		if _, err := ValidateName(name); err != nil {
			r.logger.Debug("ignoring profile file with invalid name", "name", name, "error", err)
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
