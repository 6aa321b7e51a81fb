package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pmx/internal/logging"
	"github.com/thoreinstein/pmx/internal/paths"
	"github.com/thoreinstein/pmx/pkg/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Manager creates, lists and restores backups of integration targets.
type Manager struct {
	rootDir        string
	retentionCount int
	now            func() time.Time
	logger         *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of backups to retain per agent.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a Manager storing backups under the XDG data directory
// unless WithBackupDir says otherwise.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
		now:            time.Now,
		logger:         logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the root backup directory.
func (m *Manager) Dir() string {
	return m.rootDir
}

// Backup copies target into a new backup for agent and prunes backups
// beyond the retention count.
func (m *Manager) Backup(agent, target string) (*Manifest, error) {
	if agent == "" {
		return nil, errors.New("agent is required")
	}

	created := m.now()
	id, dir, err := m.reserve(agent, created)
	if err != nil {
		return nil, err
	}

	rel := filepath.Base(target)
	hash, mode, err := copyFile(target, filepath.Join(dir, rel))
	if err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrapf(err, "backing up %s", target)
	}

	manifest := &Manifest{
		Version:    ManifestVersion,
		CreatedAt:  created.UTC(),
		Agent:      agent,
		Files:      []File{{OriginalPath: target, RelPath: rel, SHA256: hash, Mode: mode}},
		PMXVersion: Version,
		ID:         id,
	}
	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, manifestName), manifest); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "writing manifest")
	}

	m.logger.Debug("backup created", "agent", agent, "id", id, "target", target)

	if err := m.Prune(agent, m.retentionCount); err != nil {
		return nil, err
	}
	return manifest, nil
}

// reserve creates a fresh backup directory. Backups taken within the same
// second get a numeric suffix.
func (m *Manager) reserve(agent string, t time.Time) (id, dir string, err error) {
	agentDir := filepath.Join(m.rootDir, agent)
	if err := os.MkdirAll(agentDir, 0o755); err != nil {
		return "", "", errors.Wrap(err, "creating backup directory")
	}

	base := t.UTC().Format(idLayout)
	for i := 0; i < 1000; i++ {
		id = base
		if i > 0 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		dir = filepath.Join(agentDir, id)
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", errors.Wrap(err, "creating backup directory")
		}
	}
	return "", "", errors.Newf("too many backups for %s at %s", agent, base)
}

// Restore copies the files of a backup back to their original locations
// after verifying their hashes. An empty id selects the newest backup.
func (m *Manager) Restore(agent, id string) (*Manifest, error) {
	var (
		manifest *Manifest
		err      error
	)
	if id == "" {
		manifest, err = m.Latest(agent)
	} else {
		manifest, err = m.Get(agent, id)
	}
	if err != nil {
		return nil, err
	}

	dir := m.backupPath(agent, manifest.ID)
	for _, f := range manifest.Files {
		src := filepath.Join(dir, f.RelPath)

		hash, err := hashFile(src)
		if err != nil {
			return nil, errors.Wrapf(err, "reading backup file %s", f.RelPath)
		}
		if hash != f.SHA256 {
			return nil, errors.Wrapf(ErrBackupCorrupted, "file %s hash mismatch", f.RelPath)
		}

		if err := os.MkdirAll(filepath.Dir(f.OriginalPath), 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating directory for %s", f.OriginalPath)
		}
		if _, _, err := copyFile(src, f.OriginalPath); err != nil {
			return nil, errors.Wrapf(err, "restoring %s", f.OriginalPath)
		}
		if err := os.Chmod(f.OriginalPath, f.Mode.Perm()); err != nil {
			return nil, errors.Wrapf(err, "setting permissions for %s", f.OriginalPath)
		}
	}

	m.logger.Info("backup restored", "agent", agent, "id", manifest.ID)
	return manifest, nil
}

// List returns the backups of agent, newest first.
func (m *Manager) List(agent string) ([]Manifest, error) {
	if agent == "" {
		return nil, errors.New("agent is required")
	}

	entries, err := os.ReadDir(filepath.Join(m.rootDir, agent))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(agent, entry.Name())
		if err != nil {
			m.logger.Debug("skipping invalid backup", "agent", agent, "id", entry.Name(), "error", err)
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(b.ID, a.ID)
	})

	return manifests, nil
}

// compareIDs orders "T-2" after "T-1" after "T" and "T-10" after "T-9".
func compareIDs(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Latest returns the newest backup of agent.
func (m *Manager) Latest(agent string) (*Manifest, error) {
	manifests, err := m.List(agent)
	if err != nil {
		return nil, err
	}
	return &manifests[0], nil
}

// Prune removes backups of agent beyond the newest keep.
func (m *Manager) Prune(agent string, keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List(agent)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil
		}
		return err
	}

	for i := keep; i < len(manifests); i++ {
		if err := os.RemoveAll(m.backupPath(agent, manifests[i].ID)); err != nil {
			return errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
		m.logger.Debug("backup pruned", "agent", agent, "id", manifests[i].ID)
	}

	return nil
}

// Get returns the manifest of one backup.
func (m *Manager) Get(agent, id string) (*Manifest, error) {
	if agent == "" {
		return nil, errors.New("agent is required")
	}
	if id == "" || id != filepath.Base(id) {
		return nil, errors.Newf("invalid backup ID %q", id)
	}

	data, err := os.ReadFile(filepath.Join(m.backupPath(agent, id), manifestName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", id)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}

	manifest.ID = id
	return &manifest, nil
}

func (m *Manager) backupPath(agent, id string) string {
	return filepath.Join(m.rootDir, agent, id)
}

// hashFile computes the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies src to dst, returning the SHA256 hash and mode of src.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = srcInfo.Mode().Perm()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dstFile, h), srcFile); err != nil {
		dstFile.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}
	if err := dstFile.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}

	return hex.EncodeToString(h.Sum(nil)), mode, nil
}
