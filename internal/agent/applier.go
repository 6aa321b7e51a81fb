package agent

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/thoreinstein/pmx/internal/backup"
	"github.com/thoreinstein/pmx/internal/config"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/gate"
	"github.com/thoreinstein/pmx/internal/logging"
	"github.com/thoreinstein/pmx/internal/paths"
	"github.com/thoreinstein/pmx/internal/profile"
	"github.com/thoreinstein/pmx/pkg/fileutil"
)

const targetPerm = 0o644

// ProfileReader supplies profile content. *profile.Repository satisfies it.
type ProfileReader interface {
	Read(name string) (string, error)
}

// Result describes what an operation did to the target file.
type Result struct {
	Agent  Agent
	Target string

	// Created is set when the target did not exist before the operation.
	Created bool

	// Removed is set when Reset deleted the target.
	Removed bool

	// BackupID names the backup taken before the change, if any.
	BackupID string
}

// Applier writes profiles into integration target files.
type Applier struct {
	cfg     *config.Config
	repo    ProfileReader
	home    string
	backups *backup.Manager
	logger  *slog.Logger
	lock    sync.Locker
}

// Option configures an Applier.
type Option func(*Applier)

// WithHome sets the home directory the targets live under.
func WithHome(home string) Option {
	return func(a *Applier) {
		a.home = home
	}
}

// WithBackup backs up existing targets before every change.
func WithBackup(m *backup.Manager) Option {
	return func(a *Applier) {
		a.backups = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Applier) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithLock runs every operation while holding l.
func WithLock(l sync.Locker) Option {
	return func(a *Applier) {
		a.lock = l
	}
}

// NewApplier returns an Applier gated by cfg and reading profiles from repo.
func NewApplier(cfg *config.Config, repo ProfileReader, opts ...Option) *Applier {
	a := &Applier{
		cfg:    cfg,
		repo:   repo,
		logger: logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TargetPath returns the file the agent's operations act on.
func (a *Applier) TargetPath(ag Agent) (string, error) {
	home := a.home
	if home == "" {
		var err error
		if home, err = paths.ResolveHome(); err != nil {
			return "", err
		}
	}
	target := ag.Target(home)
	if target == "" {
		return "", errors.Newf("unknown agent %q", ag)
	}
	return target, nil
}

func (a *Applier) run(fn func() (Result, error)) (Result, error) {
	if a.lock != nil {
		a.lock.Lock()
		defer a.lock.Unlock()
	}
	return fn()
}

// check applies the configuration gate and returns the target path.
func (a *Applier) check(ag Agent) (string, error) {
	if !gate.AgentActive(a.cfg, string(ag)) {
		return "", &errors.DisabledError{Feature: ag.DisplayName() + " profiles"}
	}
	return a.TargetPath(ag)
}

func (a *Applier) load(name string) (string, error) {
	if _, err := profile.ValidateName(name); err != nil {
		return "", err
	}
	return a.repo.Read(name)
}

// backupIfPresent copies an existing target aside. It reports whether the
// target existed.
func (a *Applier) backupIfPresent(ag Agent, target string, res *Result) (bool, error) {
	info, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "checking %s", target)
	}
	if info.IsDir() {
		return true, errors.Newf("%s is a directory", target)
	}

	if a.backups != nil {
		manifest, err := a.backups.Backup(string(ag), target)
		if err != nil {
			return true, errors.Wrapf(err, "backing up %s", target)
		}
		res.BackupID = manifest.ID
	}
	return true, nil
}

// Set replaces the agent's target with the profile content.
func (a *Applier) Set(ag Agent, name string) (Result, error) {
	return a.run(func() (Result, error) {
		res := Result{Agent: ag}

		target, err := a.check(ag)
		if err != nil {
			return res, err
		}
		res.Target = target

		content, err := a.load(name)
		if err != nil {
			return res, err
		}

		if err := paths.EnsureDir(filepath.Dir(target), 0); err != nil {
			return res, errors.Wrapf(err, "creating %s", filepath.Dir(target))
		}

		existed, err := a.backupIfPresent(ag, target, &res)
		if err != nil {
			return res, err
		}
		res.Created = !existed

		// Write through a symlinked target instead of replacing the link.
		dest := target
		if existed {
			if resolved, err := filepath.EvalSymlinks(target); err == nil {
				dest = resolved
			}
		}
		if err := fileutil.AtomicWriteFile(dest, []byte(content), targetPerm); err != nil {
			return res, errors.Wrapf(err, "writing %s", target)
		}

		a.logger.Info("profile set", "agent", ag, "profile", name, "target", target)
		return res, nil
	})
}

// Append adds the profile content to the end of the agent's target,
// creating it if needed. A newline is inserted first when the existing
// content does not end with one, and the appended content always ends with
// a newline.
func (a *Applier) Append(ag Agent, name string) (Result, error) {
	return a.run(func() (Result, error) {
		res := Result{Agent: ag}

		target, err := a.check(ag)
		if err != nil {
			return res, err
		}
		res.Target = target

		content, err := a.load(name)
		if err != nil {
			return res, err
		}

		if err := paths.EnsureDir(filepath.Dir(target), 0); err != nil {
			return res, errors.Wrapf(err, "creating %s", filepath.Dir(target))
		}

		existed, err := a.backupIfPresent(ag, target, &res)
		if err != nil {
			return res, err
		}
		res.Created = !existed

		needsSep, err := missingTrailingNewline(target)
		if err != nil {
			return res, err
		}

		var b strings.Builder
		if needsSep {
			b.WriteByte('\n')
		}
		b.WriteString(content)
		if !strings.HasSuffix(content, "\n") {
			b.WriteByte('\n')
		}

		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_APPEND, targetPerm)
		if err != nil {
			return res, errors.Wrapf(err, "opening %s", target)
		}
		if _, err := io.WriteString(f, b.String()); err != nil {
			f.Close()
			return res, errors.Wrapf(err, "appending to %s", target)
		}
		if err := f.Close(); err != nil {
			return res, errors.Wrapf(err, "closing %s", target)
		}

		a.logger.Info("profile appended", "agent", ag, "profile", name, "target", target)
		return res, nil
	})
}

// missingTrailingNewline reports whether path is non-empty and its last
// byte is not a newline. A missing file reports false.
func missingTrailingNewline(path string) (bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, errors.Wrapf(err, "stat %s", path)
	}
	if info.Size() == 0 {
		return false, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, errors.Wrapf(err, "reading %s", path)
	}
	return last[0] != '\n', nil
}

// Reset deletes the agent's target. A missing target is a successful no-op.
func (a *Applier) Reset(ag Agent) (Result, error) {
	return a.run(func() (Result, error) {
		res := Result{Agent: ag}

		target, err := a.check(ag)
		if err != nil {
			return res, err
		}
		res.Target = target

		existed, err := a.backupIfPresent(ag, target, &res)
		if err != nil {
			return res, err
		}
		if !existed {
			a.logger.Debug("target already absent", "agent", ag, "target", target)
			return res, nil
		}

		if err := os.Remove(target); err != nil {
			return res, errors.Wrapf(err, "removing %s", target)
		}
		res.Removed = true

		a.logger.Info("profile reset", "agent", ag, "target", target)
		return res, nil
	})
}
