package agent

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pmx/internal/backup"
	"github.com/thoreinstein/pmx/internal/config"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/logging"
	"github.com/thoreinstein/pmx/internal/profile"
)

type fixture struct {
	home    string
	repo    *profile.Repository
	backups *backup.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "repo"), 0o755))
	return &fixture{
		home:    t.TempDir(),
		repo:    profile.NewRepository(root),
		backups: backup.NewManager(backup.WithBackupDir(t.TempDir())),
	}
}

func (f *fixture) applier(t *testing.T, cfg *config.Config, opts ...Option) *Applier {
	t.Helper()
	opts = append([]Option{WithHome(f.home), WithBackup(f.backups), WithLogger(logging.ForTest(t))}, opts...)
	return NewApplier(cfg, f.repo, opts...)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSet(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Create("review", "# review\nBe strict."))
	a := f.applier(t, config.Default())

	res, err := a.Set(Claude, "review")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Empty(t, res.BackupID, "nothing to back up on first write")
	assert.Equal(t, filepath.Join(f.home, ".claude", "CLAUDE.md"), res.Target)
	assert.Equal(t, "# review\nBe strict.", readFile(t, res.Target), "content is written exactly")

	require.NoError(t, f.repo.Create("short", "x"))
	res, err = a.Set(Claude, "short")
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.NotEmpty(t, res.BackupID)
	assert.Equal(t, "x", readFile(t, res.Target), "set fully replaces")
}

func TestSet_FollowsSymlink(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Create("p", "new"))

	dotfile := filepath.Join(t.TempDir(), "dotfiles-CLAUDE.md")
	require.NoError(t, os.WriteFile(dotfile, []byte("old"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(f.home, ".claude"), 0o755))
	link := filepath.Join(f.home, ".claude", "CLAUDE.md")
	require.NoError(t, os.Symlink(dotfile, link))

	_, err := f.applier(t, config.Default()).Set(Claude, "p")
	require.NoError(t, err)

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "link is kept")
	assert.Equal(t, "new", readFile(t, dotfile))
}

func TestAppend_Accumulates(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Create("p", "X"))
	a := f.applier(t, config.Default())

	res, err := a.Append(Codex, "p")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, filepath.Join(f.home, ".codex", "AGENTS.md"), res.Target)

	first := readFile(t, res.Target)
	assert.Equal(t, "X\n", first)

	_, err = a.Append(Codex, "p")
	require.NoError(t, err)

	got := readFile(t, res.Target)
	assert.Equal(t, "X\nX\n", got)
	assert.Equal(t, first, got[:len(first)], "earlier bytes are untouched")
}

func TestAppend_Separator(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		content  string
		want     string
	}{
		{"no trailing newline", "intro", "body\n", "intro\nbody\n"},
		{"trailing newline", "intro\n", "body\n", "intro\nbody\n"},
		{"empty existing", "", "body", "body\n"},
		{"content without newline", "intro\n", "body", "intro\nbody\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.repo.Create("p", tt.content))
			target := Claude.Target(f.home)
			require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
			require.NoError(t, os.WriteFile(target, []byte(tt.existing), 0o644))

			res, err := f.applier(t, config.Default()).Append(Claude, "p")
			require.NoError(t, err)
			assert.False(t, res.Created)
			assert.Equal(t, tt.want, readFile(t, target))
		})
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Create("p", "X"))
	a := f.applier(t, config.Default())

	res, err := a.Reset(Claude)
	require.NoError(t, err)
	assert.False(t, res.Removed, "absent target is a no-op")
	_, err = f.backups.List("claude")
	assert.ErrorIs(t, err, backup.ErrNoBackupsFound, "no-op takes no backup")
	assert.NoDirExists(t, filepath.Join(f.home, ".claude"), "no-op writes nothing")

	_, err = a.Set(Claude, "p")
	require.NoError(t, err)

	res, err = a.Reset(Claude)
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.NotEmpty(t, res.BackupID)
	assert.NoFileExists(t, res.Target)

	res, err = a.Reset(Claude)
	require.NoError(t, err)
	assert.False(t, res.Removed)
}

func TestDisabledAgent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Create("p", "X"))
	cfg := &config.Config{Agents: config.AgentsConfig{DisableClaude: true}}
	a := f.applier(t, cfg)

	for _, name := range []string{"p", "does-not-exist", "../bad"} {
		_, err := a.Set(Claude, name)
		assert.ErrorIs(t, err, errors.ErrDisabled, "set %q", name)
		_, err = a.Append(Claude, name)
		assert.ErrorIs(t, err, errors.ErrDisabled, "append %q", name)
	}
	_, err := a.Reset(Claude)
	assert.ErrorIs(t, err, errors.ErrDisabled)

	var disabled *errors.DisabledError
	require.ErrorAs(t, err, &disabled)
	assert.Equal(t, "Claude profiles", disabled.Feature)

	assert.NoDirExists(t, filepath.Join(f.home, ".claude"))

	_, err = a.Set(Codex, "p")
	assert.NoError(t, err, "codex is unaffected")
}

func TestMissingAndInvalidProfile(t *testing.T) {
	f := newFixture(t)
	a := f.applier(t, config.Default())

	_, err := a.Set(Claude, "ghost")
	assert.ErrorIs(t, err, errors.ErrNotFound)
	_, err = a.Append(Codex, "ghost")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	_, err = a.Set(Claude, "a//b")
	assert.ErrorIs(t, err, errors.ErrInvalidName)

	assert.NoFileExists(t, Claude.Target(f.home))
	assert.NoFileExists(t, Codex.Target(f.home))
}

func TestWithoutBackups(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Create("p", "X"))
	a := NewApplier(config.Default(), f.repo, WithHome(f.home))

	_, err := a.Set(Claude, "p")
	require.NoError(t, err)
	res, err := a.Set(Claude, "p")
	require.NoError(t, err)
	assert.Empty(t, res.BackupID)
}

func TestWithLock_SerializesAppends(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Create("p", "line"))
	var mu sync.Mutex
	a := NewApplier(config.Default(), f.repo, WithHome(f.home), WithLock(&mu))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.Append(Codex, "p")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	want := ""
	for range 8 {
		want += "line\n"
	}
	assert.Equal(t, want, readFile(t, Codex.Target(f.home)))
}

func TestParse(t *testing.T) {
	a, err := Parse(" Claude ")
	require.NoError(t, err)
	assert.Equal(t, Claude, a)

	_, err = Parse("gemini")
	assert.Error(t, err)
}

func TestActive(t *testing.T) {
	assert.Equal(t, []Agent{Claude, Codex}, Active(config.Default()))
	assert.Equal(t, []Agent{Codex}, Active(&config.Config{Agents: config.AgentsConfig{DisableClaude: true}}))
}
