package profile

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/logging"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "repo"), 0o755))
	return NewRepository(root, WithLogger(logging.ForTest(t)))
}

func TestRepository_CreateRead(t *testing.T) {
	repo := newTestRepo(t)

	content := "# review\n\nBe strict.\n\n- no trailing newline handling here"
	require.NoError(t, repo.Create("work/review", content))

	got, err := repo.Read("work/review")
	require.NoError(t, err)
	assert.Equal(t, content, got, "content is stored verbatim")

	assert.True(t, repo.Exists("work/review"))
	assert.FileExists(t, filepath.Join(repo.Dir(), "work", "review.md"))
}

func TestRepository_CreateExisting(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Create("a", "one"))

	err := repo.Create("a", "two")
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)

	got, err := repo.Read("a")
	require.NoError(t, err)
	assert.Equal(t, "one", got)
}

func TestRepository_InvalidNames(t *testing.T) {
	repo := newTestRepo(t)

	for _, name := range []string{"", "../escape", `a\b`, "a//b", "x?"} {
		assert.ErrorIs(t, repo.Create(name, "x"), errors.ErrInvalidName, "create %q", name)
		_, err := repo.Read(name)
		assert.ErrorIs(t, err, errors.ErrInvalidName, "read %q", name)
		assert.ErrorIs(t, repo.Write(name, "x"), errors.ErrInvalidName, "write %q", name)
		assert.ErrorIs(t, repo.Delete(name), errors.ErrInvalidName, "delete %q", name)
		_, err = repo.Path(name)
		assert.ErrorIs(t, err, errors.ErrInvalidName, "path %q", name)
		assert.False(t, repo.Exists(name))
	}

	_, err := os.Stat(filepath.Join(filepath.Dir(repo.Dir()), "escape.md"))
	assert.True(t, os.IsNotExist(err), "nothing written outside repo/")
}

func TestRepository_ReadMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Read("nope")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	var nf *errors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.Name)
}

func TestRepository_Write(t *testing.T) {
	repo := newTestRepo(t)

	assert.ErrorIs(t, repo.Write("ghost", "x"), errors.ErrNotFound)
	assert.False(t, repo.Exists("ghost"), "write does not create")

	require.NoError(t, repo.Create("p", "old"))
	require.NoError(t, repo.Write("p", "new"))

	got, err := repo.Read("p")
	require.NoError(t, err)
	assert.Equal(t, "new", got)
}

func TestRepository_DeleteKeepsParents(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Create("team/deep/only", "x"))

	require.NoError(t, repo.Delete("team/deep/only"))
	assert.False(t, repo.Exists("team/deep/only"))
	assert.DirExists(t, filepath.Join(repo.Dir(), "team", "deep"))

	assert.ErrorIs(t, repo.Delete("team/deep/only"), errors.ErrNotFound)
}

func TestRepository_DirectoryIsNotProfile(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(repo.Dir(), "dir.md"), 0o755))

	assert.False(t, repo.Exists("dir"))
	assert.ErrorIs(t, repo.Delete("dir"), errors.ErrNotFound)
}

func TestRepository_Path(t *testing.T) {
	repo := newTestRepo(t)

	p, err := repo.Path("a/b")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repo.Dir(), "a", "b.md"), p)
}

func TestRepository_ListOrdering(t *testing.T) {
	repo := newTestRepo(t)
	for _, n := range []string{"b", "a/y", "a/x"} {
		require.NoError(t, repo.Create(n, n))
	}
	require.NoError(t, os.WriteFile(filepath.Join(repo.Dir(), "notes.txt"), []byte("skip"), 0o644))

	root, err := repo.List()
	require.NoError(t, err)

	require.Len(t, root.Children, 2)
	a, b := root.Children[0], root.Children[1]
	assert.Equal(t, "a", a.Name)
	assert.True(t, a.IsDir())
	require.Len(t, a.Children, 2)
	assert.Equal(t, "x", a.Children[0].Name)
	assert.Equal(t, "y", a.Children[1].Name)
	assert.Equal(t, "b", b.Name)
	assert.Equal(t, NodeLeaf, b.Kind)

	names, err := repo.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"a/x", "a/y", "b"}, names)
}

func TestRepository_NamesSkipsInvalidFiles(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Create("ok", "OK"))
	for _, f := range []string{"v1..2.md", "a:b.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(repo.Dir(), f), []byte("x"), 0o644))
	}

	root, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, root.Children, 3, "the tree still shows every markdown file")

	names, err := repo.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, names)
}

func TestRepository_ListByteOrder(t *testing.T) {
	repo := newTestRepo(t)
	for _, n := range []string{"beta", "Zeta", "alpha", "_x"} {
		require.NoError(t, repo.Create(n, n))
	}

	names, err := repo.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"Zeta", "_x", "alpha", "beta"}, names)
}

func TestRepository_ListKeepsEmptyDirs(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(repo.Dir(), "empty"), 0o755))

	root, err := repo.List()
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.True(t, root.Children[0].IsDir())
	assert.Empty(t, root.Children[0].Children)
}

type countingLock struct {
	mu    sync.Mutex
	count int
}

func (l *countingLock) Lock() {
	l.mu.Lock()
	l.count++
}

func (l *countingLock) Unlock() {
	l.mu.Unlock()
}

func TestRepository_WithLock(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "repo"), 0o755))
	lock := &countingLock{}
	repo := NewRepository(root, WithLock(lock))

	require.NoError(t, repo.Create("p", "1"))
	require.NoError(t, repo.Write("p", "2"))
	_, err := repo.Read("p")
	require.NoError(t, err)
	require.NoError(t, repo.Delete("p"))

	assert.Equal(t, 3, lock.count, "only mutations take the lock")
}
