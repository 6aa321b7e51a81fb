package profile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pmx/internal/clipboard"
	"github.com/thoreinstein/pmx/internal/editor"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/profile"
)

func newRepo(t *testing.T, profiles map[string]string) *profile.Repository {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "repo"), 0o755))
	repo := profile.NewRepository(root)
	for name, content := range profiles {
		require.NoError(t, repo.Create(name, content))
	}
	return repo
}

// writeEditor returns an editor that replaces the file with content.
func writeEditor(content string) editor.Func {
	return func(path string) error {
		return os.WriteFile(path, []byte(content), 0o644)
	}
}

// keepEditor exits successfully without touching the file.
func keepEditor(string) error { return nil }

func failingEditor(string) error {
	return &errors.EditorError{Editor: "false", Err: errors.New("exit status 1")}
}

func TestList(t *testing.T) {
	repo := newRepo(t, map[string]string{"b": "B", "a/x": "X", "a/y": "Y"})

	var flat bytes.Buffer
	require.NoError(t, runListWithWriter(&flat, repo, false))
	assert.Equal(t, "a/x\na/y\nb\n", flat.String())

	var tree bytes.Buffer
	require.NoError(t, runListWithWriter(&tree, repo, true))
	assert.Equal(t, "├── a/\n│   ├── x\n│   └── y\n└── b\n", tree.String())
}

func TestList_Empty(t *testing.T) {
	repo := newRepo(t, nil)

	var tree bytes.Buffer
	require.NoError(t, runListWithWriter(&tree, repo, true))
	assert.Equal(t, "No profiles found.\n", tree.String())

	var flat bytes.Buffer
	require.NoError(t, runListWithWriter(&flat, repo, false))
	assert.Empty(t, flat.String())
}

func TestCreate(t *testing.T) {
	repo := newRepo(t, nil)
	var out bytes.Buffer

	var seen string
	open := func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		seen = string(data)
		return os.WriteFile(path, []byte("# work/review\n\nBe strict.\n"), 0o644)
	}

	require.NoError(t, runCreateWithIO(&out, repo, "work/review", open))
	assert.Equal(t, profile.Template("work/review"), seen, "editor starts from the template")
	assert.Equal(t, "Profile 'work/review' created successfully\n", out.String())

	content, err := repo.Read("work/review")
	require.NoError(t, err)
	assert.Equal(t, "# work/review\n\nBe strict.\n", content)
}

func TestCreate_Cancelled(t *testing.T) {
	tests := []struct {
		name string
		open editor.Func
	}{
		{"untouched template", keepEditor},
		{"emptied", writeEditor("")},
		{"headings and comments only", writeEditor("# a\n\n## more\n<!-- note -->\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo(t, nil)
			var out bytes.Buffer

			require.NoError(t, runCreateWithIO(&out, repo, "a", tt.open))
			assert.Equal(t, "Profile creation cancelled - no content added\n", out.String())
			assert.False(t, repo.Exists("a"))
		})
	}
}

func TestCreate_Errors(t *testing.T) {
	repo := newRepo(t, map[string]string{"taken": "T"})
	var out bytes.Buffer

	err := runCreateWithIO(&out, repo, "taken", writeEditor("new"))
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)

	err = runCreateWithIO(&out, repo, "../escape", writeEditor("new"))
	assert.ErrorIs(t, err, errors.ErrInvalidName)

	err = runCreateWithIO(&out, repo, "fresh", failingEditor)
	assert.ErrorIs(t, err, errors.ErrEditorFailed)
	assert.False(t, repo.Exists("fresh"), "nothing is written when the editor fails")

	content, err := repo.Read("taken")
	require.NoError(t, err)
	assert.Equal(t, "T", content)
}

func TestEdit(t *testing.T) {
	repo := newRepo(t, map[string]string{"p": "old body\n"})

	var out bytes.Buffer
	require.NoError(t, runEditWithIO(&out, repo, "p", writeEditor("new body\n")))
	assert.Equal(t, "Profile 'p' edited successfully\n", out.String())
	content, err := repo.Read("p")
	require.NoError(t, err)
	assert.Equal(t, "new body\n", content)

	out.Reset()
	require.NoError(t, runEditWithIO(&out, repo, "p", keepEditor))
	assert.Equal(t, "No changes made to profile 'p'\n", out.String())

	out.Reset()
	require.NoError(t, runEditWithIO(&out, repo, "p", writeEditor("  \n")))
	assert.Contains(t, out.String(), "left unchanged")
	content, err = repo.Read("p")
	require.NoError(t, err)
	assert.Equal(t, "new body\n", content)

	err = runEditWithIO(&out, repo, "p", failingEditor)
	assert.ErrorIs(t, err, errors.ErrEditorFailed)

	err = runEditWithIO(&out, repo, "missing", writeEditor("x"))
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		force    bool
		wantGone bool
		wantOut  string
	}{
		{"confirmed", "y\n", false, true, "Profile 'a/b' deleted successfully"},
		{"declined", "n\n", false, false, "Deletion cancelled"},
		{"no input", "", false, false, "Deletion cancelled"},
		{"forced", "", true, true, "Profile 'a/b' deleted successfully"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo(t, map[string]string{"a/b": "B"})
			var out bytes.Buffer

			err := runDeleteWithIO(&out, strings.NewReader(tt.input), repo, "a/b", tt.force)
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.wantOut)
			assert.Equal(t, !tt.wantGone, repo.Exists("a/b"))

			if tt.wantGone {
				assert.DirExists(t, filepath.Join(repo.Dir(), "a"), "parent directories are kept")
			}
			if tt.force {
				assert.NotContains(t, out.String(), "contents:")
			} else {
				assert.True(t, strings.HasPrefix(out.String(),
					"Profile 'a/b' contents:\nB\n\nDelete profile 'a/b'? [y/N]: "),
					"content is shown before the confirmation, got %q", out.String())
			}
		})
	}
}

func TestDelete_Missing(t *testing.T) {
	repo := newRepo(t, nil)
	var out bytes.Buffer

	err := runDeleteWithIO(&out, strings.NewReader("y\n"), repo, "nope", false)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Empty(t, out.String(), "no prompt for a missing profile")
}

func TestShow(t *testing.T) {
	repo := newRepo(t, map[string]string{"p": "# p\nbody"})

	var out bytes.Buffer
	require.NoError(t, runShowWithWriter(&out, repo, "p", false))
	assert.Equal(t, "Profile 'p' contents:\n# p\nbody\n\n", out.String())

	out.Reset()
	require.NoError(t, runShowWithWriter(&out, repo, "p", true))
	assert.Equal(t, "# p\nbody", out.String())

	err := runShowWithWriter(&out, repo, "missing", true)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestCopy(t *testing.T) {
	repo := newRepo(t, map[string]string{"p": "copied text"})
	mem := &clipboard.Memory{}

	var out bytes.Buffer
	require.NoError(t, runCopyWithWriter(&out, repo, "p", mem))
	assert.Equal(t, "copied text", mem.Text)

	path, err := repo.Path("p")
	require.NoError(t, err)
	assert.Equal(t, "Profile content copied to clipboard: "+path+"\n", out.String())

	err = runCopyWithWriter(&out, repo, "missing", mem)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
