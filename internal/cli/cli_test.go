package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pmx/internal/cli/prompt"
	"github.com/thoreinstein/pmx/internal/errors"
)

type memSource map[string]string

func (m memSource) Names() ([]string, error) {
	out := make([]string, 0, len(m))
	for _, n := range []string{"a/x", "a/y", "b"} {
		if _, ok := m[n]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m memSource) Read(name string) (string, error) {
	c, ok := m[name]
	if !ok {
		return "", &errors.NotFoundError{Kind: "profile", Name: name}
	}
	return c, nil
}

func TestNameResolver(t *testing.T) {
	src := memSource{"a/x": "X", "a/y": "Y", "b": "B"}

	t.Run("explicit argument wins", func(t *testing.T) {
		r := &NameResolver{Source: src, Interactive: true}
		got, err := r.Resolve([]string{"b"})
		require.NoError(t, err)
		assert.Equal(t, "b", got)
	})

	t.Run("non-interactive requires a name", func(t *testing.T) {
		r := &NameResolver{Source: src}
		_, err := r.Resolve(nil)
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("picker sees names and previews", func(t *testing.T) {
		var seen []string
		var preview string
		r := &NameResolver{
			Source:      src,
			Interactive: true,
			Pick: func(choices []string, p prompt.PreviewFunc) (string, error) {
				seen = choices
				preview = p("a/y")
				return "a/y", nil
			},
		}
		got, err := r.Resolve(nil)
		require.NoError(t, err)
		assert.Equal(t, "a/y", got)
		assert.Equal(t, []string{"a/x", "a/y", "b"}, seen)
		assert.Equal(t, "Y", preview)
	})

	t.Run("cancelled picker", func(t *testing.T) {
		r := &NameResolver{
			Source:      src,
			Interactive: true,
			Pick: func([]string, prompt.PreviewFunc) (string, error) {
				return "", prompt.ErrSelectionCancelled
			},
		}
		_, err := r.Resolve(nil)
		assert.ErrorIs(t, err, prompt.ErrSelectionCancelled)
	})

	t.Run("empty repository", func(t *testing.T) {
		r := &NameResolver{Source: memSource{}, Interactive: true, Pick: prompt.FuzzyPick}
		_, err := r.Resolve(nil)
		assert.Error(t, err)
	})
}

func TestCompleteProfiles(t *testing.T) {
	fn := CompleteProfiles(func() (ProfileSource, error) {
		return memSource{"a/x": "X", "a/y": "Y", "b": "B"}, nil
	})

	got, directive := fn(&cobra.Command{}, nil, "a/")
	assert.Equal(t, []string{"a/x", "a/y"}, got)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	got, _ = fn(&cobra.Command{}, []string{"b"}, "")
	assert.Empty(t, got, "only the first argument completes")

	failing := CompleteProfiles(func() (ProfileSource, error) {
		return nil, errors.New("no root")
	})
	got, _ = failing(&cobra.Command{}, nil, "")
	assert.Empty(t, got)
}
