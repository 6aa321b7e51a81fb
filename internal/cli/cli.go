// Package cli provides helpers shared by the pmx commands: profile name
// arguments, interactive selection and shell completion.
package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pmx/internal/cli/prompt"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/logging"
)

// ErrNameRequired is returned when a profile name is omitted and no
// interactive picker is available.
var ErrNameRequired = errors.New("a profile name is required")

// ProfileSource lists and reads profiles. *profile.Repository satisfies it.
type ProfileSource interface {
	Names() ([]string, error)
	Read(name string) (string, error)
}

// NameResolver turns an optional positional argument into a profile name.
type NameResolver struct {
	Source ProfileSource

	// Interactive enables the picker when the name is omitted.
	Interactive bool

	// Pick defaults to prompt.FuzzyPick.
	Pick prompt.Picker
}

// NewNameResolver returns a resolver that prompts only when out is a
// terminal.
func NewNameResolver(src ProfileSource, out io.Writer) *NameResolver {
	return &NameResolver{
		Source:      src,
		Interactive: logging.IsTTY(out),
		Pick:        prompt.FuzzyPick,
	}
}

// Resolve returns args[0] if present, otherwise asks the user to pick one of
// the stored profiles.
func (r *NameResolver) Resolve(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if !r.Interactive || r.Pick == nil {
		return "", ErrNameRequired
	}

	names, err := r.Source.Names()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", errors.New("no profiles found")
	}

	return r.Pick(names, func(name string) string {
		content, err := r.Source.Read(name)
		if err != nil {
			return err.Error()
		}
		return content
	})
}

// CompleteProfiles returns a cobra completion function offering the
// profile names from src. It completes only the first positional argument.
func CompleteProfiles(src func() (ProfileSource, error)) cobra.CompletionFunc {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		s, err := src()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names, err := s.Names()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var out []string
		for _, n := range names {
			if strings.HasPrefix(n, toComplete) {
				out = append(out, n)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
