package prompt

import (
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/pmx/internal/errors"
)

// Sentinel errors for interactive selection.
var (
	ErrNoChoices          = errors.New("nothing to select from")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// PreviewFunc returns the preview text for a choice.
type PreviewFunc func(choice string) string

// Picker chooses one item from a list.
type Picker func(choices []string, preview PreviewFunc) (string, error)

// FuzzyPick opens a fuzzy finder over choices with an optional preview
// pane. A single choice is returned without prompting.
func FuzzyPick(choices []string, preview PreviewFunc) (string, error) {
	if len(choices) == 0 {
		return "", ErrNoChoices
	}
	if len(choices) == 1 {
		return choices[0], nil
	}

	var opts []fuzzyfinder.Option
	if preview != nil {
		opts = append(opts, fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i < 0 {
				return ""
			}
			return preview(choices[i])
		}))
	}

	idx, err := fuzzyfinder.Find(choices, func(i int) string { return choices[i] }, opts...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "interactive selection failed")
	}
	return choices[idx], nil
}
