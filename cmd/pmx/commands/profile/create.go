package profile

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pmx/cmd/pmx/commands/flags"
	"github.com/thoreinstein/pmx/internal/editor"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/profile"
)

func init() {
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:     "create <name>",
	Aliases: []string{"new"},
	Short:   "Create a profile in your editor",
	Long: `Create a new profile by editing a template in $EDITOR (falling back to
$VISUAL, nano, then vi).

Nothing is saved when the editor exits with an error or when the result
only contains headings, comments or blank lines.`,
	Example: `  pmx profile create work/review
  EDITOR="code --wait" pmx profile create style/go`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := flags.Repository()
		if err != nil {
			return err
		}
		return runCreateWithIO(os.Stdout, repo, args[0], openEditor)
	},
}

// runCreateWithIO allows injecting the writer and editor for testing.
func runCreateWithIO(w io.Writer, repo *profile.Repository, name string, open editor.Func) error {
	n, err := profile.ValidateName(name)
	if err != nil {
		return err
	}
	if repo.Exists(name) {
		path, _ := repo.Path(name)
		return &errors.AlreadyExistsError{Name: name, Path: path}
	}

	content, err := compose(n.String(), profile.Template(n.String()), open)
	if errors.Is(err, errors.ErrEmptyContent) {
		fmt.Fprintln(w, "Profile creation cancelled - no content added")
		return nil
	}
	if err != nil {
		return err
	}

	if err := repo.Create(name, content); err != nil {
		return err
	}
	fmt.Fprintf(w, "Profile '%s' created successfully\n", name)
	return nil
}

// compose edits initial and returns the result, or ErrEmptyContent when the
// user left nothing but template scaffolding.
func compose(name, initial string, open editor.Func) (string, error) {
	content, err := editor.Edit(open, initial)
	if err != nil {
		return "", err
	}
	if profile.IsBlank(name, content) {
		return "", errors.ErrEmptyContent
	}
	return content, nil
}
