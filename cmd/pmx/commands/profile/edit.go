package profile

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pmx/cmd/pmx/commands/flags"
	"github.com/thoreinstein/pmx/internal/cli"
	"github.com/thoreinstein/pmx/internal/editor"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/profile"
)

func init() {
	Cmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit [name]",
	Short: "Edit a profile in your editor",
	Long: `Open a copy of the profile in $EDITOR and save it back when the editor
exits successfully. Emptying the profile discards the edit; use
'pmx profile delete' to remove a profile.`,
	Example: `  pmx profile edit work/review`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: cli.CompleteProfiles(profileSource),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := resolveName(cmd, args)
		if err != nil {
			return err
		}
		repo, err := flags.Repository()
		if err != nil {
			return err
		}
		return runEditWithIO(os.Stdout, repo, name, openEditor)
	},
}

// runEditWithIO allows injecting the writer and editor for testing.
func runEditWithIO(w io.Writer, repo *profile.Repository, name string, open editor.Func) error {
	current, err := repo.Read(name)
	if err != nil {
		return err
	}

	edited, err := compose(name, current, open)
	if errors.Is(err, errors.ErrEmptyContent) {
		fmt.Fprintf(w, "Profile '%s' left unchanged - edit produced no content\n", name)
		return nil
	}
	if err != nil {
		return err
	}

	if edited == current {
		fmt.Fprintf(w, "No changes made to profile '%s'\n", name)
		return nil
	}

	if err := repo.Write(name, edited); err != nil {
		return err
	}
	fmt.Fprintf(w, "Profile '%s' edited successfully\n", name)
	return nil
}
