package profile

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pmx/cmd/pmx/commands/flags"
	"github.com/thoreinstein/pmx/internal/cli"
	"github.com/thoreinstein/pmx/internal/cli/prompt"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/profile"
)

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
	Cmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:     "delete [name]",
	Aliases: []string{"rm", "remove"},
	Short:   "Delete a profile",
	Long: `Delete a stored profile after showing its content and asking for
confirmation. Only the profile file is removed; its parent directories are
left in place.`,
	Example: `  pmx profile delete work/review
  pmx profile delete work/review --force`,
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
		return runDeleteWithIO(os.Stdout, os.Stdin, repo, name, deleteForce)
	},
}

// runDeleteWithIO allows injecting writers for testing.
func runDeleteWithIO(w io.Writer, r io.Reader, repo *profile.Repository, name string, force bool) error {
	path, err := repo.Path(name)
	if err != nil {
		return err
	}
	if !repo.Exists(name) {
		return &errors.NotFoundError{Kind: "profile", Name: name, Path: path}
	}

	if !force {
		if err := runShowWithWriter(w, repo, name, false); err != nil {
			return err
		}
		ok, err := prompt.Confirm(r, w, fmt.Sprintf("Delete profile '%s'?", name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, "Deletion cancelled")
			return nil
		}
	}

	if err := repo.Delete(name); err != nil {
		return err
	}
	fmt.Fprintf(w, "Profile '%s' deleted successfully\n", name)
	return nil
}
