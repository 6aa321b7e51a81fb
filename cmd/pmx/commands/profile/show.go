package profile

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pmx/cmd/pmx/commands/flags"
	"github.com/thoreinstein/pmx/internal/cli"
	"github.com/thoreinstein/pmx/internal/profile"
)

var showRaw bool

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print only the profile content")
	Cmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:     "show [name]",
	Aliases: []string{"cat"},
	Short:   "Print a profile",
	Example: `  pmx profile show work/review
  pmx profile show work/review --raw > review.md`,
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
		return runShowWithWriter(os.Stdout, repo, name, showRaw)
	},
}

// runShowWithWriter allows injecting a writer for testing.
func runShowWithWriter(w io.Writer, repo *profile.Repository, name string, raw bool) error {
	content, err := repo.Read(name)
	if err != nil {
		return err
	}

	if raw {
		_, err := io.WriteString(w, content)
		return err
	}

	fmt.Fprintf(w, "Profile '%s' contents:\n", name)
	fmt.Fprintln(w, content)
	fmt.Fprintln(w)
	return nil
}
