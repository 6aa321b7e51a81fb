package profile

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pmx/cmd/pmx/commands/flags"
	"github.com/thoreinstein/pmx/internal/logging"
	"github.com/thoreinstein/pmx/internal/profile"
)

var listFlat bool

func init() {
	listCmd.Flags().BoolVar(&listFlat, "flat", false, "print one full name per line even on a terminal")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored profiles",
	Long: `List stored profiles.

On a terminal the profiles are drawn as a tree with directories suffixed by
'/'. When output is piped, or with --flat, each full profile name is printed
on its own line in sorted order.`,
	Example: `  pmx profile list
  pmx profile list | fzf`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(_ *cobra.Command, _ []string) error {
	repo, err := flags.Repository()
	if err != nil {
		return err
	}
	return runListWithWriter(os.Stdout, repo, logging.IsTTY(os.Stdout) && !listFlat)
}

// runListWithWriter allows injecting a writer for testing.
func runListWithWriter(w io.Writer, repo *profile.Repository, interactive bool) error {
	root, err := repo.List()
	if err != nil {
		return err
	}
	return profile.Render(w, root, interactive)
}
