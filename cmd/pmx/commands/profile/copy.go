package profile

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pmx/cmd/pmx/commands/flags"
	"github.com/thoreinstein/pmx/internal/cli"
	"github.com/thoreinstein/pmx/internal/clipboard"
	"github.com/thoreinstein/pmx/internal/profile"
)

func init() {
	Cmd.AddCommand(copyCmd)
}

var copyCmd = &cobra.Command{
	Use:   "copy [name]",
	Short: "Copy a profile to the clipboard",
	Long: `Copy the content of a profile to the system clipboard. On Linux this
needs xclip, xsel or wl-clipboard.`,
	Example: `  pmx profile copy work/review`,
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
		return runCopyWithWriter(os.Stdout, repo, name, clip)
	},
}

// runCopyWithWriter allows injecting the writer and clipboard for testing.
func runCopyWithWriter(w io.Writer, repo *profile.Repository, name string, cb clipboard.Writer) error {
	content, err := repo.Read(name)
	if err != nil {
		return err
	}
	if err := cb.WriteText(content); err != nil {
		return err
	}

	path, err := repo.Path(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Profile content copied to clipboard: %s\n", path)
	return nil
}
