// Package profile provides commands for managing stored profiles.
package profile

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/pmx/cmd/pmx/commands/flags"
	"github.com/thoreinstein/pmx/internal/cli"
	"github.com/thoreinstein/pmx/internal/clipboard"
	"github.com/thoreinstein/pmx/internal/editor"
)

// openEditor launches the user's editor on a file. Tests replace it.
var openEditor editor.Func = editor.Open

// clip receives profile content for the copy command.
var clip clipboard.Writer = clipboard.System{}

// Cmd is the parent command for all profile subcommands.
var Cmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"profiles"},
	Short:   "Manage stored profiles",
	Long: `Commands for managing the markdown profiles stored under <root>/repo.

Profile names are slash-separated paths without the .md extension, for
example work/review. Names may not contain '..', backslashes, control
characters or any of <>:"|?*.`,
	Example: `  pmx profile list
  pmx profile create work/review
  pmx profile show work/review

  See Also: pmx set-claude-profile, pmx set-codex-profile`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func profileSource() (cli.ProfileSource, error) {
	return flags.Repository()
}

// resolveName returns the name argument or lets the user pick one.
func resolveName(cmd *cobra.Command, args []string) (string, error) {
	repo, err := flags.Repository()
	if err != nil {
		return "", err
	}
	return cli.NewNameResolver(repo, cmd.OutOrStdout()).Resolve(args)
}
