package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/pmx/cmd/pmx/commands/flags"
	"github.com/thoreinstein/pmx/internal/extension"
)

func init() {
	rootCmd.AddCommand(extCmd)
}

var extCmd = &cobra.Command{
	Use:   "ext <subcommand> [-- args...]",
	Short: "Run an external pmx-<subcommand> extension",
	Long: `Run the executable pmx-<subcommand> found on PATH, passing the remaining
arguments through. Its exit status becomes pmx's exit status.

Only subcommands listed in config.toml may run:

  [extensions]
  allowed_subcommands = ["sync"]

Names may contain letters, digits and underscores, joined by single hyphens.`,
	Example: `  pmx ext sync -- --dry-run`,
	Args:               cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		root, err := flags.Root()
		if err != nil {
			return err
		}
		r := extension.NewRunner(root.Config,
			extension.WithIO(c.InOrStdin(), c.OutOrStdout(), c.ErrOrStderr()),
			extension.WithLogger(flags.Logger()),
		)
		return r.Run(c.Context(), args)
	},
}
