// Package backup provides CLI commands for target file backups.
package backup

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/pmx/cmd/pmx/commands/flags"
	"github.com/thoreinstein/pmx/internal/agent"
	"github.com/thoreinstein/pmx/internal/backup"
)

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage instruction file backups",
	Long: `Manage backups of the agent instruction files.

Before pmx sets, appends to or resets CLAUDE.md or AGENTS.md, the existing
file is copied into $XDG_DATA_HOME/pmx/backups/<agent>/<id>/. The five most
recent backups of each agent are kept.`,
	Example: `  # List all backups
  pmx backup list

  # Restore the most recent Claude backup
  pmx backup restore claude

  # Restore a specific backup
  pmx backup restore codex 20260123T100712

  See Also:
    pmx backup list    - List available backups
    pmx backup restore - Restore from a backup`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func newManager() *backup.Manager {
	return backup.NewManager(backup.WithLogger(flags.Logger()))
}

func completeAgents(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, a := range agent.All() {
		out = append(out, a.String())
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
