package backup

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pmx/cmd/pmx/commands/flags"
	"github.com/thoreinstein/pmx/internal/agent"
	"github.com/thoreinstein/pmx/internal/backup"
	"github.com/thoreinstein/pmx/internal/config"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/gate"
)

func init() {
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore <agent> [id]",
	Short: "Restore an instruction file from a backup",
	Long: `Restore the agent's instruction file from a backup. Without an id the most
recent backup is used. The backup's checksum is verified before anything is
written. Restoring is refused while the agent is disabled in config.toml.`,
	Example: `  pmx backup restore claude
  pmx backup restore codex 20260123T100712

  See Also:
    pmx backup list - List available backups`,
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeAgents,
	RunE: func(_ *cobra.Command, args []string) error {
		a, err := agent.Parse(args[0])
		if err != nil {
			return err
		}
		var id string
		if len(args) == 2 {
			id = args[1]
		}
		root, err := flags.Root()
		if err != nil {
			return err
		}
		return runRestoreWithWriter(os.Stdout, newManager(), root.Config, a, id)
	},
}

// runRestoreWithWriter allows injecting a writer and manager for testing.
func runRestoreWithWriter(w io.Writer, mgr *backup.Manager, cfg *config.Config, a agent.Agent, id string) error {
	if !gate.AgentActive(cfg, a.String()) {
		return &errors.DisabledError{Feature: a.DisplayName() + " profiles"}
	}

	manifest, err := mgr.Restore(a.String(), id)
	if errors.Is(err, backup.ErrNoBackupsFound) {
		name := a.String()
		if id != "" {
			name += "/" + id
		}
		return &errors.NotFoundError{Kind: "backup", Name: name}
	}
	if err != nil {
		return err
	}

	for _, f := range manifest.Files {
		fmt.Fprintf(w, "Restored %s from backup %s\n", f.OriginalPath, manifest.ID)
	}
	return nil
}
