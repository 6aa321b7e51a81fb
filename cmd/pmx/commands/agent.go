package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pmx/cmd"
	"github.com/thoreinstein/pmx/cmd/pmx/commands/flags"
	"github.com/thoreinstein/pmx/internal/agent"
	"github.com/thoreinstein/pmx/internal/backup"
	"github.com/thoreinstein/pmx/internal/cli"
	"github.com/thoreinstein/pmx/internal/config"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/gate"
)

// agentCmds holds the generated commands of each agent, for gating.
var agentCmds = map[agent.Agent][]*cobra.Command{}

func init() {
	backup.Version = cmd.Version

	for _, a := range agent.All() {
		cmds := []*cobra.Command{newSetCmd(a), newAppendCmd(a), newResetCmd(a)}
		agentCmds[a] = cmds
		rootCmd.AddCommand(cmds...)
	}
}

// applyGates hides the commands of agents disabled in cfg.
func applyGates(cfg *config.Config) {
	for a, cmds := range agentCmds {
		hidden := !gate.AgentActive(cfg, a.String())
		for _, c := range cmds {
			c.Hidden = hidden
		}
	}
}

// newApplier builds the applier for the loaded root, backing up targets to
// the default backup directory.
func newApplier() (*agent.Applier, error) {
	root, err := flags.Root()
	if err != nil {
		return nil, err
	}
	repo, err := flags.Repository()
	if err != nil {
		return nil, err
	}
	logger := flags.Logger()
	mgr := backup.NewManager(backup.WithLogger(logger))
	return agent.NewApplier(root.Config, repo, agent.WithBackup(mgr), agent.WithLogger(logger)), nil
}

// requireActive fails before any prompting when the agent is disabled.
func requireActive(a agent.Agent) error {
	root, err := flags.Root()
	if err != nil {
		return err
	}
	if !gate.AgentActive(root.Config, a.String()) {
		return &errors.DisabledError{Feature: a.DisplayName() + " profiles"}
	}
	return nil
}

func profileSource() (cli.ProfileSource, error) {
	return flags.Repository()
}

func resolveName(c *cobra.Command, args []string) (string, error) {
	repo, err := flags.Repository()
	if err != nil {
		return "", err
	}
	return cli.NewNameResolver(repo, c.OutOrStdout()).Resolve(args)
}

func newSetCmd(a agent.Agent) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("set-%s-profile [name]", a),
		Short: fmt.Sprintf("Replace %s with a profile", a.Target("~")),
		Long: fmt.Sprintf(`Replace the %s instruction file (%s) with the content of a profile.

The existing file, if any, is backed up first. When the name is omitted on a
terminal, a fuzzy finder lists the stored profiles.`, a.DisplayName(), a.Target("~")),
		Example: fmt.Sprintf(`  pmx set-%[1]s-profile work/review

  See Also: pmx append-%[1]s-profile, pmx reset-%[1]s-profile`, a),
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cli.CompleteProfiles(profileSource),
		RunE: func(c *cobra.Command, args []string) error {
			if err := requireActive(a); err != nil {
				return err
			}
			name, err := resolveName(c, args)
			if err != nil {
				return err
			}
			applier, err := newApplier()
			if err != nil {
				return err
			}
			return runSetWithWriter(c.OutOrStdout(), applier, a, name)
		},
	}
}

func runSetWithWriter(w io.Writer, applier *agent.Applier, a agent.Agent, name string) error {
	res, err := applier.Set(a, name)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, agent.SetMessage(res, name))
	return nil
}

func newAppendCmd(a agent.Agent) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("append-%s-profile [name]", a),
		Short: fmt.Sprintf("Append a profile to %s", a.Target("~")),
		Long: fmt.Sprintf(`Append the content of a profile to the %s instruction file (%s),
creating the file when it does not exist.

Existing bytes are never rewritten. A newline separates the profile from
content that does not already end with one.`, a.DisplayName(), a.Target("~")),
		Example: fmt.Sprintf(`  pmx append-%[1]s-profile style/go

  See Also: pmx set-%[1]s-profile, pmx reset-%[1]s-profile`, a),
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cli.CompleteProfiles(profileSource),
		RunE: func(c *cobra.Command, args []string) error {
			if err := requireActive(a); err != nil {
				return err
			}
			name, err := resolveName(c, args)
			if err != nil {
				return err
			}
			applier, err := newApplier()
			if err != nil {
				return err
			}
			return runAppendWithWriter(c.OutOrStdout(), applier, a, name)
		},
	}
}

func runAppendWithWriter(w io.Writer, applier *agent.Applier, a agent.Agent, name string) error {
	res, err := applier.Append(a, name)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, agent.AppendMessage(res, name))
	return nil
}

func newResetCmd(a agent.Agent) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("reset-%s-profile", a),
		Short: fmt.Sprintf("Remove %s", a.Target("~")),
		Long: fmt.Sprintf(`Delete the %s instruction file (%s). Nothing happens when it is
already absent. The removed file can be restored with pmx backup restore %s.`,
			a.DisplayName(), a.Target("~"), a),
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			applier, err := newApplier()
			if err != nil {
				return err
			}
			return runResetWithWriter(c.OutOrStdout(), applier, a)
		},
	}
}

func runResetWithWriter(w io.Writer, applier *agent.Applier, a agent.Agent) error {
	res, err := applier.Reset(a)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, agent.ResetMessage(res))
	return nil
}
