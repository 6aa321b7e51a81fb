// Package commands implements the CLI commands for pmx.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pmx/cmd"
	"github.com/thoreinstein/pmx/cmd/pmx/commands/backup"
	"github.com/thoreinstein/pmx/cmd/pmx/commands/flags"
	"github.com/thoreinstein/pmx/cmd/pmx/commands/profile"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/logging"
)

// EnvDebug raises verbosity when no -v flag is given: 1/true for debug,
// 2 for trace.
const EnvDebug = "PMX_DEBUG"

// configFlag holds the value of the --config flag.
var configFlag string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"storage root directory (default: $PMX_CONFIG_FILE, $XDG_CONFIG_HOME/pmx or ~/.config/pmx)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("pmx version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(profile.Cmd)
	rootCmd.AddCommand(backup.Cmd)

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		// --help skips PersistentPreRunE; hide gated commands here too.
		flags.SetConfigFlag(configFlag)
		if root, err := flags.LoadRoot(); err == nil {
			applyGates(root.Config)
		}
		defaultHelp(c, args)
	})
}

var rootCmd = &cobra.Command{
	Use:   "pmx",
	Short: "Manage system prompt profiles for AI coding agents",
	Long: `pmx stores reusable system prompts ("profiles") as markdown files and
applies them to the instruction files read by AI coding agents:

  Claude  ~/.claude/CLAUDE.md
  Codex   ~/.codex/AGENTS.md

Profiles live under <root>/repo and are addressed by slash-separated names
such as work/review. The storage root is resolved from --config,
$PMX_CONFIG_FILE, $XDG_CONFIG_HOME/pmx or ~/.config/pmx, in that order, and
is created on first use unless named explicitly.`,
	Example: `  # Create and apply a profile
  pmx profile create work/review
  pmx set-claude-profile work/review

  # Stack another profile on top
  pmx append-claude-profile style/go

  # Serve profiles to MCP clients
  pmx mcp

  See Also: pmx profile, pmx status, pmx backup`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		if skipsRoot(cmd) {
			return nil
		}

		flags.SetConfigFlag(configFlag)
		root, err := flags.LoadRoot()
		if err != nil {
			if isCompletionRequest(cmd) {
				return nil
			}
			return err
		}
		applyGates(root.Config)
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// skipsRoot reports whether cmd runs without a storage root.
func skipsRoot(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help":
		return true
	}
	return cmd.Parent() != nil && cmd.Parent().Name() == "completion"
}

// isCompletionRequest reports whether cmd is cobra's hidden completion
// entry point. A broken root must not surface as a completion error.
func isCompletionRequest(cmd *cobra.Command) bool {
	return cmd.Name() == cobra.ShellCompRequestCmd || cmd.Name() == cobra.ShellCompNoDescRequestCmd
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv(EnvDebug); ok {
				v = logging.VerbosityFromEnv(val)
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	cfg := logging.Config{
		Level:  level,
		Format: logging.Format(logFormat),
		Output: cmd.ErrOrStderr(),
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		cfg.File = f
	}

	logger := logging.New(cfg)
	slog.SetDefault(logger)
	flags.SetLogger(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// Execute runs the root command. Failures are returned as *errors.ExitError
// carrying a suggestion for the user.
func Execute() error {
	return errors.Classify(rootCmd.Execute())
}
