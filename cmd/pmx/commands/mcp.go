package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pmx/cmd"
	"github.com/thoreinstein/pmx/cmd/pmx/commands/flags"
	"github.com/thoreinstein/pmx/internal/backup"
	"github.com/thoreinstein/pmx/internal/mcp"
)

var mcpAddr string

func init() {
	mcpCmd.Flags().StringVar(&mcpAddr, "http", "",
		"serve streamable HTTP on this address instead of stdio (e.g. localhost:8080)")
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve profiles over the Model Context Protocol",
	Long: `Run an MCP server that exposes each stored profile as a prompt and offers
tools to list, read and apply profiles.

The [mcp] section of config.toml controls what is exposed:

  disable_prompts = true | false | ["name", ...]
  disable_tools   = true | false | ["list_profiles", ...]

The server speaks stdio by default. Logs go to stderr.`,
	Example: `  # Register with Claude Code
  claude mcp add pmx -- pmx mcp

  # Serve over HTTP
  pmx mcp --http localhost:8080`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		root, err := flags.Root()
		if err != nil {
			return err
		}
		logger := flags.Logger()

		srv, err := mcp.NewServer(root,
			mcp.WithLogger(logger),
			mcp.WithBackup(backup.NewManager(backup.WithLogger(logger))),
			mcp.WithVersion(cmd.Version),
		)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return srv.Serve(ctx, mcpAddr)
	},
}
