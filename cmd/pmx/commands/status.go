package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/pmx/cmd/pmx/commands/flags"
	"github.com/thoreinstein/pmx/internal/agent"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/gate"
	"github.com/thoreinstein/pmx/internal/mcp"
	"github.com/thoreinstein/pmx/internal/paths"
	"github.com/thoreinstein/pmx/internal/profile"
	"github.com/thoreinstein/pmx/internal/storage"
)

var (
	statusJSON bool
	statusYAML bool
)

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	statusCmd.Flags().BoolVar(&statusYAML, "yaml", false, "output as YAML")
	statusCmd.MarkFlagsMutuallyExclusive("json", "yaml")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show storage and integration overview",
	Long: `Show the resolved storage root, the state of each agent integration,
the MCP gates and the number of stored profiles.

Output modes (mutually exclusive):
  (default)   Human-readable summary
  --json      Machine-readable JSON output
  --yaml      YAML output`,
	Example: `  pmx status
  pmx status --json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

type statusReport struct {
	Root       string        `json:"root"                 yaml:"root"`
	Source     string        `json:"source"               yaml:"source"`
	Config     string        `json:"config"               yaml:"config"`
	Profiles   int           `json:"profiles"             yaml:"profiles"`
	Agents     []agentStatus `json:"agents"               yaml:"agents"`
	MCP        mcpStatus     `json:"mcp"                  yaml:"mcp"`
	Extensions []string      `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

type agentStatus struct {
	Name    string `json:"name"    yaml:"name"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Target  string `json:"target"  yaml:"target"`
	Exists  bool   `json:"exists"  yaml:"exists"`
}

type mcpStatus struct {
	DisablePrompts string   `json:"disable_prompts" yaml:"disable_prompts"`
	DisableTools   string   `json:"disable_tools"   yaml:"disable_tools"`
	ActiveTools    []string `json:"active_tools"    yaml:"active_tools"`
}

func runStatus(_ *cobra.Command, _ []string) error {
	root, err := flags.Root()
	if err != nil {
		return err
	}
	home, err := paths.ResolveHome()
	if err != nil {
		return err
	}
	return runStatusWithWriter(os.Stdout, root, flags.Source(), home)
}

// runStatusWithWriter allows injecting a writer and home for testing.
func runStatusWithWriter(w io.Writer, root *storage.Root, src storage.Source, home string) error {
	report, err := collectStatus(root, src, home)
	if err != nil {
		return err
	}

	switch {
	case statusJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(report), "encoding output")
	case statusYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encoding output")
		}
		return errors.Wrap(enc.Close(), "encoding output")
	default:
		writeStatusText(w, report)
		return nil
	}
}

func collectStatus(root *storage.Root, src storage.Source, home string) (*statusReport, error) {
	names, err := profile.NewRepository(root.Path).Names()
	if err != nil {
		return nil, err
	}

	cfg := root.Config
	report := &statusReport{
		Root:     root.Path,
		Source:   src.String(),
		Config:   root.ConfigPath(),
		Profiles: len(names),
		MCP: mcpStatus{
			DisablePrompts: cfg.MCP.DisablePrompts.String(),
			DisableTools:   cfg.MCP.DisableTools.String(),
			ActiveTools:    gate.ActiveTools(cfg, mcp.ToolNames()),
		},
		Extensions: cfg.Extensions.AllowedSubcommands,
	}
	if report.MCP.ActiveTools == nil {
		report.MCP.ActiveTools = []string{}
	}

	for _, a := range agent.All() {
		target := a.Target(home)
		_, statErr := os.Stat(target)
		report.Agents = append(report.Agents, agentStatus{
			Name:    a.String(),
			Enabled: gate.AgentActive(cfg, a.String()),
			Target:  target,
			Exists:  statErr == nil,
		})
	}
	return report, nil
}

func writeStatusText(w io.Writer, r *statusReport) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	gray := color.New(color.FgHiBlack)

	fmt.Fprintf(w, "%s %s %s\n", bold.Sprint("Storage:"), r.Root, gray.Sprintf("(%s)", r.Source))
	fmt.Fprintf(w, "%s %s\n", bold.Sprint("Config: "), r.Config)
	fmt.Fprintf(w, "%s %d\n", bold.Sprint("Profiles:"), r.Profiles)

	fmt.Fprintln(w)
	fmt.Fprintln(w, bold.Sprint("Agents:"))
	for _, a := range r.Agents {
		state := green.Sprint("enabled")
		if !a.Enabled {
			state = yellow.Sprint("disabled")
		}
		present := gray.Sprint("absent")
		if a.Exists {
			present = "present"
		}
		fmt.Fprintf(w, "  %-6s %s  %s (%s)\n", a.Name, state, a.Target, present)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, bold.Sprint("MCP:"))
	fmt.Fprintf(w, "  disabled prompts: %s\n", r.MCP.DisablePrompts)
	fmt.Fprintf(w, "  disabled tools:   %s\n", r.MCP.DisableTools)
	tools := "none"
	if len(r.MCP.ActiveTools) > 0 {
		tools = strings.Join(r.MCP.ActiveTools, ", ")
	}
	fmt.Fprintf(w, "  active tools:     %s\n", tools)

	if len(r.Extensions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %s\n", bold.Sprint("Extensions:"), strings.Join(r.Extensions, ", "))
	}
}
