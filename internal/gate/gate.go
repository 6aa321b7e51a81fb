// Package gate answers which operations the configuration currently allows.
//
// Agent operations are keyed by the identifiers in package paths. Prompt and
// tool filtering follows the [config.Gate] of the [mcp] table: a true gate
// hides everything, false hides nothing and a list hides exactly its names.
package gate

import (
	"github.com/thoreinstein/pmx/internal/config"
	"github.com/thoreinstein/pmx/internal/paths"
)

// AgentActive reports whether the integration is enabled. Unknown
// integrations are never active.
func AgentActive(cfg *config.Config, agent string) bool {
	switch agent {
	case paths.AgentClaude:
		return !cfg.Agents.DisableClaude
	case paths.AgentCodex:
		return !cfg.Agents.DisableCodex
	default:
		return false
	}
}

// ActiveAgents returns the enabled integrations, Claude before Codex.
func ActiveAgents(cfg *config.Config) []string {
	var out []string
	for _, a := range paths.Agents() {
		if AgentActive(cfg, a) {
			out = append(out, a)
		}
	}
	return out
}

// PromptEnabled reports whether a profile may be exposed as a prompt.
func PromptEnabled(cfg *config.Config, name string) bool {
	return !cfg.MCP.DisablePrompts.Disables(name)
}

// ToolEnabled reports whether an MCP tool may be registered.
func ToolEnabled(cfg *config.Config, name string) bool {
	return !cfg.MCP.DisableTools.Disables(name)
}

// ActivePrompts filters all down to the prompts not disabled, keeping order.
func ActivePrompts(cfg *config.Config, all []string) []string {
	return filter(all, cfg.MCP.DisablePrompts)
}

// ActiveTools filters all down to the tools not disabled, keeping order.
func ActiveTools(cfg *config.Config, all []string) []string {
	return filter(all, cfg.MCP.DisableTools)
}

func filter(all []string, g config.Gate) []string {
	out := make([]string, 0, len(all))
	for _, name := range all {
		if !g.Disables(name) {
			out = append(out, name)
		}
	}
	return out
}
