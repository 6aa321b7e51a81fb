package agent

import (
	"fmt"
	"slices"
	"strings"

	"github.com/thoreinstein/pmx/internal/config"
	"github.com/thoreinstein/pmx/internal/gate"
	"github.com/thoreinstein/pmx/internal/paths"
)

// Agent identifies an integration target.
type Agent string

const (
	// Claude manages ~/.claude/CLAUDE.md.
	Claude Agent = paths.AgentClaude
	// Codex manages ~/.codex/AGENTS.md.
	Codex Agent = paths.AgentCodex
)

// All returns every agent in canonical order.
func All() []Agent {
	return []Agent{Claude, Codex}
}

// Parse returns the agent named s, case-insensitively.
func Parse(s string) (Agent, error) {
	a := Agent(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(All(), a) {
		return a, nil
	}
	return "", fmt.Errorf("unknown agent %q (valid: claude, codex)", s)
}

func (a Agent) String() string {
	return string(a)
}

// DisplayName is the product name used in messages.
func (a Agent) DisplayName() string {
	switch a {
	case Claude:
		return "Claude"
	case Codex:
		return "Codex"
	default:
		return string(a)
	}
}

// Target returns the instruction file this agent owns under home.
func (a Agent) Target(home string) string {
	return paths.InstructionPath(home, string(a))
}

// Active returns the agents the configuration enables.
func Active(cfg *config.Config) []Agent {
	var out []Agent
	for _, name := range gate.ActiveAgents(cfg) {
		out = append(out, Agent(name))
	}
	return out
}
