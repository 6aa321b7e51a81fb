package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thoreinstein/pmx/internal/config"
	"github.com/thoreinstein/pmx/internal/paths"
)

func TestActiveAgents(t *testing.T) {
	tests := []struct {
		name   string
		agents config.AgentsConfig
		want   []string
	}{
		{"all enabled", config.AgentsConfig{}, []string{paths.AgentClaude, paths.AgentCodex}},
		{"claude disabled", config.AgentsConfig{DisableClaude: true}, []string{paths.AgentCodex}},
		{"codex disabled", config.AgentsConfig{DisableCodex: true}, []string{paths.AgentClaude}},
		{"both disabled", config.AgentsConfig{DisableClaude: true, DisableCodex: true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Agents: tt.agents}
			assert.Equal(t, tt.want, ActiveAgents(cfg))
		})
	}

	assert.False(t, AgentActive(config.Default(), "gemini"))
}

func TestActivePrompts(t *testing.T) {
	all := []string{"c", "a", "b"}

	tests := []struct {
		name string
		gate config.Gate
		want []string
	}{
		{"none", config.DisableNone(), []string{"c", "a", "b"}},
		{"all", config.DisableAll(), []string{}},
		{"subset", config.DisableOnly("a", "missing"), []string{"c", "b"}},
		{"empty subset", config.DisableOnly(), []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{MCP: config.MCPConfig{DisablePrompts: tt.gate, DisableTools: tt.gate}}
			assert.Equal(t, tt.want, ActivePrompts(cfg, all))
			assert.Equal(t, tt.want, ActiveTools(cfg, all))
			for _, name := range all {
				assert.Equal(t, !tt.gate.Disables(name), PromptEnabled(cfg, name))
				assert.Equal(t, !tt.gate.Disables(name), ToolEnabled(cfg, name))
			}
		})
	}
}

func TestGatesAreIndependent(t *testing.T) {
	cfg := &config.Config{MCP: config.MCPConfig{DisableTools: config.DisableAll()}}

	assert.True(t, PromptEnabled(cfg, "p"))
	assert.False(t, ToolEnabled(cfg, "set_profile"))
}
