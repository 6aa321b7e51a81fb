package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/thoreinstein/pmx/internal/agent"
	"github.com/thoreinstein/pmx/internal/gate"
	"github.com/thoreinstein/pmx/pkg/frontmatter"
)

// Tool names.
const (
	ToolListProfiles  = "list_profiles"
	ToolGetProfile    = "get_profile"
	ToolSetProfile    = "set_profile"
	ToolAppendProfile = "append_profile"
	ToolResetProfile  = "reset_profile"
)

// ToolNames returns every tool the server can register, in registration order.
func ToolNames() []string {
	return []string{ToolListProfiles, ToolGetProfile, ToolSetProfile, ToolAppendProfile, ToolResetProfile}
}

// ListProfilesParams defines parameters for the list_profiles tool.
type ListProfilesParams struct {
	Prefix string `json:"prefix,omitempty"`
}

// ListProfilesResult lists profile names.
type ListProfilesResult struct {
	Profiles []string `json:"profiles"`
	Count    int      `json:"count"`
}

// GetProfileParams defines parameters for the get_profile tool.
type GetProfileParams struct {
	Name string `json:"name"`
}

// GetProfileResult carries one profile's content.
type GetProfileResult struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content"`
}

// ApplyParams defines parameters for set_profile and append_profile.
type ApplyParams struct {
	Agent string `json:"agent"`
	Name  string `json:"name"`
}

// ResetParams defines parameters for reset_profile.
type ResetParams struct {
	Agent string `json:"agent"`
}

// ApplyResult reports what a mutating tool did to the agent target.
type ApplyResult struct {
	Agent    string `json:"agent"`
	Target   string `json:"target"`
	Created  bool   `json:"created"`
	Removed  bool   `json:"removed"`
	BackupID string `json:"backupId,omitempty"`
	Message  string `json:"message"`
}

func nameSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Profile name as returned by list_profiles, e.g. work/review.",
	}
}

func agentSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Target agent: claude (~/.claude/CLAUDE.md) or codex (~/.codex/AGENTS.md).",
		Enum:        []any{"claude", "codex"},
	}
}

// registerTools adds every tool the disable_tools gate allows.
func (s *Server) registerTools() {
	if gate.ToolEnabled(s.cfg, ToolListProfiles) {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        ToolListProfiles,
			Description: "List stored profile names. Optionally filter by a name prefix such as a namespace.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"prefix": {
						Type:        "string",
						Description: "Only return names starting with this prefix.",
					},
				},
			},
		}, WithTracing(s.tracer, s.logger, s.handleListProfiles))
	}

	if gate.ToolEnabled(s.cfg, ToolGetProfile) {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        ToolGetProfile,
			Description: "Get the markdown content of a stored profile. Use a name EXACTLY as returned by list_profiles.",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{"name": nameSchema()},
				Required:   []string{"name"},
			},
		}, WithTracing(s.tracer, s.logger, s.handleGetProfile))
	}

	applySchema := func() *jsonschema.Schema {
		return &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"agent": agentSchema(),
				"name":  nameSchema(),
			},
			Required: []string{"agent", "name"},
		}
	}

	if gate.ToolEnabled(s.cfg, ToolSetProfile) {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        ToolSetProfile,
			Description: "Replace the agent's instruction file with a profile.",
			InputSchema: applySchema(),
		}, WithTracing(s.tracer, s.logger, s.handleSetProfile))
	}

	if gate.ToolEnabled(s.cfg, ToolAppendProfile) {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        ToolAppendProfile,
			Description: "Append a profile to the end of the agent's instruction file, creating it if needed.",
			InputSchema: applySchema(),
		}, WithTracing(s.tracer, s.logger, s.handleAppendProfile))
	}

	if gate.ToolEnabled(s.cfg, ToolResetProfile) {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        ToolResetProfile,
			Description: "Delete the agent's instruction file. Succeeds when it is already absent.",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{"agent": agentSchema()},
				Required:   []string{"agent"},
			},
		}, WithTracing(s.tracer, s.logger, s.handleResetProfile))
	}
}

// textResult carries the human readable text; the SDK attaches the typed
// output as structured content.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func (s *Server) handleListProfiles(
	_ context.Context,
	_ *mcp.CallToolRequest,
	args ListProfilesParams,
) (*mcp.CallToolResult, ListProfilesResult, error) {
	result := ListProfilesResult{Profiles: []string{}}

	names, err := s.repo.Names()
	if err != nil {
		return nil, result, err
	}
	for _, name := range names {
		if strings.HasPrefix(name, args.Prefix) {
			result.Profiles = append(result.Profiles, name)
		}
	}
	result.Count = len(result.Profiles)

	text := "No profiles found."
	if result.Count > 0 {
		text = fmt.Sprintf("Found %d profiles:\n%s", result.Count, strings.Join(result.Profiles, "\n"))
	}
	return textResult(text), result, nil
}

func (s *Server) handleGetProfile(
	_ context.Context,
	_ *mcp.CallToolRequest,
	args GetProfileParams,
) (*mcp.CallToolResult, GetProfileResult, error) {
	content, err := s.repo.Read(args.Name)
	if err != nil {
		return nil, GetProfileResult{}, err
	}

	result := GetProfileResult{
		Name:        args.Name,
		Description: frontmatter.Description(content),
		Content:     content,
	}
	return textResult(content), result, nil
}

func (s *Server) handleSetProfile(
	_ context.Context,
	_ *mcp.CallToolRequest,
	args ApplyParams,
) (*mcp.CallToolResult, ApplyResult, error) {
	ag, err := agent.Parse(args.Agent)
	if err != nil {
		return nil, ApplyResult{}, err
	}

	res, err := s.applier.Set(ag, args.Name)
	if err != nil {
		return nil, ApplyResult{}, err
	}
	return applyResult(res, agent.SetMessage(res, args.Name))
}

func (s *Server) handleAppendProfile(
	_ context.Context,
	_ *mcp.CallToolRequest,
	args ApplyParams,
) (*mcp.CallToolResult, ApplyResult, error) {
	ag, err := agent.Parse(args.Agent)
	if err != nil {
		return nil, ApplyResult{}, err
	}

	res, err := s.applier.Append(ag, args.Name)
	if err != nil {
		return nil, ApplyResult{}, err
	}
	return applyResult(res, agent.AppendMessage(res, args.Name))
}

func (s *Server) handleResetProfile(
	_ context.Context,
	_ *mcp.CallToolRequest,
	args ResetParams,
) (*mcp.CallToolResult, ApplyResult, error) {
	ag, err := agent.Parse(args.Agent)
	if err != nil {
		return nil, ApplyResult{}, err
	}

	res, err := s.applier.Reset(ag)
	if err != nil {
		return nil, ApplyResult{}, err
	}
	return applyResult(res, agent.ResetMessage(res))
}

func applyResult(res agent.Result, msg string) (*mcp.CallToolResult, ApplyResult, error) {
	return textResult(msg), ApplyResult{
		Agent:    res.Agent.String(),
		Target:   res.Target,
		Created:  res.Created,
		Removed:  res.Removed,
		BackupID: res.BackupID,
		Message:  msg,
	}, nil
}
