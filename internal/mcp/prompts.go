package mcp

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/gate"
	"github.com/thoreinstein/pmx/pkg/frontmatter"
)

// Methods that see the prompt set. The set is rebuilt from disk before
// either is handled.
const (
	methodListPrompts = "prompts/list"
	methodGetPrompt   = "prompts/get"
)

// Refresh re-reads the profile tree and syncs the registered prompts with
// it. Prompts of deleted profiles are removed; new or re-described profiles
// are (re)registered. A profile that cannot be read is skipped with a warning.
func (s *Server) Refresh() error {
	all, err := s.repo.Names()
	if err != nil {
		return errors.Wrap(err, "listing profiles for prompts")
	}

	active := make(map[string]string)
	for _, name := range gate.ActivePrompts(s.cfg, all) {
		content, err := s.repo.Read(name)
		if err != nil {
			s.logger.Warn("skipping unreadable profile",
				slog.String("name", name),
				slog.Any("error", err),
			)
			continue
		}
		active[name] = describe(name, content)
	}

	s.promptMu.Lock()
	defer s.promptMu.Unlock()

	var stale []string
	for name := range s.prompts {
		if _, ok := active[name]; !ok {
			stale = append(stale, name)
		}
	}
	if len(stale) > 0 {
		s.server.RemovePrompts(stale...)
	}

	added := 0
	for _, name := range slices.Sorted(maps.Keys(active)) {
		if desc, ok := s.prompts[name]; ok && desc == active[name] {
			continue
		}
		s.server.AddPrompt(&mcp.Prompt{
			Name:        name,
			Description: active[name],
		}, s.handleGetPrompt)
		added++
	}
	s.prompts = active

	s.logger.Debug("prompts refreshed",
		slog.Int("active", len(active)),
		slog.Int("added", added),
		slog.Int("removed", len(stale)),
	)
	return nil
}

// refreshPrompts is receiving middleware that rebuilds the prompt set before
// every prompt request, so clients never see deleted or miss new profiles.
func (s *Server) refreshPrompts(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		if method == methodListPrompts || method == methodGetPrompt {
			if err := s.Refresh(); err != nil {
				return nil, err
			}
		}
		return next(ctx, method, req)
	}
}

// PromptNames returns the names of the registered prompts, sorted.
func (s *Server) PromptNames() []string {
	s.promptMu.Lock()
	defer s.promptMu.Unlock()
	return slices.Sorted(maps.Keys(s.prompts))
}

// describe returns the frontmatter description, or a generic one.
func describe(name, content string) string {
	if desc := frontmatter.Description(content); desc != "" {
		return desc
	}
	return "System prompt: " + name
}

func (s *Server) handleGetPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	ctx, span := s.tracer.Start(ctx, "prompt/get")
	defer span.End()

	name := req.Params.Name
	s.logger.DebugContext(ctx, "handling prompt request", slog.String("name", name))

	if !gate.PromptEnabled(s.cfg, name) {
		err := errors.Newf("prompt %q is disabled", name)
		span.RecordError(err)
		return nil, err
	}

	content, err := s.repo.Read(name)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &mcp.GetPromptResult{
		Description: describe(name, content),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: content},
			},
		},
	}, nil
}
