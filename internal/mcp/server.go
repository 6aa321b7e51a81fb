package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/thoreinstein/pmx/internal/agent"
	"github.com/thoreinstein/pmx/internal/backup"
	"github.com/thoreinstein/pmx/internal/config"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/logging"
	"github.com/thoreinstein/pmx/internal/profile"
	"github.com/thoreinstein/pmx/internal/storage"
)

const instructions = "pmx stores reusable system prompts (profiles) as markdown files. " +
	"Use list_profiles to discover profile names, get_profile to read one, and " +
	"set_profile, append_profile or reset_profile to manage the Claude (CLAUDE.md) " +
	"and Codex (AGENTS.md) instruction files."

// Server exposes a storage root over MCP.
type Server struct {
	// mu serializes every mutation of profiles and targets.
	mu sync.Mutex

	cfg     *config.Config
	repo    *profile.Repository
	applier *agent.Applier
	server  *mcp.Server
	tracer  trace.Tracer
	logger  *slog.Logger
	version string

	home    string
	backups *backup.Manager

	// promptMu guards prompts, the registered names and their descriptions.
	promptMu sync.Mutex
	prompts  map[string]string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHome sets the home directory that holds the agent targets.
func WithHome(home string) Option {
	return func(s *Server) {
		s.home = home
	}
}

// WithBackup backs up targets before the mutating tools change them.
func WithBackup(m *backup.Manager) Option {
	return func(s *Server) {
		s.backups = m
	}
}

// WithTracer sets the tracer used for tool spans. The global provider's
// tracer is used by default.
func WithTracer(t trace.Tracer) Option {
	return func(s *Server) {
		s.tracer = t
	}
}

// WithVersion sets the version advertised to clients.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer builds a server for root and registers its prompts and tools.
func NewServer(root *storage.Root, opts ...Option) (*Server, error) {
	if root == nil || root.Config == nil {
		return nil, errors.New("mcp server requires a loaded storage root")
	}

	s := &Server{
		cfg:     root.Config,
		logger:  logging.NewDiscard(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("pmx/mcp")
	}

	s.repo = profile.NewRepository(root.Path,
		profile.WithLogger(s.logger),
		profile.WithLock(&s.mu),
	)

	applierOpts := []agent.Option{
		agent.WithLogger(s.logger),
		agent.WithLock(&s.mu),
	}
	if s.home != "" {
		applierOpts = append(applierOpts, agent.WithHome(s.home))
	}
	if s.backups != nil {
		applierOpts = append(applierOpts, agent.WithBackup(s.backups))
	}
	s.applier = agent.NewApplier(s.cfg, s.repo, applierOpts...)

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "pmx",
		Version: s.version,
	}, &mcp.ServerOptions{
		Instructions: instructions,
		HasPrompts:   true,
	})

	s.server.AddReceivingMiddleware(s.refreshPrompts)

	s.registerTools()
	if err := s.Refresh(); err != nil {
		return nil, err
	}

	return s, nil
}

// Server returns the underlying SDK server.
func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve runs the server over stdio, or over streamable HTTP when addr is
// non-empty. It returns when ctx is cancelled or the transport closes.
func (s *Server) Serve(ctx context.Context, addr string) error {
	s.logger.InfoContext(ctx, "starting MCP server",
		slog.String("address", addr),
		slog.Int("prompts", len(s.PromptNames())),
	)

	if addr == "" {
		t := mcp.NewLoggingTransport(mcp.NewStdioTransport(), os.Stderr)
		if err := s.server.Run(ctx, t); err != nil {
			return errors.Wrap(err, "MCP server failed")
		}
		return nil
	}

	return s.serveHTTP(ctx, addr)
}

func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "MCP server failed")
	}
	return nil
}
