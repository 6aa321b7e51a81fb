// Package extension runs external pmx-<name> subcommands that the
// configuration allows.
package extension

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"slices"

	"github.com/thoreinstein/pmx/internal/config"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/logging"
	"github.com/thoreinstein/pmx/internal/paths"
)

// BinaryPrefix is prepended to the subcommand to form the executable name.
const BinaryPrefix = paths.AppName + "-"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]+(-[A-Za-z0-9_]+)*$`)

// ErrEmptySubcommand is returned when no subcommand is given.
var ErrEmptySubcommand = errors.New("extension subcommand cannot be empty")

// StatusError reports an extension that exited non-zero. Code is the status
// pmx should exit with.
type StatusError struct {
	Binary string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Binary, e.Code)
}

// ValidName reports whether name may be used as a subcommand. Names are
// alphanumeric words joined by single hyphens.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Runner executes allowed extensions.
type Runner struct {
	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithIO sets the streams passed to the extension.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner returns a Runner gated by cfg's allowed_subcommands.
func NewRunner(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Allowed reports whether sub is listed in allowed_subcommands.
func (r *Runner) Allowed(sub string) bool {
	return slices.Contains(r.cfg.Extensions.AllowedSubcommands, sub)
}

// Run executes pmx-<args[0]> with the remaining args. A non-zero exit is
// returned as *StatusError.
func (r *Runner) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "" {
		return ErrEmptySubcommand
	}
	sub, rest := args[0], args[1:]

	if !ValidName(sub) {
		return errors.Newf("invalid subcommand name: %q", sub)
	}
	if !r.Allowed(sub) {
		return errors.Wrapf(
			&errors.DisabledError{Feature: "Extensions not listed in allowed_subcommands"},
			"extension %q is not allowed", sub,
		)
	}

	binary := BinaryPrefix + sub
	cmd := exec.CommandContext(ctx, binary, rest...)
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	r.logger.Debug("running extension", "binary", binary, "args", rest)

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Terminated by a signal.
			code = 1
		}
		return &StatusError{Binary: binary, Code: code}
	}
	return errors.Wrapf(err, "failed to execute extension %s", binary)
}
