package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions, etc.).
	// pmx reports every failure with process exit status 1; the distinction
	// only selects the suggestion printed to the user.
	ExitSystem = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrInvalidName indicates a profile name failed validation.
	ErrInvalidName = crdb.New("invalid profile name")

	// ErrNotFound indicates the requested profile or target was not found.
	ErrNotFound = crdb.New("not found")

	// ErrAlreadyExists indicates a profile with the same name already exists.
	ErrAlreadyExists = crdb.New("already exists")

	// ErrDisabled indicates the agent or feature is disabled in the configuration.
	ErrDisabled = crdb.New("disabled in configuration")

	// ErrInvalidConfig indicates the configuration file could not be parsed.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrEmptyContent indicates an edit produced no meaningful content.
	ErrEmptyContent = crdb.New("no content added")

	// ErrEditorFailed indicates the editor subprocess exited abnormally.
	ErrEditorFailed = crdb.New("editor failed")
)

// New, Newf, Wrap, Wrapf, Is and As forward to github.com/cockroachdb/errors so
// packages can import a single errors package.
var (
	New   = crdb.New
	Newf  = crdb.Newf
	Wrap  = crdb.Wrap
	Wrapf = crdb.Wrapf
	Is    = crdb.Is
	As    = crdb.As
)

// PathError reports a profile name that failed validation.
type PathError struct {
	Name   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid profile name %q: %s", e.Name, e.Reason)
}

func (e *PathError) Unwrap() error {
	return ErrInvalidName
}

// NotFoundError reports a missing profile or integration target.
type NotFoundError struct {
	// Kind is what was looked up, e.g. "profile".
	Kind string
	Name string
	Path string
}

func (e *NotFoundError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s %q not found at %s", e.Kind, e.Name, e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// AlreadyExistsError reports a create collision.
type AlreadyExistsError struct {
	Name string
	Path string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("profile %q already exists", e.Name)
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// DisabledError reports an operation rejected by the configuration gates.
type DisabledError struct {
	// Feature names what is disabled, e.g. "Claude profiles".
	Feature string
}

func (e *DisabledError) Error() string {
	return e.Feature + " are disabled in the configuration"
}

func (e *DisabledError) Unwrap() error {
	return ErrDisabled
}

// ConfigError reports a configuration file that could not be parsed.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("failed to parse config file %s: %v", e.Path, e.Err)
}

// Is matches ErrInvalidConfig in addition to the wrapped cause.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// EditorError reports an editor subprocess that could not run or exited non-zero.
type EditorError struct {
	Editor string
	Err    error
}

func (e *EditorError) Error() string {
	return fmt.Sprintf("editor %q failed: %v", e.Editor, e.Err)
}

// Is matches ErrEditorFailed in addition to the wrapped cause.
func (e *EditorError) Is(target error) bool {
	return target == ErrEditorFailed
}

func (e *EditorError) Unwrap() error {
	return e.Err
}

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Fix config.toml or run: pmx status",
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Classify wraps err in an ExitError with a suggestion chosen from its kind.
// Errors that already carry an ExitError are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if As(err, &exitErr) {
		return err
	}

	switch {
	case Is(err, ErrInvalidName):
		return NewUserError(err, "Profile names are slash-separated paths without '..', '\\' or <>:\"|?*")
	case Is(err, ErrNotFound):
		return NewUserError(err, "Run: pmx profile list")
	case Is(err, ErrAlreadyExists):
		return NewUserError(err, "Use 'pmx profile edit' to modify it")
	case Is(err, ErrDisabled):
		return NewUserError(err, "Enable it in the [agents] section of config.toml")
	case Is(err, ErrInvalidConfig):
		return NewConfigError(err)
	case Is(err, ErrEditorFailed):
		return NewUserError(err, "Set $EDITOR to a working editor")
	default:
		return NewSystemError(err, "")
	}
}
