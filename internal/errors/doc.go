// Package errors provides error handling conventions for the pmx CLI.
//
// This package defines sentinel errors and typed errors for the profile
// engine, an ExitError type for CLI exit handling, and forwards the wrapping
// helpers of github.com/cockroachdb/errors.
//
// # Sentinel Errors
//
// Every typed error unwraps to a sentinel, so callers can check the kind of
// failure using [errors.Is]:
//
//	if errors.Is(err, pmxerrors.ErrNotFound) {
//	    // handle not found case
//	}
//
// Use [errors.As] to reach the details:
//
//	var pathErr *pmxerrors.PathError
//	if errors.As(err, &pathErr) {
//	    fmt.Println(pathErr.Reason)
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//
// The pmx binary exits with status 1 for any error; the code only selects the
// suggestion shown to the user.
//
// # ExitError
//
// [Classify] converts an engine error into an [ExitError] carrying an
// actionable suggestion at the CLI boundary.
package errors
