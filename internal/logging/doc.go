// Package logging provides structured logging for the pmx CLI using slog.
//
// Text output goes through [Handler], which colors levels on a terminal and
// masks values that look like secrets. JSON output uses the standard
// library handler. [Config.File] tees a JSON copy of every record to a file,
// which is how --log-file works.
//
// Verbosity is a count of -v flags mapped by [LevelFromVerbosity]:
// 0 is Warn, 1 Info, 2 Debug and 3 or more [LevelTrace].
//
// Loggers travel through cobra commands in the context:
//
//	ctx = logging.NewContext(ctx, logger)
//	logging.FromContext(ctx).Debug("resolved storage", "path", root.Path)
//
// For tests, use [ForTest] to capture log output via the testing framework.
package logging
