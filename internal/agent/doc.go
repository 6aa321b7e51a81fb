// Package agent applies profiles to the instruction files of coding agents.
//
// Each [Agent] owns one target file under the home directory. [Applier.Set]
// replaces it with a profile, [Applier.Append] adds a profile to the end and
// [Applier.Reset] deletes it. Every operation first checks that the agent is
// enabled in config.toml and, when configured with [WithBackup], copies the
// existing target aside before changing it.
//
// The Applier has no internal concurrency control. Long running callers that
// may apply profiles concurrently pass a shared lock with [WithLock].
package agent
