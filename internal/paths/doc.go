// Package paths holds the filesystem layout pmx relies on: the storage root
// layout (repo/ and config.toml), the integration target locations under the
// home directory, and the XDG data directory used for target backups.
//
// Functions that depend on the home directory take it as a parameter so
// callers and tests can substitute a temporary directory.
package paths
