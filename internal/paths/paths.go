package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// Storage layout names.
const (
	// AppName is the directory name used under XDG roots.
	AppName = "pmx"

	// RepoDirName is the profile directory inside a storage root.
	RepoDirName = "repo"

	// ConfigFileName is the configuration file inside a storage root.
	ConfigFileName = "config.toml"

	// ProfileExt is the extension of profile files. Names never carry it.
	ProfileExt = ".md"
)

// Integration identifiers.
const (
	AgentClaude = "claude"
	AgentCodex  = "codex"
)

// agentDirs maps integrations to their directory relative to the home directory.
var agentDirs = map[string]string{
	AgentClaude: ".claude",
	AgentCodex:  ".codex",
}

// agentInstructionFiles maps integrations to the instruction file pmx manages.
var agentInstructionFiles = map[string]string{
	AgentClaude: "CLAUDE.md",
	AgentCodex:  "AGENTS.md",
}

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", errors.Wrap(ErrHomeDirNotFound, "resolving home directory")
	}
	return home, nil
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
func DataHome() string {
	return xdg.DataHome
}

// BackupDir returns the directory holding target backups.
// Returns: <DataHome>/pmx/backups/
func BackupDir() string {
	return filepath.Join(DataHome(), AppName, "backups")
}

// ValidAgent returns true if the integration name is recognized.
func ValidAgent(agent string) bool {
	_, ok := agentDirs[agent]
	return ok
}

// Agents returns the integration identifiers in their canonical order.
func Agents() []string {
	return []string{AgentClaude, AgentCodex}
}

// AgentDir returns the integration directory under home, e.g. ~/.claude.
// Returns an empty string for unknown integrations.
func AgentDir(home, agent string) string {
	dir, ok := agentDirs[agent]
	if !ok {
		return ""
	}
	return filepath.Join(home, dir)
}

// InstructionFilename returns the instruction file name for an integration.
// Returns an empty string for unknown integrations.
func InstructionFilename(agent string) string {
	return agentInstructionFiles[agent]
}

// InstructionPath returns the full instruction file path under home,
// e.g. ~/.codex/AGENTS.md.
func InstructionPath(home, agent string) string {
	dir := AgentDir(home, agent)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, agentInstructionFiles[agent])
}
