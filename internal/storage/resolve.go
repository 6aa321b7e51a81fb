package storage

import (
	"os"
	"path/filepath"

	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/paths"
)

// Environment variables consulted by Resolve.
const (
	EnvConfigFile    = "PMX_CONFIG_FILE"
	EnvXDGConfigHome = "XDG_CONFIG_HOME"
)

// defaultRelPath is the storage root relative to the home directory.
var defaultRelPath = filepath.Join(".config", paths.AppName)

// LookupFunc reads an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Source records which rule picked the storage root.
type Source int

const (
	SourceFlag Source = iota
	SourceEnv
	SourceXDG
	SourceHome
)

func (s Source) String() string {
	switch s {
	case SourceFlag:
		return "--config"
	case SourceEnv:
		return EnvConfigFile
	case SourceXDG:
		return EnvXDGConfigHome
	default:
		return "home"
	}
}

// Explicit reports whether the user named the root directly, by flag or by
// PMX_CONFIG_FILE.
func (s Source) Explicit() bool {
	return s == SourceFlag || s == SourceEnv
}

// Resolve returns the storage root directory using the process environment.
func Resolve(explicit string) (string, error) {
	dir, _, err := ResolveWith(explicit, os.LookupEnv)
	return dir, err
}

// ResolveWith picks the storage root. The first match wins: explicit, then
// PMX_CONFIG_FILE, then XDG_CONFIG_HOME/pmx, then ~/.config/pmx. It fails only
// when the home directory is needed and cannot be determined.
func ResolveWith(explicit string, lookup LookupFunc) (string, Source, error) {
	if explicit != "" {
		return explicit, SourceFlag, nil
	}
	if v, ok := lookup(EnvConfigFile); ok && v != "" {
		return v, SourceEnv, nil
	}
	if v, ok := lookup(EnvXDGConfigHome); ok && v != "" {
		return filepath.Join(v, paths.AppName), SourceXDG, nil
	}

	home, ok := lookup("HOME")
	if !ok || home == "" {
		var err error
		if home, err = paths.ResolveHome(); err != nil {
			return "", SourceHome, errors.Wrap(err, "resolving storage root")
		}
	}
	return filepath.Join(home, defaultRelPath), SourceHome, nil
}
