// Package config reads and writes the pmx config.toml.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/pkg/fileutil"
)

// EnvPrefix prefixes environment overrides, e.g. PMX_AGENTS_DISABLE_CLAUDE.
const EnvPrefix = "PMX"

// Config keys as they appear in the file, dotted by table.
const (
	KeyDisableClaude      = "agents.disable_claude"
	KeyDisableCodex       = "agents.disable_codex"
	KeyDisablePrompts     = "mcp.disable_prompts"
	KeyDisableTools       = "mcp.disable_tools"
	KeyAllowedSubcommands = "extensions.allowed_subcommands"
)

// Config is the parsed config.toml of a storage root.
type Config struct {
	Agents     AgentsConfig
	MCP        MCPConfig
	Extensions ExtensionsConfig
}

// AgentsConfig gates the integration targets.
type AgentsConfig struct {
	DisableClaude bool
	DisableCodex  bool
}

// MCPConfig gates what the MCP server exposes.
type MCPConfig struct {
	DisablePrompts Gate
	DisableTools   Gate
}

// ExtensionsConfig lists the external subcommands pmx may run.
type ExtensionsConfig struct {
	AllowedSubcommands []string
}

// Default returns a configuration with every gate off.
func Default() *Config {
	return &Config{}
}

// Read parses the config file at path. Environment variables prefixed with
// PMX override file values. A missing file, malformed TOML or a value of the
// wrong type is reported as *errors.ConfigError.
func Read(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults register the keys so AutomaticEnv sees them.
	v.SetDefault(KeyDisableClaude, false)
	v.SetDefault(KeyDisableCodex, false)
	v.SetDefault(KeyDisablePrompts, false)
	v.SetDefault(KeyDisableTools, false)
	v.SetDefault(KeyAllowedSubcommands, []string{})

	if err := v.ReadInConfig(); err != nil {
		return nil, &errors.ConfigError{Path: path, Err: err}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, &errors.ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var (
		cfg Config
		err error
	)

	if cfg.Agents.DisableClaude, err = boolValue(v, KeyDisableClaude); err != nil {
		return nil, err
	}
	if cfg.Agents.DisableCodex, err = boolValue(v, KeyDisableCodex); err != nil {
		return nil, err
	}
	if cfg.MCP.DisablePrompts, err = parseGate(v.Get(KeyDisablePrompts)); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyDisablePrompts, err)
	}
	if cfg.MCP.DisableTools, err = parseGate(v.Get(KeyDisableTools)); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyDisableTools, err)
	}
	if cfg.Extensions.AllowedSubcommands, err = stringList(v, KeyAllowedSubcommands); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func boolValue(v *viper.Viper, key string) (bool, error) {
	switch raw := v.Get(key).(type) {
	case nil:
		return false, nil
	case bool:
		return raw, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return false, fmt.Errorf("%s: expected a boolean, found %q", key, raw)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%s: expected a boolean, found %T", key, raw)
	}
}

func stringList(v *viper.Viper, key string) ([]string, error) {
	switch raw := v.Get(key).(type) {
	case nil:
		return nil, nil
	case []string:
		return raw, nil
	case []any:
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: expected a list of strings, found %T element", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		return strings.Fields(strings.ReplaceAll(raw, ",", " ")), nil
	default:
		return nil, fmt.Errorf("%s: expected a list of strings, found %T", key, raw)
	}
}

// fileConfig is the on-disk shape of config.toml.
type fileConfig struct {
	Agents struct {
		DisableClaude bool `toml:"disable_claude"`
		DisableCodex  bool `toml:"disable_codex"`
	} `toml:"agents"`
	MCP struct {
		DisablePrompts any `toml:"disable_prompts"`
		DisableTools   any `toml:"disable_tools"`
	} `toml:"mcp"`
	Extensions struct {
		AllowedSubcommands []string `toml:"allowed_subcommands"`
	} `toml:"extensions"`
}

// Write persists cfg to path atomically.
func Write(path string, cfg *Config) error {
	var f fileConfig
	f.Agents.DisableClaude = cfg.Agents.DisableClaude
	f.Agents.DisableCodex = cfg.Agents.DisableCodex
	f.MCP.DisablePrompts = cfg.MCP.DisablePrompts.tomlValue()
	f.MCP.DisableTools = cfg.MCP.DisableTools.tomlValue()
	f.Extensions.AllowedSubcommands = cfg.Extensions.AllowedSubcommands
	if f.Extensions.AllowedSubcommands == nil {
		f.Extensions.AllowedSubcommands = []string{}
	}

	if err := fileutil.AtomicWriteTOML(path, f); err != nil {
		return errors.Wrapf(err, "writing config %s", path)
	}
	return nil
}
