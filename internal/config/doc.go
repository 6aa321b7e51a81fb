// Package config handles config.toml, the file that gates what pmx may touch.
//
// # File Format
//
//	[agents]
//	disable_claude = false
//	disable_codex  = false
//
//	[mcp]
//	disable_prompts = false            # or ["name", ...]
//	disable_tools   = ["set_profile"]  # or true
//
//	[extensions]
//	allowed_subcommands = ["sync"]
//
// The [mcp] switches are [Gate] values: true disables everything, false
// disables nothing and a list disables exactly the named items.
//
// # Environment Overrides
//
// Every key can be overridden with an environment variable built from
// [EnvPrefix] and the dotted key, for example PMX_AGENTS_DISABLE_CLAUDE=true
// or PMX_MCP_DISABLE_TOOLS=set_profile,reset_profile. Overrides apply when
// reading only; [Write] persists the values it is given.
package config
