// Package mcp serves the profile repository over the Model Context Protocol.
//
// Every profile not excluded by the [mcp] disable_prompts gate is exposed as
// a prompt whose single user message is the raw profile content. Tools let an
// MCP client list and read profiles and apply them to the agent instruction
// files:
//
//   - list_profiles
//   - get_profile
//   - set_profile
//   - append_profile
//   - reset_profile
//
// Each tool is registered only when the disable_tools gate allows it. The
// mutating tools share one [agent.Applier] locked by the server, so writes
// to a target are serialized within the process.
//
// The server resolves its storage root once. Profile content and the
// profile tree are read from disk on every request; the advertised prompt
// set is re-synced before each prompts/list and prompts/get.
package mcp
