// Package frontmatter handles the optional YAML block at the top of a
// profile:
//
//	---
//	description: Strict code review persona
//	tags: [review]
//	---
//
//	# review
//	...
//
// Profiles are stored and applied verbatim; the frontmatter is only read, for
// example to describe a profile when it is exposed as an MCP prompt.
package frontmatter
