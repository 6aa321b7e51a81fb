// Package backup keeps safety copies of integration target files.
//
// Before pmx replaces, appends to or deletes ~/.claude/CLAUDE.md or
// ~/.codex/AGENTS.md, the applier copies the current file into a
// timestamped directory:
//
//	$XDG_DATA_HOME/pmx/backups/
//	└── {agent}/
//	    └── {20260123T100712}/
//	        ├── manifest.json
//	        └── CLAUDE.md
//
// The manifest records the original path, permission bits and a SHA-256
// hash that [Manager.Restore] verifies before copying a file back. Only the
// newest [DefaultRetentionCount] backups per agent are kept.
//
// Backups cover the external targets only. Profiles themselves are not
// versioned.
package backup
