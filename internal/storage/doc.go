// Package storage locates and prepares the pmx storage root.
//
// A storage root is a directory holding config.toml and a repo/ directory of
// profiles:
//
//	~/.config/pmx/
//	├── config.toml
//	└── repo/
//	    └── work/
//	        └── review.md
//
// [ResolveWith] decides which directory to use, [Load] opens an existing
// root, [Initialize] creates one and [Auto] combines them so that a first run
// on a writable filesystem always succeeds.
package storage
