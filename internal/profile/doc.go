// Package profile stores named markdown profiles under a storage root.
//
// A profile name is a slash separated relative path without extension, such
// as "work/review". The profile lives at <root>/repo/work/review.md.
// [ValidateName] enforces the naming rules and every [Repository] method
// applies it before touching the filesystem.
//
// [Repository.List] returns a [Node] tree that [Render] prints either as a
// box-drawing tree for terminals or as one name per line for scripts.
package profile
