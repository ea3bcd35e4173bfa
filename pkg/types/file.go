// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types holds the plain data types shared between the grouping core,
// the git and AI collaborators, and the public loom API.
package types

// GitFile represents a staged file with the metadata commitloom needs.
// The grouping core treats the file list as an immutable input; it never
// fetches file lists itself.
type GitFile struct {
	Path   string // Repository-relative path (unique key)
	Size   int64  // Blob size in bytes; 0 when unknown
	Hash   string // Index blob hash; empty when unknown
	Binary bool   // True for binary blobs; skips dependency extraction
}
