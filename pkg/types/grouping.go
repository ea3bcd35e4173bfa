// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// ChangeType classifies what kind of change a file most likely carries.
type ChangeType string

const (
	ChangeFeature  ChangeType = "feature"
	ChangeFix      ChangeType = "fix"
	ChangeTest     ChangeType = "test"
	ChangeDocs     ChangeType = "docs"
	ChangeRefactor ChangeType = "refactor"
	ChangeStyle    ChangeType = "style"
	ChangeChore    ChangeType = "chore"
	ChangeConfig   ChangeType = "config"
	ChangeBuild    ChangeType = "build"
	ChangePerf     ChangeType = "perf"
)

// RelationshipType tags why two changed files belong together.
type RelationshipType string

const (
	RelTestImplementation RelationshipType = "test-implementation"
	RelComponentPair      RelationshipType = "component-pair"
	RelSameDirectory      RelationshipType = "same-directory"
	RelDirectoryHierarchy RelationshipType = "directory-hierarchy"
	RelSimilarNaming      RelationshipType = "similar-naming"
)

// FileRelationship is an unordered pair of changed files with the single
// strongest relationship the detector found between them.
type FileRelationship struct {
	File1    string
	File2    string
	Type     RelationshipType
	Strength float64 // 0.0 to 1.0
}

// FileGroup is a commit-sized set of files the engine believes belong in one
// commit. Groups partition the input file set: every changed file appears in
// exactly one group.
type FileGroup struct {
	Files        []GitFile
	ChangeType   ChangeType
	Reason       string   // Provenance: why these files were grouped
	Confidence   float64  // 0.0 to 1.0
	Dependencies []string // Paths outside the group that members depend on
}

// Paths returns the member paths in group order.
func (g FileGroup) Paths() []string {
	paths := make([]string, len(g.Files))
	for i, f := range g.Files {
		paths[i] = f.Path
	}
	return paths
}
