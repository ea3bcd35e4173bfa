// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package grouping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/petar-djukic/commitloom/pkg/types"
)

const (
	// DefaultMaxGroupSize caps how many files a single group may hold
	// before it is split into parts.
	DefaultMaxGroupSize = 5

	// DefaultSmallGroupThreshold is the largest bucket that is emitted as
	// one group without a per-module split.
	DefaultSmallGroupThreshold = 3
)

// changeTypePriority orders bucket processing: tests first so they can claim
// their implementations, housekeeping last.
var changeTypePriority = map[types.ChangeType]int{
	types.ChangeTest:     0,
	types.ChangeFeature:  1,
	types.ChangeFix:      1,
	types.ChangePerf:     1,
	types.ChangeRefactor: 2,
	types.ChangeDocs:     3,
	types.ChangeStyle:    3,
	types.ChangeBuild:    4,
	types.ChangeConfig:   4,
	types.ChangeChore:    5,
}

// Config tunes the grouping engine. Zero values fall back to the defaults.
type Config struct {
	MaxGroupSize        int
	SmallGroupThreshold int
	Source              ContentSource // File contents for import scanning
}

// Grouper is the smart grouping engine. Each AnalyzeFiles call builds its
// relationship and dependency state from scratch; a Grouper may be reused
// across runs.
type Grouper struct {
	cfg Config
}

// NewGrouper creates a grouping engine with the given configuration.
func NewGrouper(cfg Config) *Grouper {
	if cfg.MaxGroupSize <= 0 {
		cfg.MaxGroupSize = DefaultMaxGroupSize
	}
	if cfg.SmallGroupThreshold <= 0 {
		cfg.SmallGroupThreshold = DefaultSmallGroupThreshold
	}
	if cfg.Source == nil {
		cfg.Source = OSContentSource{Dir: "."}
	}
	return &Grouper{cfg: cfg}
}

// AnalyzeFiles partitions the changed files into commit-sized groups with
// provenance. Every input file lands in exactly one group; an empty input
// yields an empty result.
func (g *Grouper) AnalyzeFiles(files []types.GitFile) []types.FileGroup {
	if len(files) == 0 {
		return nil
	}

	fileTypes := make(map[string]types.ChangeType, len(files))
	for _, f := range files {
		fileTypes[f.Path] = Classify(f.Path)
	}

	relationships := DetectRelationships(files)
	dependencies := newExtractor(g.cfg.Source).detect(files)

	buckets := bucketByType(files, fileTypes)
	groups := g.refineGroups(buckets, relationships, dependencies)
	groups = g.splitLargeGroups(groups)
	enrichWithDependencies(groups, dependencies)

	return groups
}

// typeBucket pairs a change type with its files, in discovery order.
type typeBucket struct {
	changeType types.ChangeType
	files      []types.GitFile
}

// bucketByType groups files by change type, preserving first-seen bucket
// order so tie-breaking between equal-priority buckets is stable.
func bucketByType(files []types.GitFile, fileTypes map[string]types.ChangeType) []typeBucket {
	index := make(map[types.ChangeType]int)
	var buckets []typeBucket

	for _, f := range files {
		ct := fileTypes[f.Path]
		i, ok := index[ct]
		if !ok {
			i = len(buckets)
			index[ct] = i
			buckets = append(buckets, typeBucket{changeType: ct})
		}
		buckets[i].files = append(buckets[i].files, f)
	}

	return buckets
}

// refineGroups processes the type buckets in priority order, threading a
// shared assigned set so the test-pairing step cannot double-count files it
// pulls in from other buckets.
func (g *Grouper) refineGroups(buckets []typeBucket, relationships []types.FileRelationship, dependencies map[string][]string) []types.FileGroup {
	lookup := make(map[string]types.GitFile)
	for _, b := range buckets {
		for _, f := range b.files {
			lookup[f.Path] = f
		}
	}

	ordered := make([]typeBucket, len(buckets))
	copy(ordered, buckets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return priorityOf(ordered[i].changeType) < priorityOf(ordered[j].changeType)
	})

	var groups []types.FileGroup
	assigned := make(map[string]bool)

	for _, bucket := range ordered {
		var available []types.GitFile
		for _, f := range bucket.files {
			if !assigned[f.Path] {
				available = append(available, f)
			}
		}
		if len(available) == 0 {
			continue
		}

		switch {
		case bucket.changeType == types.ChangeTest:
			groups = append(groups, g.groupTestsWithImplementations(available, lookup, relationships, dependencies, assigned)...)

		case len(available) <= g.cfg.SmallGroupThreshold:
			for _, f := range available {
				assigned[f.Path] = true
			}
			groups = append(groups, types.FileGroup{
				Files:      available,
				ChangeType: bucket.changeType,
				Reason:     fmt.Sprintf("All %s changes", bucket.changeType),
				Confidence: 0.8,
			})

		default:
			subgroups := splitByModule(available, bucket.changeType)
			for _, sub := range subgroups {
				for _, f := range sub.Files {
					assigned[f.Path] = true
				}
			}
			groups = append(groups, subgroups...)
		}
	}

	return groups
}

// groupTestsWithImplementations pairs test files with their linked
// implementations, then emits leftover tests either alone or together with
// their own unassigned dependencies.
func (g *Grouper) groupTestsWithImplementations(testFiles []types.GitFile, lookup map[string]types.GitFile, relationships []types.FileRelationship, dependencies map[string][]string, assigned map[string]bool) []types.FileGroup {
	var groups []types.FileGroup

	testPaths := make(map[string]bool, len(testFiles))
	for _, f := range testFiles {
		testPaths[f.Path] = true
	}

	// Link implementations to their tests, keeping implementation discovery
	// order so output is reproducible.
	implTests := make(map[string]map[string]bool)
	var implOrder []string
	for _, rel := range relationships {
		if rel.Type != types.RelTestImplementation {
			continue
		}

		testPath, implPath, ok := identifyTestAndImplementation(rel.File1, rel.File2)
		if !ok || !testPaths[testPath] {
			continue
		}
		if _, known := lookup[implPath]; !known {
			continue
		}

		if implTests[implPath] == nil {
			implTests[implPath] = make(map[string]bool)
			implOrder = append(implOrder, implPath)
		}
		implTests[implPath][testPath] = true
	}

	for _, implPath := range implOrder {
		if assigned[implPath] {
			continue
		}

		var candidates []string
		for _, test := range sortedPaths(implTests[implPath]) {
			if !assigned[test] {
				candidates = append(candidates, test)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		members := map[string]bool{implPath: true}
		for _, test := range candidates {
			members[test] = true
		}

		var groupFiles []types.GitFile
		for _, path := range sortedPaths(members) {
			assigned[path] = true
			groupFiles = append(groupFiles, lookup[path])
		}

		reason, confidence := "Test with linked implementation", 0.9
		if len(candidates) > 1 {
			reason, confidence = "Test suite with implementation", 0.95
		}

		groups = append(groups, types.FileGroup{
			Files:      groupFiles,
			ChangeType: types.ChangeTest,
			Reason:     reason,
			Confidence: confidence,
		})
	}

	// Remaining tests go out on their own, pulling in any of their own
	// detected dependencies that are still free.
	for _, testFile := range testFiles {
		if assigned[testFile.Path] {
			continue
		}

		members := map[string]bool{testFile.Path: true}
		for _, dep := range dependencies[testFile.Path] {
			if assigned[dep] {
				continue
			}
			if _, known := lookup[dep]; known {
				members[dep] = true
			}
		}

		var groupFiles []types.GitFile
		for _, path := range sortedPaths(members) {
			assigned[path] = true
			groupFiles = append(groupFiles, lookup[path])
		}

		reason, confidence := "Isolated test change", 0.7
		if len(groupFiles) > 1 {
			reason, confidence = "Test with supporting files", 0.78
		}

		groups = append(groups, types.FileGroup{
			Files:      groupFiles,
			ChangeType: types.ChangeTest,
			Reason:     reason,
			Confidence: confidence,
		})
	}

	return groups
}

// splitByModule groups files sharing the same top-level path segment, with a
// synthetic root bucket for top-level files.
func splitByModule(files []types.GitFile, changeType types.ChangeType) []types.FileGroup {
	moduleFiles := make(map[string][]types.GitFile)
	var moduleOrder []string

	for _, f := range files {
		module := "root"
		if i := strings.IndexByte(f.Path, '/'); i >= 0 {
			module = f.Path[:i]
		}
		if _, seen := moduleFiles[module]; !seen {
			moduleOrder = append(moduleOrder, module)
		}
		moduleFiles[module] = append(moduleFiles[module], f)
	}

	groups := make([]types.FileGroup, 0, len(moduleOrder))
	for _, module := range moduleOrder {
		groups = append(groups, types.FileGroup{
			Files:      moduleFiles[module],
			ChangeType: changeType,
			Reason:     fmt.Sprintf("%s changes in %s module", changeType, module),
			Confidence: 0.7,
		})
	}

	return groups
}

// splitLargeGroups chunks any oversized group into consecutive parts, marking
// each part in the reason and discounting its confidence.
func (g *Grouper) splitLargeGroups(groups []types.FileGroup) []types.FileGroup {
	var final []types.FileGroup

	for _, group := range groups {
		if len(group.Files) <= g.cfg.MaxGroupSize {
			final = append(final, group)
			continue
		}

		for i := 0; i < len(group.Files); i += g.cfg.MaxGroupSize {
			end := i + g.cfg.MaxGroupSize
			if end > len(group.Files) {
				end = len(group.Files)
			}
			final = append(final, types.FileGroup{
				Files:      group.Files[i:end],
				ChangeType: group.ChangeType,
				Reason:     fmt.Sprintf("%s (part %d)", group.Reason, i/g.cfg.MaxGroupSize+1),
				Confidence: group.Confidence * 0.9,
			})
		}
	}

	return final
}

// enrichWithDependencies records, per group, the paths its members depend on
// that live outside the group. Intra-group edges are not surfaced.
func enrichWithDependencies(groups []types.FileGroup, dependencies map[string][]string) {
	for i := range groups {
		members := make(map[string]bool, len(groups[i].Files))
		for _, f := range groups[i].Files {
			members[f.Path] = true
		}

		external := make(map[string]bool)
		for _, f := range groups[i].Files {
			for _, dep := range dependencies[f.Path] {
				if !members[dep] {
					external[dep] = true
				}
			}
		}

		groups[i].Dependencies = sortedPaths(external)
	}
}

// GroupSummary renders a human-readable provenance block for one group.
func GroupSummary(group types.FileGroup) string {
	deps := "None"
	if len(group.Dependencies) > 0 {
		deps = strings.Join(group.Dependencies, ", ")
	}

	return fmt.Sprintf(
		"Group: %s\nReason: %s\nConfidence: %.1f%%\nFiles: %s\nDependencies: %s",
		group.ChangeType,
		group.Reason,
		group.Confidence*100,
		strings.Join(group.Paths(), ", "),
		deps,
	)
}

func priorityOf(ct types.ChangeType) int {
	if p, ok := changeTypePriority[ct]; ok {
		return p
	}
	return 5
}

// identifyTestAndImplementation splits a relationship pair into its test and
// implementation sides; ok is false when the pair is ambiguous.
func identifyTestAndImplementation(path1, path2 string) (testPath, implPath string, ok bool) {
	isTest1 := IsTestFile(path1)
	isTest2 := IsTestFile(path2)

	switch {
	case isTest1 && !isTest2:
		return path1, path2, true
	case isTest2 && !isTest1:
		return path2, path1, true
	default:
		return "", "", false
	}
}

func sortedPaths(set map[string]bool) []string {
	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
