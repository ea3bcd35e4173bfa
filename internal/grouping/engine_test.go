// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package grouping

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/commitloom/pkg/types"
)

func newTestGrouper(source ContentSource) *Grouper {
	if source == nil {
		source = mapSource{}
	}
	return NewGrouper(Config{Source: source})
}

// collectPaths flattens all group members for partition checks.
func collectPaths(groups []types.FileGroup) []string {
	var paths []string
	for _, g := range groups {
		paths = append(paths, g.Paths()...)
	}
	return paths
}

func TestAnalyzeFiles_EmptyInput(t *testing.T) {
	groups := newTestGrouper(nil).AnalyzeFiles(nil)

	assert.Empty(t, groups)
}

func TestAnalyzeFiles_TestPairing(t *testing.T) {
	files := gitFiles("user_service.py", "test_user_service.py")

	groups := newTestGrouper(nil).AnalyzeFiles(files)

	require.Len(t, groups, 1)
	assert.Equal(t, types.ChangeTest, groups[0].ChangeType)
	assert.Equal(t, "Test with linked implementation", groups[0].Reason)
	assert.Equal(t, 0.9, groups[0].Confidence)
	assert.ElementsMatch(t, []string{"user_service.py", "test_user_service.py"}, groups[0].Paths())
}

func TestAnalyzeFiles_TestSuiteWithImplementation(t *testing.T) {
	files := gitFiles(
		"parser.py",
		"test_parser.py",
		"tests/parser_test.py",
	)

	groups := newTestGrouper(nil).AnalyzeFiles(files)

	require.Len(t, groups, 1)
	assert.Equal(t, "Test suite with implementation", groups[0].Reason)
	assert.Equal(t, 0.95, groups[0].Confidence)
	assert.Len(t, groups[0].Files, 3)
}

func TestAnalyzeFiles_IsolatedTestChange(t *testing.T) {
	files := gitFiles("tests/conftest.py")

	groups := newTestGrouper(nil).AnalyzeFiles(files)

	require.Len(t, groups, 1)
	assert.Equal(t, "Isolated test change", groups[0].Reason)
	assert.Equal(t, 0.7, groups[0].Confidence)
}

func TestAnalyzeFiles_TestWithSupportingFiles(t *testing.T) {
	// tests/test_tooling.py has no linked implementation by naming, but its
	// imports pull fixtures.py into the group.
	source := mapSource{
		"tests/test_tooling.py": "from fixtures import setup\n",
	}
	files := gitFiles("tests/test_tooling.py", "fixtures.py")

	groups := newTestGrouper(source).AnalyzeFiles(files)

	require.Len(t, groups, 1)
	assert.Equal(t, "Test with supporting files", groups[0].Reason)
	assert.Equal(t, 0.78, groups[0].Confidence)
	assert.ElementsMatch(t, []string{"tests/test_tooling.py", "fixtures.py"}, groups[0].Paths())
}

func TestAnalyzeFiles_SmallBucketSingleGroup(t *testing.T) {
	files := gitFiles("README.md", "docs/guide.md")

	groups := newTestGrouper(nil).AnalyzeFiles(files)

	require.Len(t, groups, 1)
	assert.Equal(t, types.ChangeDocs, groups[0].ChangeType)
	assert.Equal(t, "All docs changes", groups[0].Reason)
	assert.Equal(t, 0.8, groups[0].Confidence)
}

func TestAnalyzeFiles_ModuleSplit(t *testing.T) {
	files := gitFiles(
		"api/a.go", "api/b.go",
		"store/c.go", "store/d.go",
	)

	groups := newTestGrouper(nil).AnalyzeFiles(files)

	require.Len(t, groups, 2)
	assert.Equal(t, "refactor changes in api module", groups[0].Reason)
	assert.Equal(t, 0.7, groups[0].Confidence)
	assert.Equal(t, "refactor changes in store module", groups[1].Reason)
}

func TestAnalyzeFiles_RootModuleBucket(t *testing.T) {
	files := gitFiles("a.go", "b.go", "c.go", "d.go")

	groups := newTestGrouper(nil).AnalyzeFiles(files)

	require.Len(t, groups, 1)
	assert.Equal(t, "refactor changes in root module", groups[0].Reason)
}

func TestAnalyzeFiles_SizeCapSplitsOversizedGroups(t *testing.T) {
	// Eight chore files in one module: the module group (confidence 0.7)
	// splits into parts of five and three at 0.7*0.9.
	var paths []string
	for i := 0; i < 8; i++ {
		paths = append(paths, fmt.Sprintf("assets/file%d.bin", i))
	}
	files := gitFiles(paths...)

	groups := newTestGrouper(nil).AnalyzeFiles(files)

	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Files, 5)
	assert.Len(t, groups[1].Files, 3)
	assert.Contains(t, groups[0].Reason, "(part 1)")
	assert.Contains(t, groups[1].Reason, "(part 2)")
	assert.InDelta(t, 0.7*0.9, groups[0].Confidence, 1e-9)
	assert.InDelta(t, 0.7*0.9, groups[1].Confidence, 1e-9)
}

func TestAnalyzeFiles_PartitionInvariant(t *testing.T) {
	source := mapSource{
		"cli/main.py":          "from core.engine import run\n",
		"tests/test_engine.py": "from core.engine import run\n",
	}
	files := gitFiles(
		"cli/main.py",
		"core/engine.py",
		"tests/test_engine.py",
		"README.md",
		"package.json",
		"theme.css",
		"assets/logo.png",
		"settings.yaml",
	)

	groups := newTestGrouper(source).AnalyzeFiles(files)

	var want []string
	for _, f := range files {
		want = append(want, f.Path)
	}
	assert.ElementsMatch(t, want, collectPaths(groups))
}

func TestAnalyzeFiles_Deterministic(t *testing.T) {
	source := mapSource{
		"cli/main.py": "from core.engine import run\n",
	}
	files := gitFiles(
		"cli/main.py", "core/engine.py", "core/util.py",
		"docs/a.md", "docs/b.md", "tests/test_engine.py",
	)

	g := newTestGrouper(source)
	first := g.AnalyzeFiles(files)
	second := g.AnalyzeFiles(files)

	assert.Equal(t, first, second)
}

func TestAnalyzeFiles_DependencyEnrichmentExcludesIntraGroup(t *testing.T) {
	// a.py imports b.py (same group) and lib/c.py (different module group);
	// only the cross-group edge is surfaced.
	source := mapSource{
		"app/a.py": "from app.b import x\nfrom lib.c import y\n",
	}
	files := gitFiles(
		"app/a.py", "app/b.py", "app/d.py", "app/e.py",
		"lib/c.py", "lib/f.py", "lib/g.py", "lib/h.py",
	)

	groups := newTestGrouper(source).AnalyzeFiles(files)

	var appGroup *types.FileGroup
	for i := range groups {
		for _, f := range groups[i].Files {
			if f.Path == "app/a.py" {
				appGroup = &groups[i]
			}
		}
	}
	require.NotNil(t, appGroup)
	assert.Contains(t, appGroup.Dependencies, "lib/c.py")
	assert.NotContains(t, appGroup.Dependencies, "app/b.py")
}

func TestAnalyzeFiles_AssignedFilesNotDuplicated(t *testing.T) {
	// The implementation is claimed by the TEST bucket; the refactor bucket
	// must not emit it again.
	files := gitFiles("engine.py", "test_engine.py", "other.py", "helper.py")

	groups := newTestGrouper(nil).AnalyzeFiles(files)

	seen := map[string]int{}
	for _, p := range collectPaths(groups) {
		seen[p]++
	}
	for p, n := range seen {
		assert.Equal(t, 1, n, "path %q emitted %d times", p, n)
	}
	assert.Len(t, seen, 4)
}

func TestGroupSummary(t *testing.T) {
	group := types.FileGroup{
		Files:      gitFiles("a.py", "b.py"),
		ChangeType: types.ChangeTest,
		Reason:     "Test with linked implementation",
		Confidence: 0.9,
	}

	summary := GroupSummary(group)

	assert.Contains(t, summary, "Group: test")
	assert.Contains(t, summary, "Confidence: 90.0%")
	assert.Contains(t, summary, "a.py, b.py")
	assert.Contains(t, summary, "Dependencies: None")
}
