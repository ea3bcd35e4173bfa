// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package grouping partitions staged files into commit-sized groups using a
// heuristic change classifier, a pairwise relationship detector, and a
// regex-based import scan. Everything here is a pure function of the input
// file list and file contents; git and AI access live elsewhere.
package grouping

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/petar-djukic/commitloom/pkg/types"
)

// typePattern matches a path against one classification regex. Patterns that
// mention a path separator run against the full path; everything else runs
// against the base name only.
type typePattern struct {
	re       *regexp.Regexp
	fullPath bool
	exclude  *regexp.Regexp // suppress the match when this also matches
}

// typeRule binds a change type to its ordered pattern list.
type typeRule struct {
	changeType types.ChangeType
	patterns   []typePattern
}

func pat(expr string) typePattern {
	return typePattern{
		re:       regexp.MustCompile("(?i)" + expr),
		fullPath: strings.Contains(expr, "/"),
	}
}

// typeRules is evaluated in order; the first matching pattern wins. BUILD
// must come before CONFIG so package.json is not swallowed by the generic
// .json rule, and the DOCS .txt rule excludes requirements.txt so it reaches
// the BUILD table (RE2 has no lookbehind, so the exclusion is a predicate).
var typeRules = []typeRule{
	{types.ChangeTest, []typePattern{
		pat(`test[s]?/`),
		pat(`test_.*\.py$`),
		pat(`.*_test\.py$`),
		pat(`.*\.test\.[jt]sx?$`),
		pat(`.*\.spec\.[jt]sx?$`),
		pat(`__tests__/`),
	}},
	{types.ChangeDocs, []typePattern{
		pat(`\.md$`),
		pat(`\.rst$`),
		pat(`docs?/`),
		pat(`README`),
		pat(`CHANGELOG`),
		pat(`LICENSE`),
		{
			re:      regexp.MustCompile(`(?i)\.txt$`),
			exclude: regexp.MustCompile(`(?i)requirements\.txt$`),
		},
	}},
	{types.ChangeBuild, []typePattern{
		pat(`package\.json$`),
		pat(`package-lock\.json$`),
		pat(`requirements\.txt$`),
		pat(`pyproject\.toml$`),
		pat(`setup\.py$`),
		pat(`Makefile$`),
		pat(`CMakeLists\.txt$`),
		pat(`\.gradle$`),
		pat(`pom\.xml$`),
	}},
	{types.ChangeConfig, []typePattern{
		pat(`\.yaml$`),
		pat(`\.yml$`),
		pat(`\.toml$`),
		pat(`\.ini$`),
		pat(`\.cfg$`),
		pat(`\.conf$`),
		pat(`\.env`),
		pat(`Dockerfile`),
		pat(`docker-compose`),
		pat(`\.gitignore$`),
		pat(`\.json$`),
	}},
	{types.ChangeStyle, []typePattern{
		pat(`\.css$`),
		pat(`\.scss$`),
		pat(`\.sass$`),
		pat(`\.less$`),
		pat(`\.styl$`),
	}},
}

// sourceExtensions covers the common languages whose unmatched edits default
// to refactor rather than chore.
var sourceExtensions = map[string]bool{
	".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".java": true, ".go": true, ".cpp": true, ".c": true, ".h": true,
	".hpp": true, ".rs": true, ".rb": true, ".php": true, ".swift": true,
	".kt": true, ".scala": true, ".cs": true, ".vb": true, ".f90": true,
}

// Classify maps a file path to its change type. Deterministic: the rule
// table is evaluated in fixed order and the first match wins.
func Classify(path string) types.ChangeType {
	for _, rule := range typeRules {
		for _, p := range rule.patterns {
			if matchesPattern(p, path) {
				return rule.changeType
			}
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if sourceExtensions[ext] {
		lower := strings.ToLower(path)
		switch {
		case strings.Contains(lower, "fix") || strings.Contains(lower, "bug"):
			return types.ChangeFix
		case strings.Contains(lower, "feature") || strings.Contains(lower, "feat"):
			return types.ChangeFeature
		default:
			return types.ChangeRefactor
		}
	}

	return types.ChangeChore
}

// IsTestFile reports whether the path matches any of the TEST patterns.
// The relationship detector uses this independently of full classification.
func IsTestFile(path string) bool {
	for _, p := range typeRules[0].patterns {
		if matchesPattern(p, path) {
			return true
		}
	}
	return false
}

func matchesPattern(p typePattern, path string) bool {
	target := path
	if !p.fullPath {
		target = filepath.Base(path)
	}
	if !p.re.MatchString(target) {
		return false
	}
	if p.exclude != nil && p.exclude.MatchString(target) {
		return false
	}
	return true
}
