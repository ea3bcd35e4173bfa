// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package grouping

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/petar-djukic/commitloom/pkg/types"
)

// maxAnalyzeBytes caps how much file content the import scan will consider.
// Larger files contribute no dependency edges.
const maxAnalyzeBytes = 200_000

// ContentSource supplies raw file contents to the dependency extractor. The
// extractor owns the size cap and degrades missing or unreadable files to
// empty content.
type ContentSource interface {
	ReadFile(path string) ([]byte, error)
}

// OSContentSource reads files from the working tree rooted at Dir.
type OSContentSource struct {
	Dir string
}

func (s OSContentSource) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Dir, path))
}

// importPatterns holds the per-language regex tables for import extraction.
// This is a best-effort heuristic, not a parser; captured groups are matched
// against the other changed files.
var importPatterns = map[string][]*regexp.Regexp{
	"python": {
		regexp.MustCompile(`from\s+([.\w]+)\s+import`),
		regexp.MustCompile(`import\s+([.\w]+)`),
		regexp.MustCompile(`from\s+\.+(\w+)`),
	},
	"javascript": {
		regexp.MustCompile(`import\s+.*\s+from\s+['"]([^'"]+)['"]`),
		regexp.MustCompile(`require\(['"]([^'"]+)['"]\)`),
		regexp.MustCompile(`from\s+['"]([^'"]+)['"]`),
	},
	"typescript": {
		regexp.MustCompile(`import\s+.*\s+from\s+['"]([^'"]+)['"]`),
		regexp.MustCompile(`require\(['"]([^'"]+)['"]\)`),
		regexp.MustCompile(`from\s+['"]([^'"]+)['"]`),
	},
	"java": {
		regexp.MustCompile(`import\s+([\w.]+);`),
	},
	"go": {
		regexp.MustCompile(`import\s+"([^"]+)"`),
		regexp.MustCompile(`import\s+\([^)]+\)`),
	},
}

var extensionLanguages = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".java": "java",
	".go":   "go",
}

// extractor scans changed files for import statements and records which other
// changed files they refer to. State is scoped to a single grouping run.
type extractor struct {
	source ContentSource
	cache  map[string]string
}

func newExtractor(source ContentSource) *extractor {
	return &extractor{
		source: source,
		cache:  make(map[string]string),
	}
}

// detect builds the dependency map: file path to the sorted list of other
// changed files it imports. Files with no matches are omitted entirely.
func (e *extractor) detect(files []types.GitFile) map[string][]string {
	dependencies := make(map[string][]string)

	for _, file := range files {
		if file.Binary {
			continue
		}

		lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(file.Path))]
		if !ok {
			continue
		}

		raw := e.extractImports(file.Path, lang)
		if len(raw) == 0 {
			continue
		}

		matched := make(map[string]bool)
		for _, imp := range raw {
			imp = normalizeImport(imp)
			if imp == "" {
				continue
			}
			for _, other := range files {
				if other.Path == file.Path {
					continue
				}
				if importMatchesFile(imp, other.Path) {
					matched[other.Path] = true
				}
			}
		}

		if len(matched) > 0 {
			deps := make([]string, 0, len(matched))
			for dep := range matched {
				deps = append(deps, dep)
			}
			sort.Strings(deps)
			dependencies[file.Path] = deps
		}
	}

	return dependencies
}

// extractImports runs the language's pattern table over the file contents and
// collects every non-empty capture. Patterns without capture groups yield the
// whole match, mirroring the permissive upstream behavior.
func (e *extractor) extractImports(path, lang string) []string {
	content := e.contents(path)
	if content == "" {
		return nil
	}

	var imports []string
	for _, re := range importPatterns[lang] {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			if len(m) == 1 {
				imports = append(imports, m[0])
				continue
			}
			for _, group := range m[1:] {
				if group != "" {
					imports = append(imports, group)
				}
			}
		}
	}

	return imports
}

// contents reads a file through the source, degrading unreadable or oversized
// files to empty content. Results are cached for the run.
func (e *extractor) contents(path string) string {
	if cached, ok := e.cache[path]; ok {
		return cached
	}

	data, err := e.source.ReadFile(path)
	if err != nil || len(data) > maxAnalyzeBytes {
		e.cache[path] = ""
		return ""
	}

	content := string(data)
	e.cache[path] = content
	return content
}

// normalizeImport strips quotes, whitespace, and leading ./ sequences.
func normalizeImport(imp string) string {
	imp = strings.TrimSpace(imp)
	imp = strings.Trim(imp, `"'`)
	return strings.TrimLeft(imp, "./")
}

// importMatchesFile reports whether the normalized import refers to the given
// changed file: the dot-to-slash form must appear in the file's directory+stem
// path, or the import's last segment must equal the file's stem.
func importMatchesFile(imp, path string) bool {
	impStr := strings.ReplaceAll(imp, ".", "/")

	fileStem := stem(path)
	fileStr := fileStem
	if dir := parentDir(path); dir != "." {
		fileStr = dir + "/" + fileStem
	}

	if strings.Contains(fileStr, impStr) {
		return true
	}

	segments := strings.Split(impStr, "/")
	return len(segments) > 0 && segments[len(segments)-1] == fileStem
}
