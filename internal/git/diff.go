// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/petar-djukic/commitloom/pkg/types"
)

// Diff renders the staged changes for the given files as a unified-style
// diff. When the set contains binary files, a size summary replaces the
// text diff, which is what the AI prompt expects for binary changesets.
func (r *Repo) Diff(files []types.GitFile) (string, error) {
	if len(files) == 0 {
		return "", nil
	}

	for _, f := range files {
		if f.Binary {
			return binarySummary(files), nil
		}
	}

	idx, err := r.repo.Storer.Index()
	if err != nil {
		return "", fmt.Errorf("reading index: %w", err)
	}

	var buf strings.Builder
	for _, f := range files {
		old, err := r.headFileContents(f.Path)
		if err != nil {
			return "", fmt.Errorf("reading %s at HEAD: %w", f.Path, err)
		}

		staged := ""
		if entry, err := idx.Entry(f.Path); err == nil {
			staged, err = r.blobContents(entry.Hash)
			if err != nil {
				return "", fmt.Errorf("reading staged %s: %w", f.Path, err)
			}
		}

		if old == staged {
			continue
		}
		buf.WriteString(formatFileDiff(f.Path, old, staged))
	}

	return buf.String(), nil
}

// binarySummary lists binary changes with humanized sizes instead of a diff.
func binarySummary(files []types.GitFile) string {
	var buf strings.Builder
	buf.WriteString("Binary files changed:\n")
	for _, f := range files {
		if f.Size > 0 {
			buf.WriteString(fmt.Sprintf("- %s (%s)\n", f.Path, humanize.Bytes(uint64(f.Size))))
		} else {
			buf.WriteString(fmt.Sprintf("- %s (size unknown)\n", f.Path))
		}
	}
	return buf.String()
}

// formatFileDiff renders one file's change as a line diff with git-style
// headers. Line granularity comes from the chars-to-lines round trip.
func formatFileDiff(path, old, staged string) string {
	dmp := diffmatchpatch.New()
	oldChars, newChars, lines := dmp.DiffLinesToChars(old, staged)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lines)

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("diff --git a/%s b/%s\n", path, path))
	buf.WriteString(fmt.Sprintf("--- a/%s\n", path))
	buf.WriteString(fmt.Sprintf("+++ b/%s\n", path))

	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitDiffLines(d.Text) {
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}

	return buf.String()
}

// splitDiffLines splits diff text into lines, dropping the trailing empty
// element a final newline produces.
func splitDiffLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
