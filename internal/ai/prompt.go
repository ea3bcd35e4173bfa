// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ai

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/petar-djukic/commitloom/pkg/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// binaryDiffPrefix marks diffs produced for binary-only change sets, which
// get a dedicated prompt without a fenced diff block.
const binaryDiffPrefix = "Binary files changed:"

// promptData holds the values injected into the commit prompt templates.
type promptData struct {
	FilesSummary string
	Diff         string
}

// RenderPrompt renders the commit suggestion prompt for the given diff and
// file list. Binary change summaries select a prompt variant that describes
// the assets instead of embedding diff text.
func RenderPrompt(diff string, files []types.GitFile) (string, error) {
	name := "templates/commit.tmpl"
	if strings.HasPrefix(diff, binaryDiffPrefix) {
		name = "templates/binary.tmpl"
	}

	tmpl, err := template.ParseFS(templateFS, name)
	if err != nil {
		return "", fmt.Errorf("parsing prompt template: %w", err)
	}

	var buf bytes.Buffer
	data := promptData{FilesSummary: filesSummary(files), Diff: diff}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}

	return buf.String(), nil
}

func filesSummary(files []types.GitFile) string {
	if len(files) == 0 {
		return "none"
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return strings.Join(paths, ", ")
}
