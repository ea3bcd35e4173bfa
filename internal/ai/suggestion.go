// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/petar-djukic/commitloom/pkg/types"
)

// ParseSuggestion extracts a structured commit suggestion from a model
// response. Models sometimes wrap the JSON in markdown fences or lead with
// prose, so the parser locates the outermost JSON object before decoding.
func ParseSuggestion(text string) (*types.CommitSuggestion, error) {
	payload := extractJSON(text)
	if payload == "" {
		return nil, fmt.Errorf("%w: no JSON object in model response", ErrAIFailure)
	}

	var suggestion types.CommitSuggestion
	if err := json.Unmarshal([]byte(payload), &suggestion); err != nil {
		return nil, fmt.Errorf("%w: decoding suggestion: %v", ErrAIFailure, err)
	}

	if strings.TrimSpace(suggestion.Title) == "" {
		return nil, fmt.Errorf("%w: suggestion has empty title", ErrAIFailure)
	}

	return &suggestion, nil
}

// extractJSON returns the outermost {...} span of text, stripping any
// markdown fences, or "" when no object is present.
func extractJSON(text string) string {
	text = stripFences(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
