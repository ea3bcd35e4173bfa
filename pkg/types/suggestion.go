// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"sort"
	"strings"
)

// CategoryChanges holds one category of the structured commit body.
type CategoryChanges struct {
	Emoji   string   `json:"emoji,omitempty"`
	Changes []string `json:"changes"`
}

// CommitSuggestion is the structured commit message returned by the AI
// collaborator: a gitemoji conventional-commit title, a categorized bullet
// body, and a one-line summary.
type CommitSuggestion struct {
	Title   string                     `json:"title"`
	Body    map[string]CategoryChanges `json:"body"`
	Summary string                     `json:"summary"`
}

// FormatBody renders the categorized body plus summary for a git commit
// message. Categories are emitted in sorted order so output is reproducible.
func (s CommitSuggestion) FormatBody() string {
	var buf strings.Builder
	for _, category := range sortedKeys(s.Body) {
		buf.WriteString(fmt.Sprintf("%s:\n", category))
		for _, change := range s.Body[category].Changes {
			buf.WriteString(fmt.Sprintf("- %s\n", change))
		}
		buf.WriteString("\n")
	}
	buf.WriteString(s.Summary)
	buf.WriteString("\n")
	return buf.String()
}

// FormatMessage renders the full commit message: title, categorized body,
// and summary.
func (s CommitSuggestion) FormatMessage() string {
	return s.Title + "\n\n" + s.FormatBody()
}

// TokenUsage tracks token consumption and cost for AI calls.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
	InputCost    float64
	OutputCost   float64
}

// TotalTokens returns the sum of input and output tokens.
func (u TokenUsage) TotalTokens() int {
	return u.InputTokens + u.OutputTokens
}

// TotalCost returns the combined input and output cost.
func (u TokenUsage) TotalCost() float64 {
	return u.InputCost + u.OutputCost
}

// Add accumulates another usage record into this one.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.InputCost += other.InputCost
	u.OutputCost += other.OutputCost
}

func sortedKeys(m map[string]CategoryChanges) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
