// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package analyzer estimates commit token usage and cost from the staged
// diff and warns when a changeset is too large or expensive for one commit.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/commitloom/pkg/types"
)

const (
	// tokenEstimationRatio approximates tokens as characters divided by four.
	tokenEstimationRatio = 4

	costThresholdHigh   = 0.10
	costThresholdMedium = 0.05
)

// ModelCost holds per-million-token prices for one model.
type ModelCost struct {
	Input  float64
	Output float64
}

// modelCosts carries the known per-model pricing. Unknown models fall back
// to the default model's rates.
var modelCosts = map[string]ModelCost{
	"gpt-4o-mini": {Input: 0.15, Output: 0.60},
}

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// WarningLevel grades how serious a commit-size warning is.
type WarningLevel string

const (
	LevelLow    WarningLevel = "low"
	LevelMedium WarningLevel = "medium"
	LevelHigh   WarningLevel = "high"
)

// Warning describes one commit complexity or cost concern.
type Warning struct {
	Level   WarningLevel
	Message string
}

// CommitAnalysis is the result of analyzing a changeset.
type CommitAnalysis struct {
	EstimatedTokens int
	EstimatedCost   float64
	NumFiles        int
	Warnings        []Warning
	IsComplex       bool
}

// Config tunes the analyzer thresholds.
type Config struct {
	TokenLimit        int     // Recommended diff token ceiling
	MaxFilesThreshold int     // Files per commit before warning
	Model             string  // Pricing model name
	CostWarning       float64 // Medium-severity cost threshold
}

// Analyzer estimates complexity for staged changesets.
type Analyzer struct {
	cfg Config
}

// New creates an analyzer, filling zero config fields with defaults.
func New(cfg Config) *Analyzer {
	if cfg.TokenLimit <= 0 {
		cfg.TokenLimit = 120000
	}
	if cfg.MaxFilesThreshold <= 0 {
		cfg.MaxFilesThreshold = 5
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.CostWarning <= 0 {
		cfg.CostWarning = costThresholdMedium
	}
	return &Analyzer{cfg: cfg}
}

// EstimateTokensAndCost approximates the token count and input cost of text.
func (a *Analyzer) EstimateTokensAndCost(text string) (int, float64) {
	tokens := len(text) / tokenEstimationRatio
	cost := float64(tokens) * costPerToken(a.cfg.Model)
	return tokens, cost
}

// AnalyzeDiff inspects a staged diff and the changed file list, collecting
// warnings about oversized or expensive commits. It never fails; files whose
// per-file diff cannot be located are simply skipped.
func (a *Analyzer) AnalyzeDiff(diff string, files []types.GitFile) CommitAnalysis {
	var warnings []Warning

	tokens, cost := a.EstimateTokensAndCost(diff)

	if tokens >= a.cfg.TokenLimit {
		warnings = append(warnings, Warning{
			Level: LevelHigh,
			Message: fmt.Sprintf("The diff exceeds token limit (%d tokens). Recommended limit is %d tokens.",
				tokens, a.cfg.TokenLimit),
		})
	}

	switch {
	case cost >= costThresholdHigh:
		warnings = append(warnings, Warning{
			Level: LevelHigh,
			Message: fmt.Sprintf("This commit could be expensive (€%.4f). Consider splitting it into smaller commits.",
				cost),
		})
	case cost >= a.cfg.CostWarning:
		warnings = append(warnings, Warning{
			Level: LevelMedium,
			Message: fmt.Sprintf("This commit has a moderate cost (€%.4f). Consider if it can be optimized.",
				cost),
		})
	}

	if len(files) > a.cfg.MaxFilesThreshold {
		warnings = append(warnings, Warning{
			Level: LevelHigh,
			Message: fmt.Sprintf("You're modifying %d files. For atomic commits, consider limiting to %d files per commit.",
				len(files), a.cfg.MaxFilesThreshold),
		})
	}

	for _, f := range files {
		fileDiff, ok := sliceFileDiff(diff, f.Path)
		if !ok {
			// Binary or newly added files may not have a slice.
			continue
		}

		fileTokens, fileCost := a.EstimateTokensAndCost(fileDiff)

		if fileTokens >= a.cfg.TokenLimit/2 {
			warnings = append(warnings, Warning{
				Level: LevelHigh,
				Message: fmt.Sprintf("File %s is too large (%d tokens). Consider splitting these changes across multiple commits.",
					f.Path, fileTokens),
			})
		}
		if fileCost >= costThresholdMedium {
			warnings = append(warnings, Warning{
				Level: LevelHigh,
				Message: fmt.Sprintf("File %s has expensive changes (€%.4f). Consider splitting these changes across multiple commits.",
					f.Path, fileCost),
			})
		}
	}

	isComplex := false
	for _, w := range warnings {
		if w.Level == LevelHigh {
			isComplex = true
			break
		}
	}

	return CommitAnalysis{
		EstimatedTokens: tokens,
		EstimatedCost:   cost,
		NumFiles:        len(files),
		Warnings:        warnings,
		IsComplex:       isComplex,
	}
}

// sliceFileDiff extracts one file's portion of a combined diff.
func sliceFileDiff(diff, path string) (string, bool) {
	marker := fmt.Sprintf("diff --git a/%s b/%s", path, path)
	_, rest, found := strings.Cut(diff, marker)
	if !found {
		return "", false
	}
	if end := strings.Index(rest, "diff --git"); end >= 0 {
		rest = rest[:end]
	}
	return rest, true
}

// FormatCost renders a cost with an appropriate unit for humans.
func FormatCost(cost float64) string {
	switch {
	case cost >= 1.0:
		return fmt.Sprintf("€%.2f", cost)
	case cost >= 0.01:
		return fmt.Sprintf("%.2f¢", cost*100)
	default:
		return "0.10¢"
	}
}

// CostContext words how expensive a total cost is.
func CostContext(total float64) string {
	switch {
	case total >= 0.10:
		return "very expensive"
	case total >= 0.05:
		return "expensive"
	case total >= 0.01:
		return "moderate"
	case total >= 0.001:
		return "cheap"
	default:
		return "very cheap"
	}
}

// PriceFor returns the per-million-token pricing for model, falling back to
// the default model's rates for unknown names.
func PriceFor(model string) ModelCost {
	if mc, ok := modelCosts[model]; ok {
		return mc
	}
	return modelCosts[DefaultModel]
}

func costPerToken(model string) float64 {
	return PriceFor(model).Input / 1_000_000
}
