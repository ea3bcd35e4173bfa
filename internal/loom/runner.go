// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package loom implements the commit workflow orchestrator, wiring the git
// collaborator, complexity analyzer, grouping engine, and batch processor.
package loom

import (
	"context"
	"errors"
	"fmt"

	"github.com/petar-djukic/commitloom/internal/analyzer"
	"github.com/petar-djukic/commitloom/internal/batch"
	"github.com/petar-djukic/commitloom/internal/console"
	gitpkg "github.com/petar-djukic/commitloom/internal/git"
	"github.com/petar-djukic/commitloom/internal/grouping"
	"github.com/petar-djukic/commitloom/pkg/types"
)

// ErrNoChanges indicates the staging area holds nothing to commit.
var ErrNoChanges = errors.New("no changes detected in the staging area")

// Suggester abstracts the AI client so the orchestrator is testable.
type Suggester interface {
	GenerateSuggestion(ctx context.Context, diff string, files []types.GitFile) (*types.CommitSuggestion, types.TokenUsage, error)
}

// RunResult holds the outcome of a Runner.Run invocation. This is the
// internal result type; pkg/loom converts it to the public Result.
type RunResult struct {
	Files      int
	Groups     int
	Commits    int
	TokensUsed types.TokenUsage
	Analysis   analyzer.CommitAnalysis
	Success    bool
}

// Deps holds injected dependencies for the runner.
type Deps struct {
	Suggester           Suggester
	UI                  *console.Console
	WorkDir             string
	Model               string
	MaxGroupSize        int
	SmallGroupThreshold int
	TokenLimit          int
	NoGrouping          bool // Skip the grouping engine; commit all files as one group
	AutoConfirm         bool
	Combine             bool
}

// Runner orchestrates the commit workflow.
type Runner struct {
	deps Deps
}

// NewRunner creates a Runner with the given dependencies.
func NewRunner(deps Deps) *Runner {
	return &Runner{deps: deps}
}

// Run executes the full workflow: read staged files, analyze the diff,
// group related changes, and commit each group with an AI-generated
// message.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}
	ui := r.deps.UI

	ui.Info("Analyzing your changes...")

	repo, err := gitpkg.Open(gitpkg.Config{WorkDir: r.deps.WorkDir})
	if err != nil {
		return result, err
	}

	files, err := repo.StagedFiles()
	if err != nil {
		return result, fmt.Errorf("reading staged files: %w", err)
	}
	if len(files) == 0 {
		return result, ErrNoChanges
	}
	result.Files = len(files)

	ui.ChangedFiles(files)

	diff, err := repo.Diff(files)
	if err != nil {
		return result, fmt.Errorf("computing diff: %w", err)
	}

	result.Analysis = analyzer.New(analyzer.Config{
		Model:      r.deps.Model,
		TokenLimit: r.deps.TokenLimit,
	}).AnalyzeDiff(diff, files)
	ui.AnalysisWarnings(&result.Analysis)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	groups := r.groupFiles(files)
	result.Groups = len(groups)

	ui.GroupPlan(groups)

	combine := r.deps.Combine
	if !combine && !r.deps.AutoConfirm && len(groups) > 1 {
		combine = ui.SelectStrategy() == "combined"
	}

	processor := batch.New(repo, r.deps.Suggester, ui, batch.Config{
		AutoConfirm: r.deps.AutoConfirm,
		Combine:     combine,
	})

	results, err := processor.ProcessGroups(ctx, groups)
	if err != nil {
		return result, fmt.Errorf("processing groups: %w", err)
	}

	for _, res := range results {
		result.TokensUsed.Add(res.Usage)
		if res.Committed {
			result.Commits++
		}
	}
	result.Success = result.Commits > 0

	return result, nil
}

// groupFiles runs the grouping engine, or emits a single group holding every
// staged file when grouping is disabled.
func (r *Runner) groupFiles(files []types.GitFile) []types.FileGroup {
	if r.deps.NoGrouping {
		return []types.FileGroup{{
			Files:      files,
			ChangeType: types.ChangeChore,
			Reason:     "All staged changes",
			Confidence: 1.0,
		}}
	}

	grouper := grouping.NewGrouper(grouping.Config{
		MaxGroupSize:        r.deps.MaxGroupSize,
		SmallGroupThreshold: r.deps.SmallGroupThreshold,
		Source:              grouping.OSContentSource{Dir: r.deps.WorkDir},
	})
	return grouper.AnalyzeFiles(files)
}
