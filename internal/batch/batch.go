// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package batch orchestrates commit creation for grouped files: it stages
// each group, generates a suggestion for its diff, previews it, and commits
// either group by group or as one combined commit.
package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/petar-djukic/commitloom/internal/console"
	"github.com/petar-djukic/commitloom/pkg/types"
)

// combinedTitle is the fixed title used when all groups merge into one
// commit.
const combinedTitle = "📦 chore: combine multiple changes"

// Repository is the git surface the processor needs.
type Repository interface {
	Diff(files []types.GitFile) (string, error)
	Stage(paths []string) error
	ResetStaged() error
	Commit(title, body string) (bool, error)
}

// Generator produces a commit suggestion for a staged diff.
type Generator interface {
	GenerateSuggestion(ctx context.Context, diff string, files []types.GitFile) (*types.CommitSuggestion, types.TokenUsage, error)
}

// Config controls how groups are committed.
type Config struct {
	AutoConfirm bool // Skip interactive confirmations
	Combine     bool // Merge all groups into a single commit
}

// Result records the outcome for one group.
type Result struct {
	Group      types.FileGroup
	Suggestion *types.CommitSuggestion
	Usage      types.TokenUsage
	Committed  bool
}

// Processor drives the commit workflow over a set of file groups.
type Processor struct {
	repo Repository
	gen  Generator
	ui   *console.Console
	cfg  Config
}

// New creates a processor.
func New(repo Repository, gen Generator, ui *console.Console, cfg Config) *Processor {
	return &Processor{repo: repo, gen: gen, ui: ui, cfg: cfg}
}

// ProcessGroups runs the workflow for every group. In individual mode each
// group becomes its own commit; in combined mode suggestions are merged and
// all files land in one commit. Groups whose generation fails are skipped
// after an optional confirmation; their failure is reflected in the results.
func (p *Processor) ProcessGroups(ctx context.Context, groups []types.FileGroup) ([]Result, error) {
	if len(groups) == 0 {
		return nil, nil
	}

	results := make([]Result, 0, len(groups))
	total := len(groups)

	for i, group := range groups {
		p.ui.BatchStart(i+1, total, group.Files)

		suggestion, usage, err := p.prepareGroup(ctx, group)
		if err != nil {
			p.ui.Error("Failed to process group %d: %v", i+1, err)
			results = append(results, Result{Group: group})
			if !p.cfg.AutoConfirm && !p.ui.Confirm("Try next group?") {
				break
			}
			continue
		}

		res := Result{Group: group, Suggestion: suggestion, Usage: usage}
		p.ui.TokenUsage(usage, i+1)

		if !p.cfg.Combine {
			committed, err := p.commitGroup(group, suggestion)
			if err != nil {
				p.ui.Error("Failed to create commit: %v", err)
			}
			res.Committed = committed
			if committed {
				p.ui.BatchComplete(i+1, total)
			}
		}

		results = append(results, res)
	}

	if p.cfg.Combine {
		committed, err := p.commitCombined(results)
		if err != nil {
			return results, err
		}
		if committed {
			for i := range results {
				if results[i].Suggestion != nil {
					results[i].Committed = true
				}
			}
		}
	}

	return results, nil
}

// prepareGroup stages exactly the group's files and generates a suggestion
// for their diff.
func (p *Processor) prepareGroup(ctx context.Context, group types.FileGroup) (*types.CommitSuggestion, types.TokenUsage, error) {
	if err := p.repo.ResetStaged(); err != nil {
		return nil, types.TokenUsage{}, fmt.Errorf("resetting staged changes: %w", err)
	}
	if err := p.repo.Stage(group.Paths()); err != nil {
		return nil, types.TokenUsage{}, fmt.Errorf("staging group: %w", err)
	}

	diff, err := p.repo.Diff(group.Files)
	if err != nil {
		return nil, types.TokenUsage{}, fmt.Errorf("computing diff: %w", err)
	}

	return p.gen.GenerateSuggestion(ctx, diff, group.Files)
}

// commitGroup previews the suggestion and commits the staged group after
// confirmation.
func (p *Processor) commitGroup(group types.FileGroup, suggestion *types.CommitSuggestion) (bool, error) {
	p.ui.CommitPreview(suggestion.FormatMessage())

	if !p.cfg.AutoConfirm && !p.ui.Confirm("Create this commit?") {
		return false, nil
	}

	committed, err := p.repo.Commit(suggestion.Title, suggestion.FormatBody())
	if err != nil {
		return false, err
	}
	if !committed {
		p.ui.Warning("No changes were committed. Files may already be committed.")
		return false, nil
	}

	p.ui.Success("Commit created successfully!")
	return true, nil
}

// commitCombined merges every successful suggestion into one commit holding
// all group files. Reports whether a commit was actually created.
func (p *Processor) commitCombined(results []Result) (bool, error) {
	suggestion, paths := mergeSuggestions(results)
	if suggestion == nil {
		p.ui.Warning("No groups were processed successfully.")
		return false, nil
	}

	p.ui.CommitPreview(suggestion.FormatMessage())

	if !p.cfg.AutoConfirm && !p.ui.Confirm("Create this commit?") {
		return false, nil
	}

	if err := p.repo.Stage(paths); err != nil {
		return false, fmt.Errorf("staging combined files: %w", err)
	}

	committed, err := p.repo.Commit(suggestion.Title, suggestion.FormatBody())
	if err != nil {
		return false, fmt.Errorf("creating combined commit: %w", err)
	}
	if !committed {
		p.ui.Warning("No changes were committed. Files may already be committed.")
		return false, nil
	}

	p.ui.Success("Combined commit created successfully!")
	return true, nil
}

// mergeSuggestions folds all successful group suggestions into one: bodies
// merge per category, summaries concatenate in group order.
func mergeSuggestions(results []Result) (*types.CommitSuggestion, []string) {
	body := make(map[string]types.CategoryChanges)
	var summaries []string
	var paths []string

	for _, res := range results {
		if res.Suggestion == nil {
			continue
		}
		for category, content := range res.Suggestion.Body {
			merged, ok := body[category]
			if !ok {
				merged = types.CategoryChanges{Emoji: content.Emoji}
			}
			merged.Changes = append(merged.Changes, content.Changes...)
			body[category] = merged
		}
		summaries = append(summaries, res.Suggestion.Summary)
		paths = append(paths, res.Group.Paths()...)
	}

	if len(summaries) == 0 {
		return nil, nil
	}

	return &types.CommitSuggestion{
		Title:   combinedTitle,
		Body:    body,
		Summary: strings.Join(summaries, " "),
	}, paths
}
