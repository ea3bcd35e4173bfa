// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package loom defines the public interface for commitloom, an AI-assisted
// commit weaver that groups related staged changes and generates a
// conventional-commit message for each group.
package loom

import (
	"context"
	"errors"

	"github.com/petar-djukic/commitloom/pkg/types"
)

// Error types for the Loom API.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrAIFailure     = errors.New("AI call failed")
	ErrNoChanges     = errors.New("no changes detected in the staging area")
)

// Config configures a Loom instance.
type Config struct {
	WorkDir             string // Repository root (required)
	Model               string // Bedrock model ID (required)
	Region              string // AWS region (required)
	Profile             string // AWS credential profile (optional)
	MaxGroupSize        int    // Maximum files per commit group (default 5)
	SmallGroupThreshold int    // Largest bucket committed as one group (default 3)
	TokenLimit          int    // Diff token ceiling before warning (default 120000)
	MaxTokens           int    // Maximum tokens for the AI response (default 1000)
	CostModel           string // Pricing model for usage accounting (default gpt-4o-mini)
	NoGrouping          bool   // Disable smart grouping; commit all files as one group
	AutoConfirm         bool   // Commit without interactive confirmation
	Combine             bool   // Merge all groups into a single commit
}

// Result holds the outcome of a Loom.Run invocation.
type Result struct {
	Files      int              // Staged files processed
	Groups     int              // Commit groups proposed
	Commits    int              // Groups that reached a commit
	TokensUsed types.TokenUsage // Total tokens consumed
	Success    bool             // True if at least one commit was created
}

// Loom runs the commit workflow against a repository.
type Loom interface {
	// Run reads the staging area, groups related changes, generates a
	// commit message per group, and creates the commits.
	Run(ctx context.Context) (*Result, error)
}
