// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package loom

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/petar-djukic/commitloom/internal/ai"
	"github.com/petar-djukic/commitloom/internal/console"
	internalloom "github.com/petar-djukic/commitloom/internal/loom"
)

// New validates the config, initializes the AI client, and returns a
// ready-to-use Loom. It does not touch the repository; that happens in Run.
func New(cfg Config) (Loom, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	client, err := ai.NewClient(context.Background(), ai.ClientConfig{
		ModelID:   cfg.Model,
		Region:    cfg.Region,
		Profile:   cfg.Profile,
		MaxTokens: cfg.MaxTokens,
		CostModel: cfg.CostModel,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIFailure, err)
	}

	runner := internalloom.NewRunner(internalloom.Deps{
		Suggester:           client,
		UI:                  console.New(),
		WorkDir:             cfg.WorkDir,
		Model:               cfg.CostModel,
		MaxGroupSize:        cfg.MaxGroupSize,
		SmallGroupThreshold: cfg.SmallGroupThreshold,
		TokenLimit:          cfg.TokenLimit,
		NoGrouping:          cfg.NoGrouping,
		AutoConfirm:         cfg.AutoConfirm,
		Combine:             cfg.Combine,
	})

	return &loomAdapter{runner: runner}, nil
}

// loomAdapter adapts internal/loom.Runner to the public Loom interface.
type loomAdapter struct {
	runner *internalloom.Runner
}

func (a *loomAdapter) Run(ctx context.Context) (*Result, error) {
	ir, err := a.runner.Run(ctx)
	if errors.Is(err, internalloom.ErrNoChanges) {
		err = ErrNoChanges
	}
	if ir == nil {
		return &Result{}, err
	}
	return &Result{
		Files:      ir.Files,
		Groups:     ir.Groups,
		Commits:    ir.Commits,
		TokensUsed: ir.TokensUsed,
		Success:    ir.Success,
	}, err
}

// validateConfig checks that required fields are present.
func validateConfig(cfg Config) error {
	if cfg.WorkDir == "" {
		return fmt.Errorf("WorkDir is required")
	}
	if info, err := os.Stat(cfg.WorkDir); err != nil || !info.IsDir() {
		return fmt.Errorf("WorkDir %q does not exist or is not a directory", cfg.WorkDir)
	}
	if cfg.Model == "" {
		return fmt.Errorf("Model is required")
	}
	if cfg.Region == "" {
		return fmt.Errorf("Region is required")
	}
	return nil
}
