// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/commitloom/pkg/types"
)

func TestEstimateTokensAndCost(t *testing.T) {
	a := New(Config{})

	tokens, cost := a.EstimateTokensAndCost(strings.Repeat("x", 400))

	assert.Equal(t, 100, tokens)
	assert.InDelta(t, 100*0.15/1_000_000, cost, 1e-12)
}

func TestAnalyzeDiff_NoWarningsForSmallChange(t *testing.T) {
	a := New(Config{})

	analysis := a.AnalyzeDiff("diff --git a/a.py b/a.py\n+x = 1\n", []types.GitFile{{Path: "a.py"}})

	assert.Empty(t, analysis.Warnings)
	assert.False(t, analysis.IsComplex)
	assert.Equal(t, 1, analysis.NumFiles)
}

func TestAnalyzeDiff_TokenLimitWarning(t *testing.T) {
	a := New(Config{TokenLimit: 100})

	analysis := a.AnalyzeDiff(strings.Repeat("x", 500), nil)

	require.NotEmpty(t, analysis.Warnings)
	assert.Equal(t, LevelHigh, analysis.Warnings[0].Level)
	assert.Contains(t, analysis.Warnings[0].Message, "token limit")
	assert.True(t, analysis.IsComplex)
}

func TestAnalyzeDiff_TooManyFilesWarning(t *testing.T) {
	a := New(Config{MaxFilesThreshold: 2})

	files := []types.GitFile{{Path: "a.py"}, {Path: "b.py"}, {Path: "c.py"}}
	analysis := a.AnalyzeDiff("", files)

	require.Len(t, analysis.Warnings, 1)
	assert.Contains(t, analysis.Warnings[0].Message, "3 files")
	assert.True(t, analysis.IsComplex)
}

func TestAnalyzeDiff_PerFileTokenWarning(t *testing.T) {
	a := New(Config{TokenLimit: 100})

	bigFileDiff := "diff --git a/big.py b/big.py\n" + strings.Repeat("+pad\n", 100)
	analysis := a.AnalyzeDiff(bigFileDiff, []types.GitFile{{Path: "big.py"}})

	found := false
	for _, w := range analysis.Warnings {
		if strings.Contains(w.Message, "File big.py is too large") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyzeDiff_MissingFileSliceSkipped(t *testing.T) {
	a := New(Config{})

	// logo.png has no text diff section; analysis must not warn or fail.
	analysis := a.AnalyzeDiff("Binary files changed:\n- logo.png (1 kB)\n", []types.GitFile{{Path: "logo.png", Binary: true}})

	assert.Empty(t, analysis.Warnings)
}

func TestSliceFileDiff(t *testing.T) {
	diff := "diff --git a/a.py b/a.py\n+a\ndiff --git a/b.py b/b.py\n+b\n"

	aSlice, ok := sliceFileDiff(diff, "a.py")
	require.True(t, ok)
	assert.Contains(t, aSlice, "+a")
	assert.NotContains(t, aSlice, "+b")

	bSlice, ok := sliceFileDiff(diff, "b.py")
	require.True(t, ok)
	assert.Contains(t, bSlice, "+b")

	_, ok = sliceFileDiff(diff, "c.py")
	assert.False(t, ok)
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "€1.50", FormatCost(1.5))
	assert.Equal(t, "5.00¢", FormatCost(0.05))
	assert.Equal(t, "0.10¢", FormatCost(0.0001))
}

func TestCostContext(t *testing.T) {
	assert.Equal(t, "very expensive", CostContext(0.2))
	assert.Equal(t, "expensive", CostContext(0.06))
	assert.Equal(t, "moderate", CostContext(0.02))
	assert.Equal(t, "cheap", CostContext(0.005))
	assert.Equal(t, "very cheap", CostContext(0.0001))
}
