// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package loom

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/commitloom/internal/console"
	"github.com/petar-djukic/commitloom/pkg/types"
)

// mockSuggester returns a fixed suggestion for every diff.
type mockSuggester struct {
	calls int
}

func (m *mockSuggester) GenerateSuggestion(ctx context.Context, diff string, files []types.GitFile) (*types.CommitSuggestion, types.TokenUsage, error) {
	m.calls++
	return &types.CommitSuggestion{
		Title: "✨ feat: update files",
		Body: map[string]types.CategoryChanges{
			"Features": {Emoji: "✨", Changes: []string{"✨ Updated files"}},
		},
		Summary: "Updates files.",
	}, types.TokenUsage{InputTokens: 100, OutputTokens: 25}, nil
}

// initWorkRepo creates a git repository with one initial commit.
func initWorkRepo(t *testing.T) (string, *gogit.Repository) {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	path := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(path, []byte("# project\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com"},
	})
	require.NoError(t, err)

	return dir, repo
}

func stageFile(t *testing.T, dir string, repo *gogit.Repository, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(rel)
	require.NoError(t, err)
}

func newTestRunner(workDir string, suggester Suggester, combine bool) (*Runner, *bytes.Buffer) {
	color.NoColor = true
	var out bytes.Buffer
	ui := console.NewWithIO(&out, strings.NewReader(""))
	return NewRunner(Deps{
		Suggester:   suggester,
		UI:          ui,
		WorkDir:     workDir,
		AutoConfirm: true,
		Combine:     combine,
	}), &out
}

func TestRun_NoChanges(t *testing.T) {
	dir, _ := initWorkRepo(t)
	runner, _ := newTestRunner(dir, &mockSuggester{}, false)

	_, err := runner.Run(context.Background())

	assert.ErrorIs(t, err, ErrNoChanges)
}

func TestRun_NotARepository(t *testing.T) {
	runner, _ := newTestRunner(t.TempDir(), &mockSuggester{}, false)

	_, err := runner.Run(context.Background())

	assert.Error(t, err)
}

func TestRun_CommitsStagedChanges(t *testing.T) {
	dir, repo := initWorkRepo(t)
	stageFile(t, dir, repo, "src/auth.py", "def login():\n    pass\n")
	stageFile(t, dir, repo, "src/db.py", "def connect():\n    pass\n")

	suggester := &mockSuggester{}
	runner, out := newTestRunner(dir, suggester, false)

	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Files)
	assert.GreaterOrEqual(t, result.Groups, 1)
	assert.GreaterOrEqual(t, result.Commits, 1)
	assert.True(t, result.Success)
	assert.Equal(t, result.Groups, suggester.calls)
	assert.Positive(t, result.TokensUsed.TotalTokens())

	assert.Contains(t, out.String(), "Analyzing your changes")
	assert.Contains(t, out.String(), "src/auth.py")

	// The repository gained commits beyond the initial one.
	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "✨ feat: update files", strings.SplitN(commit.Message, "\n", 2)[0])
}

func TestRun_SmallGroupThresholdApplied(t *testing.T) {
	dir, repo := initWorkRepo(t)
	stageFile(t, dir, repo, "src/auth.py", "def login():\n    pass\n")
	stageFile(t, dir, repo, "src/db.py", "def connect():\n    pass\n")

	color.NoColor = true
	var out bytes.Buffer
	runner := NewRunner(Deps{
		Suggester:           &mockSuggester{},
		UI:                  console.NewWithIO(&out, strings.NewReader("")),
		WorkDir:             dir,
		SmallGroupThreshold: 1,
		AutoConfirm:         true,
	})

	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	// A two-file bucket exceeds a threshold of 1, so it splits by module
	// instead of committing as one "All ... changes" group.
	assert.Contains(t, out.String(), "changes in src module")
	assert.NotContains(t, out.String(), "All refactor changes")
}

func TestRun_TokenLimitApplied(t *testing.T) {
	dir, repo := initWorkRepo(t)
	stageFile(t, dir, repo, "src/auth.py", "def login():\n    pass\n")

	color.NoColor = true
	var out bytes.Buffer
	runner := NewRunner(Deps{
		Suggester:   &mockSuggester{},
		UI:          console.NewWithIO(&out, strings.NewReader("")),
		WorkDir:     dir,
		TokenLimit:  1,
		AutoConfirm: true,
	})

	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "exceeds token limit")
}

func TestRun_NoGrouping(t *testing.T) {
	dir, repo := initWorkRepo(t)
	stageFile(t, dir, repo, "src/auth.py", "def login():\n    pass\n")
	stageFile(t, dir, repo, "docs/guide.md", "# Guide\n")

	color.NoColor = true
	var out bytes.Buffer
	suggester := &mockSuggester{}
	runner := NewRunner(Deps{
		Suggester:   suggester,
		UI:          console.NewWithIO(&out, strings.NewReader("")),
		WorkDir:     dir,
		NoGrouping:  true,
		AutoConfirm: true,
	})

	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	// Files that would normally split into separate groups land in one.
	assert.Equal(t, 1, result.Groups)
	assert.Equal(t, 1, suggester.calls)
	assert.Contains(t, out.String(), "All staged changes")
}

func TestRun_CombinedCommit(t *testing.T) {
	dir, repo := initWorkRepo(t)
	stageFile(t, dir, repo, "src/auth.py", "def login():\n    pass\n")
	stageFile(t, dir, repo, "docs/guide.md", "# Guide\n")

	runner, _ := newTestRunner(dir, &mockSuggester{}, true)

	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	require.True(t, result.Success)

	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Contains(t, commit.Message, "📦 chore: combine multiple changes")
}

func TestRun_CombinedCommitDeclined(t *testing.T) {
	dir, repo := initWorkRepo(t)
	stageFile(t, dir, repo, "src/auth.py", "def login():\n    pass\n")
	stageFile(t, dir, repo, "docs/guide.md", "# Guide\n")

	color.NoColor = true
	var out bytes.Buffer
	// Interactive combined mode; "n" declines the combined commit.
	runner := NewRunner(Deps{
		Suggester: &mockSuggester{},
		UI:        console.NewWithIO(&out, strings.NewReader("n\n")),
		WorkDir:   dir,
		Combine:   true,
	})

	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Commits)
	assert.False(t, result.Success)

	// HEAD is still the initial commit.
	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "initial", commit.Message)
}
