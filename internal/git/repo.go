// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git is the VCS collaborator: it lists staged files with the
// metadata the grouping core needs, and stages and commits the path sets the
// orchestrator hands back.
package git

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/petar-djukic/commitloom/pkg/types"
)

const (
	authorName  = "commitloom"
	authorEmail = "noreply@commitloom"

	// binarySniffBytes is how much of a blob is inspected for NUL bytes.
	binarySniffBytes = 8000
)

// ErrNoGit is returned when the working directory is not a git repository.
var ErrNoGit = errors.New("not a git repository")

// ignoredPatterns excludes generated and lock files from analysis. Globs are
// fnmatch-style: * crosses path separators.
var ignoredPatterns = []string{
	"bun.lockb",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	".env",
	".env.*",
	"*.lock",
	"*.log",
	"__pycache__/*",
	"*.pyc",
	".DS_Store",
	"dist/*",
	"build/*",
	"node_modules/*",
	"*.min.js",
	"*.min.css",
}

// Config configures repository access.
type Config struct {
	WorkDir string // Repository working directory
}

// Repo wraps a go-git repository for the operations commitloom needs.
type Repo struct {
	repo *gogit.Repository
	cfg  Config
}

// Open opens an existing git repository at the configured work directory.
// Returns ErrNoGit if the directory is not a git repository.
func Open(cfg Config) (*Repo, error) {
	r, err := gogit.PlainOpen(cfg.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	return &Repo{repo: r, cfg: cfg}, nil
}

// StagedFiles lists the staged files with blob size and binary detection,
// filtered through the ignore patterns. Paths are sorted for reproducible
// grouping input.
func (r *Repo) StagedFiles() ([]types.GitFile, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("getting status: %w", err)
	}

	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	var files []types.GitFile
	for path, st := range status {
		if !isStaged(st.Staging) || ShouldIgnore(path) {
			continue
		}

		file := types.GitFile{Path: path}
		if entry, err := idx.Entry(path); err == nil {
			file.Size = int64(entry.Size)
			file.Hash = entry.Hash.String()
			file.Binary = r.blobIsBinary(entry.Hash)
		}
		files = append(files, file)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Stage adds the given paths to the index.
func (r *Repo) Stage(paths []string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	for _, p := range paths {
		if _, err := wt.Add(p); err != nil {
			return fmt.Errorf("staging %s: %w", p, err)
		}
	}
	return nil
}

// ResetStaged unstages everything, moving the index back to HEAD without
// touching the working tree.
func (r *Repo) ResetStaged() error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	if err := wt.Reset(&gogit.ResetOptions{Mode: gogit.MixedReset}); err != nil {
		return fmt.Errorf("resetting staged changes: %w", err)
	}
	return nil
}

// Commit creates a commit from the staged changes with the given title and
// body. Returns false without error when there was nothing to commit.
func (r *Repo) Commit(title, body string) (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	msg := title
	if body != "" {
		msg += "\n\n" + body
	}

	_, err = wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if errors.Is(err, gogit.ErrEmptyCommit) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("committing: %w", err)
	}
	return true, nil
}

// ShouldIgnore reports whether the path matches one of the ignore patterns.
func ShouldIgnore(path string) bool {
	path = strings.ReplaceAll(path, `\`, "/")
	for _, re := range ignoredREs {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

var ignoredREs = compileIgnorePatterns()

// compileIgnorePatterns translates the fnmatch-style globs into anchored
// regexps. A * matches any run of characters, including path separators.
func compileIgnorePatterns() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(ignoredPatterns))
	for _, pattern := range ignoredPatterns {
		var b strings.Builder
		b.WriteString(`^`)
		for _, r := range pattern {
			switch r {
			case '*':
				b.WriteString(`.*`)
			case '?':
				b.WriteString(`.`)
			default:
				b.WriteString(regexp.QuoteMeta(string(r)))
			}
		}
		b.WriteString(`$`)
		res = append(res, regexp.MustCompile(b.String()))
	}
	return res
}

// blobIsBinary sniffs the first bytes of the blob for NUL.
func (r *Repo) blobIsBinary(hash plumbing.Hash) bool {
	blob, err := r.repo.BlobObject(hash)
	if err != nil {
		return false
	}

	reader, err := blob.Reader()
	if err != nil {
		return false
	}
	defer reader.Close()

	buf := make([]byte, binarySniffBytes)
	n, err := io.ReadFull(reader, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}

// blobContents returns the full contents of an index blob.
func (r *Repo) blobContents(hash plumbing.Hash) (string, error) {
	blob, err := r.repo.BlobObject(hash)
	if err != nil {
		return "", err
	}

	reader, err := blob.Reader()
	if err != nil {
		return "", err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// headFileContents returns the committed contents of path at HEAD, or empty
// when the file does not exist there (newly added files).
func (r *Repo) headFileContents(path string) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		// Unborn HEAD: repository without commits.
		return "", nil
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("getting HEAD commit: %w", err)
	}

	f, err := commit.File(path)
	if errors.Is(err, object.ErrFileNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return f.Contents()
}

func isStaged(code gogit.StatusCode) bool {
	switch code {
	case gogit.Added, gogit.Modified, gogit.Deleted, gogit.Renamed, gogit.Copied:
		return true
	default:
		return false
	}
}
