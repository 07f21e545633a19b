// Package vcs resolves git authorship for ingested issues.
package vcs

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/driftline/driftline/pkg/models"
)

// Annotator blames files at HEAD and attaches authors to issues. Blame
// results are cached per file, so a report with many issues in one file
// costs a single blame.
type Annotator struct {
	repo  *git.Repository
	head  *object.Commit
	cache map[string]*git.BlameResult
}

// NewAnnotator opens the repository containing path, detecting .git in
// parent directories the way git itself does.
func NewAnnotator(path string) (*Annotator, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}
	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	head, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("load HEAD commit: %w", err)
	}
	return &Annotator{
		repo:  repo,
		head:  head,
		cache: make(map[string]*git.BlameResult),
	}, nil
}

// Author returns the author of a file's line at HEAD. file is relative
// to the repository root; line is 1-based.
func (a *Annotator) Author(file string, line int) (string, error) {
	blame, err := a.blame(file)
	if err != nil {
		return "", err
	}
	if line < 1 || line > len(blame.Lines) {
		return "", fmt.Errorf("%s has no line %d", file, line)
	}
	return blame.Lines[line-1].Author, nil
}

// Annotate fills the Author of each issue from blame at the issue's
// first line. Issues in files that cannot be blamed (deleted, renamed,
// not tracked) are passed through unannotated rather than failing the
// whole ingest.
func (a *Annotator) Annotate(issues []models.Issue) []models.Issue {
	out := make([]models.Issue, len(issues))
	for i, issue := range issues {
		out[i] = issue
		author, err := a.Author(issue.File, issue.StartLine)
		if err != nil {
			continue
		}
		out[i].Author = author
	}
	return out
}

func (a *Annotator) blame(file string) (*git.BlameResult, error) {
	if cached, ok := a.cache[file]; ok {
		if cached == nil {
			return nil, fmt.Errorf("blame %s previously failed", file)
		}
		return cached, nil
	}
	blame, err := git.Blame(a.head, file)
	if err != nil {
		a.cache[file] = nil
		return nil, fmt.Errorf("blame %s: %w", file, err)
	}
	a.cache[file] = blame
	return blame, nil
}
