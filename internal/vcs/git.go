// Package vcs applies generated commit messages to a git repository.
package vcs

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var (
	// ErrNothingStaged means the index matches HEAD, so there is nothing to commit.
	ErrNothingStaged = errors.New("no staged changes to commit")
	// ErrNoIdentity means user.name or user.email is missing from git config.
	ErrNoIdentity = errors.New("git user.name and user.email must be configured")
)

// Repo is an opened repository.
type Repo struct {
	repo *git.Repository
	root string
}

// Open finds the repository containing path, walking up to the .git directory.
func Open(path string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	return &Repo{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Root returns the worktree root.
func (r *Repo) Root() string {
	return r.root
}

// StagedFiles lists the paths whose index state differs from HEAD, sorted.
func (r *Repo) StagedFiles() ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	var files []string
	for path, s := range status {
		if s.Staging != git.Unmodified && s.Staging != git.Untracked {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Identity returns the committer identity from local and global git config.
func (r *Repo) Identity() (name, email string, err error) {
	cfg, err := r.repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		return "", "", fmt.Errorf("failed to read git config: %w", err)
	}
	if cfg.User.Name == "" || cfg.User.Email == "" {
		return "", "", ErrNoIdentity
	}
	return cfg.User.Name, cfg.User.Email, nil
}

// Commit records the staged changes with message and returns the new commit hash.
func (r *Repo) Commit(message string) (string, error) {
	staged, err := r.StagedFiles()
	if err != nil {
		return "", err
	}
	if len(staged) == 0 {
		return "", ErrNothingStaged
	}

	name, email, err := r.Identity()
	if err != nil {
		return "", err
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: name, Email: email, When: time.Now()},
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return hash.String(), nil
}
