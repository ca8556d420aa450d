// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package git provides typed access to the git CLI for the checksums
// update flow: checking working-tree state, staging, committing, and
// pushing. All commands target a specific repository directory via the
// -C flag, which is automatically injected by all Repository methods.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/heliaxdev/devnet-bot/lib/run"
)

// Repository represents a git repository at a specific directory. All
// operations target this directory via "git -C <dir>". There is no
// default directory: callers must always specify which repository
// they mean.
type Repository struct {
	dir    string
	runner run.Runner
}

// NewRepository returns a Repository targeting the given working tree.
func NewRepository(dir string, runner run.Runner) *Repository {
	return &Repository{dir: dir, runner: runner}
}

// Dir returns the repository directory.
func (r *Repository) Dir() string {
	return r.dir
}

// HasChanges reports whether the working tree differs from HEAD,
// using the stable porcelain status format. An empty status means
// there is nothing to commit.
func (r *Repository) HasChanges(ctx context.Context) (bool, error) {
	stdout, err := r.git(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return len(strings.TrimSpace(stdout)) > 0, nil
}

// Add stages the given path.
func (r *Repository) Add(ctx context.Context, path string) error {
	_, err := r.git(ctx, "add", path)
	return err
}

// Commit records the staged changes with the given message.
func (r *Repository) Commit(ctx context.Context, message string) error {
	_, err := r.git(ctx, "commit", "-m", message)
	return err
}

// Push publishes the current branch to its configured upstream.
func (r *Repository) Push(ctx context.Context) error {
	_, err := r.git(ctx, "push")
	return err
}

// git executes a git command targeting this repository and returns
// stdout. The runner includes trimmed stderr in error messages on
// failure.
func (r *Repository) git(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", r.dir}, args...)
	result, err := r.runner.Run(ctx, run.Command{Name: "git", Args: fullArgs})
	if err != nil {
		return "", fmt.Errorf("git %s in %s: %w", strings.Join(args, " "), r.dir, err)
	}
	return string(result.Stdout), nil
}
