// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package devnet

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/heliaxdev/devnet-bot/lib/git"
	"github.com/heliaxdev/devnet-bot/lib/trigger"
	"github.com/heliaxdev/devnet-bot/lib/wasm"
)

// checksumsCommitMessage marks the checksums bump so the push doesn't
// retrigger the workflow that produced it.
const checksumsCommitMessage = "[ci skip] wasm checksums update"

// RunPublishWasm executes the wasm refresh pipeline: authorize the
// commenting user, then download, unpack, and publish every wasm
// artifact matching the PR head. Zero matching artifacts is a
// success: the workflow may fire before the build has uploaded
// anything.
func (p *Pipeline) RunPublishWasm(ctx context.Context) error {
	if p.storage == nil {
		return fmt.Errorf("devnet: publish-wasm needs Storage")
	}

	trig, err := p.authorizedTrigger(ctx)
	if err != nil {
		return err
	}

	pr, err := p.repo.GetPullRequest(ctx, p.secrets.RepositoryOwner, p.settings.GitHub.Repository, trig.IssueNumber)
	if err != nil {
		return err
	}

	processed, err := p.walkArtifacts(ctx, pr.Head.SHA, []string{artifactKindWasm},
		func(ctx context.Context, _ string) error {
			return p.publishWasm(ctx)
		})
	if err != nil {
		return err
	}

	p.logger.Info("wasm publication finished", "artifacts", processed)
	return nil
}

// RunUpdateWasm executes the checksums refresh pipeline: authorize,
// download and unpack the wasm artifact for the PR head, move its
// checksums manifest into the checked-out repository's wasm/
// directory, and commit and push when the manifest changed.
func (p *Pipeline) RunUpdateWasm(ctx context.Context) error {
	if p.runner == nil {
		return fmt.Errorf("devnet: update-wasm needs a Runner")
	}

	trig, err := p.authorizedTrigger(ctx)
	if err != nil {
		return err
	}

	pr, err := p.repo.GetPullRequest(ctx, p.secrets.RepositoryOwner, p.settings.GitHub.Repository, trig.IssueNumber)
	if err != nil {
		return err
	}

	processed, err := p.walkArtifacts(ctx, pr.Head.SHA, []string{artifactKindWasm},
		func(ctx context.Context, _ string) error {
			return p.commitChecksums(ctx)
		})
	if err != nil {
		return err
	}

	p.logger.Info("checksums update finished", "artifacts", processed)
	return nil
}

// authorizedTrigger decodes the workflow context and runs the team
// membership gate, shared by the two wasm operations.
func (p *Pipeline) authorizedTrigger(ctx context.Context) (*trigger.Trigger, error) {
	trig, err := trigger.Decode([]byte(p.secrets.Context))
	if err != nil {
		return nil, fmt.Errorf("decoding workflow context: %w", err)
	}
	if err := p.authorize(ctx, trig.Sender); err != nil {
		return nil, err
	}
	return trig, nil
}

// commitChecksums moves the freshly unpacked manifest into the
// repository the workflow checked out (the working directory) and
// pushes it when it differs from what is committed.
func (p *Pipeline) commitChecksums(ctx context.Context) error {
	source := filepath.Join(p.scratch, wasm.ChecksumsFile)
	dest := filepath.Join("wasm", wasm.ChecksumsFile)
	if err := moveFile(source, dest); err != nil {
		return fmt.Errorf("moving checksums manifest into the worktree: %w", err)
	}

	repo := git.NewRepository(".", p.runner)

	changed, err := repo.HasChanges(ctx)
	if err != nil {
		return err
	}
	if !changed {
		p.logger.Info("checksums manifest unchanged, nothing to push")
		return nil
	}

	if err := repo.Add(ctx, dest); err != nil {
		return err
	}
	if err := repo.Commit(ctx, checksumsCommitMessage); err != nil {
		return err
	}
	if err := repo.Push(ctx); err != nil {
		return err
	}

	p.logger.Info("pushed checksums update", "path", dest)
	return nil
}

// moveFile renames src to dest, falling back to copy-and-remove when
// rename fails. The scratch directory is commonly a tmpfs on a
// different filesystem from the worktree, where rename cannot work.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	input, err := os.Open(src)
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(output, input); err != nil {
		output.Close()
		return err
	}
	if err := output.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
