// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package devnet

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/heliaxdev/devnet-bot/lib/archive"
)

// Artifact kinds, matched as substrings of artifact names. The build
// workflow names its outputs along the lines of "namada-wasm-<sha>"
// and "namada-binaries-<sha>".
const (
	artifactKindWasm     = "wasm"
	artifactKindBinaries = "binaries"
)

// walkArtifacts scans the repository's full artifact listing and, for
// every artifact whose name contains one of the kind substrings, whose
// workflow run matches headSHA, and which has not expired: downloads
// the archive to <scratch>/<kind>.zip, unpacks it into the scratch
// directory, and invokes onUnpacked. Returns the number of artifacts
// processed; the first failing download, unpack, or callback aborts
// the walk.
func (p *Pipeline) walkArtifacts(ctx context.Context, headSHA string, kinds []string, onUnpacked func(ctx context.Context, kind string) error) (int, error) {
	artifacts, err := p.repo.ListArtifacts(ctx, p.secrets.RepositoryOwner, p.settings.GitHub.Repository, p.settings.GitHub.ArtifactsPerPage)
	if err != nil {
		return 0, fmt.Errorf("listing artifacts: %w", err)
	}

	processed := 0
	for _, artifact := range artifacts {
		kind, ok := matchKind(artifact.Name, kinds)
		if !ok || artifact.WorkflowRun.HeadSHA != headSHA || artifact.Expired {
			continue
		}

		archivePath := filepath.Join(p.scratch, kind+".zip")
		p.logger.Info("downloading artifact",
			"artifact", artifact.Name,
			"kind", kind,
			"size_bytes", artifact.SizeInBytes)
		if err := p.repo.DownloadArtifactArchive(ctx, artifact.ArchiveDownloadURL, archivePath); err != nil {
			return processed, fmt.Errorf("downloading %s artifact: %w", kind, err)
		}

		if err := archive.Unzip(archivePath, p.scratch); err != nil {
			return processed, fmt.Errorf("unpacking %s artifact: %w", kind, err)
		}

		if onUnpacked != nil {
			if err := onUnpacked(ctx, kind); err != nil {
				return processed, err
			}
		}

		processed++
		p.logger.Info("artifact processed", "artifact", artifact.Name, "kind", kind)
	}
	return processed, nil
}

// matchKind returns the first kind that is a substring of the artifact
// name. Kinds are checked in order, so with both kinds requested an
// artifact whose name mentions wasm and binaries counts as wasm.
func matchKind(name string, kinds []string) (string, bool) {
	for _, kind := range kinds {
		if strings.Contains(name, kind) {
			return kind, true
		}
	}
	return "", false
}
