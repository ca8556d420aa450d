// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// ListArtifacts returns an iterator over the repository's Actions
// artifacts, newest first, perPage items per fetch. The listing spans
// every workflow run; callers filter by name and head SHA.
func (client *Client) ListArtifacts(owner, repo string, perPage int) *PageIterator[Artifact] {
	path := fmt.Sprintf("/repos/%s/%s/actions/artifacts?per_page=%d", owner, repo, perPage)
	return &PageIterator[Artifact]{
		client:     client,
		nextURL:    client.baseURL + path,
		decodePage: envelopePage[Artifact]("artifacts"),
	}
}

// DownloadArtifactArchive streams the artifact's zip archive to
// destPath. GitHub answers the archive URL with a redirect to
// short-lived blob storage; the HTTP client follows it and drops the
// Authorization header on the cross-origin hop.
//
// Artifact archives are streamed with io.Copy rather than a bounded
// read: binaries bundles run to hundreds of megabytes.
func (client *Client) DownloadArtifactArchive(ctx context.Context, archiveURL, destPath string) error {
	response, err := client.doRaw(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return fmt.Errorf("downloading artifact archive: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading artifact archive: %w", parseAPIError(response))
	}

	destination, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", destPath, err)
	}

	if _, err := io.Copy(destination, response.Body); err != nil {
		destination.Close()
		return fmt.Errorf("writing artifact archive to %s: %w", destPath, err)
	}
	if err := destination.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", destPath, err)
	}
	return nil
}
