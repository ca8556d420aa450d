// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package wasm reads the build's checksums manifest and publishes the
// wasm binaries it names to the public wasm bucket.
package wasm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/heliaxdev/devnet-bot/lib/binhash"
)

// ChecksumsFile is the manifest name carried inside the wasm artifact.
// The wasm archive is unpacked into the scratch directory, so the
// manifest lands at <scratch>/checksums.json where both the publish and
// genesis steps read it.
const ChecksumsFile = "checksums.json"

// ReadChecksums loads a wasm checksums manifest: a JSON object mapping
// source names to their checksummed wasm file names, e.g.
// {"tx_transfer.wasm": "tx_transfer.4bc31c.wasm"}.
func ReadChecksums(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading checksums manifest: %w", err)
	}
	var manifest map[string]string
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing checksums manifest %s: %w", path, err)
	}
	return manifest, nil
}

// Uploader publishes a local file to a bucket with public-read access.
type Uploader interface {
	UploadPublic(ctx context.Context, path, bucket string) error
}

// Publisher uploads built wasm binaries to the wasm bucket.
type Publisher struct {
	uploader Uploader
	logger   *slog.Logger
}

// NewPublisher returns a Publisher sending files through uploader.
func NewPublisher(uploader Uploader, logger *slog.Logger) *Publisher {
	return &Publisher{uploader: uploader, logger: logger}
}

// Publish uploads every wasm file named by the manifest values from dir
// to bucket, in sorted order. An individual upload failure is logged
// and counted but does not stop the remaining uploads: a devnet can
// still come up against a partially refreshed wasm set, and the genesis
// steps that follow must not be blocked on it. Returns the number of
// failed uploads.
func (p *Publisher) Publish(ctx context.Context, manifest map[string]string, dir, bucket string) int {
	names := make([]string, 0, len(manifest))
	for _, name := range manifest {
		names = append(names, name)
	}
	slices.Sort(names)

	failed := 0
	for _, name := range names {
		path := filepath.Join(dir, name)

		digest, err := binhash.Digest(path)
		if err != nil {
			p.logger.Error("hashing wasm file failed", "file", name, "error", err)
			failed++
			continue
		}

		p.logger.Info("uploading wasm file", "file", name, "sha256", digest, "bucket", bucket)
		if err := p.uploader.UploadPublic(ctx, path, bucket); err != nil {
			p.logger.Error("uploading wasm file failed", "file", name, "error", err)
			failed++
		}
	}
	return failed
}
