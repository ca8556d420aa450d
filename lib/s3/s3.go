// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package s3 uploads files to object storage through the aws CLI.
//
// The pipeline only ever copies single files into buckets, so this
// wraps `aws s3 cp` instead of pulling in the SDK. CI runners already
// carry the CLI with ambient credentials; going through lib/run keeps
// the upload surface fake-able in tests.
package s3

import (
	"context"
	"fmt"

	"github.com/heliaxdev/devnet-bot/lib/run"
)

// Client copies files into S3 buckets.
type Client struct {
	runner run.Runner
}

// NewClient returns a Client that shells out through the given runner.
func NewClient(runner run.Runner) *Client {
	return &Client{runner: runner}
}

// Upload copies the file at path into the bucket, keyed by the file's
// base name.
func (c *Client) Upload(ctx context.Context, path, bucket string) error {
	return c.copy(ctx, path, bucket, nil)
}

// UploadPublic is Upload with a public-read ACL, for artifacts that
// unauthenticated nodes fetch directly (wasm modules).
func (c *Client) UploadPublic(ctx context.Context, path, bucket string) error {
	return c.copy(ctx, path, bucket, []string{"--acl", "public-read"})
}

func (c *Client) copy(ctx context.Context, path, bucket string, extra []string) error {
	args := append([]string{"s3", "cp", path, "s3://" + bucket}, extra...)
	if _, err := c.runner.Run(ctx, run.Command{Name: "aws", Args: args}); err != nil {
		return fmt.Errorf("uploading %s to s3://%s: %w", path, bucket, err)
	}
	return nil
}
