// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/heliaxdev/devnet-bot/cmd/devnet-bot/cli"
	"github.com/heliaxdev/devnet-bot/lib/devnet"
)

// publishWasmCommand returns the "publish-wasm" subcommand: refresh the
// public wasm bucket from the PR's build artifacts.
func publishWasmCommand() *cli.Command {
	var flags pipelineFlags

	return &cli.Command{
		Name:    "publish-wasm",
		Summary: "Publish built wasm files to the public bucket",
		Description: `Download the wasm artifact built for the triggering PR's head commit
and upload every file named in its checksums manifest to the public
wasm bucket.

A PR whose build has not produced a wasm artifact yet is not an
error: the command succeeds without uploading anything.`,
		Usage: "devnet-bot publish-wasm [flags]",
		Examples: []cli.Example{
			{
				Description: "Publish wasm files for the triggering PR",
				Command:     "devnet-bot publish-wasm",
			},
		},
		Flags: func() *pflag.FlagSet { return flags.flagSet("publish-wasm") },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			options, err := buildOptions(&flags, logger.With("command", "publish-wasm"))
			if err != nil {
				return err
			}

			pipeline, err := devnet.New(options)
			if err != nil {
				return err
			}
			return pipeline.RunPublishWasm(ctx)
		},
	}
}

// updateWasmCommand returns the "update-wasm" subcommand: commit the
// PR's freshly built checksums manifest back to the repository.
func updateWasmCommand() *cli.Command {
	var flags pipelineFlags

	return &cli.Command{
		Name:    "update-wasm",
		Summary: "Commit the PR's wasm checksums manifest",
		Description: `Download the wasm artifact built for the triggering PR's head commit
and move its checksums manifest into wasm/checksums.json in the
checked-out repository (the working directory). When the manifest
differs from what is committed, stage, commit, and push it with a
"[ci skip]" message so the push does not retrigger the build.`,
		Usage: "devnet-bot update-wasm [flags]",
		Examples: []cli.Example{
			{
				Description: "Refresh wasm/checksums.json in the current checkout",
				Command:     "devnet-bot update-wasm",
			},
		},
		Flags: func() *pflag.FlagSet { return flags.flagSet("update-wasm") },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			options, err := buildOptions(&flags, logger.With("command", "update-wasm"))
			if err != nil {
				return err
			}

			pipeline, err := devnet.New(options)
			if err != nil {
				return err
			}
			return pipeline.RunUpdateWasm(ctx)
		},
	}
}
