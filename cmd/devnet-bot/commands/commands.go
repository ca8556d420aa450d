// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the devnet-bot CLI command tree: the three
// pipeline commands (spawn, publish-wasm, update-wasm) plus version.
// Each pipeline command loads settings and secrets, wires the GitHub
// and storage clients, and hands off to [devnet.Pipeline].
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heliaxdev/devnet-bot/cmd/devnet-bot/cli"
	"github.com/heliaxdev/devnet-bot/lib/version"
)

// Root builds and returns the complete devnet-bot command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "devnet-bot",
		Description: `Devnet automation for Namada pull requests.

Operator comments on a pull request trigger GitHub Actions workflows
that invoke these commands with the event payload in GITHUB_CONTEXT.
The bot authorizes the commenter against the operator team, collects
the PR's build artifacts, and spawns throwaway devnets or refreshes
the published wasm files.`,
		Subcommands: []*cli.Command{
			spawnCommand(),
			publishWasmCommand(),
			updateWasmCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("devnet-bot %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Spawn a devnet for the PR named in GITHUB_CONTEXT",
				Command:     "devnet-bot spawn",
			},
			{
				Description: "Publish the PR's wasm files to the public bucket",
				Command:     "devnet-bot publish-wasm",
			},
			{
				Description: "Commit the PR's checksums manifest back to the repo",
				Command:     "devnet-bot update-wasm",
			},
		},
	}
}
