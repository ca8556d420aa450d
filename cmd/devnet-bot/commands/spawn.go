// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/pflag"

	"github.com/heliaxdev/devnet-bot/cmd/devnet-bot/cli"
	"github.com/heliaxdev/devnet-bot/lib/devnet"
	"github.com/heliaxdev/devnet-bot/lib/genesis"
	"github.com/heliaxdev/devnet-bot/lib/github"
)

// spawnCommand returns the "spawn" subcommand: the full devnet pipeline
// from a PR comment to the release dispatch.
func spawnCommand() *cli.Command {
	var flags pipelineFlags

	return &cli.Command{
		Name:    "spawn",
		Summary: "Spawn a devnet from a PR comment",
		Description: `Spawn a devnet for the pull request named in the triggering comment.

The comment carries a bracketed command naming the network template
and an optional retention period in days, e.g. "[devnet-lite, 14]".
The bot downloads the wasm and binaries artifacts built for the PR
head, publishes the wasm files, generates the genesis configuration
with init-network, uploads the chain data, and dispatches a release
event to the network configuration repository.

Comments from users outside the operator team are ignored: the
command exits successfully without doing anything.`,
		Usage: "devnet-bot spawn [flags]",
		Examples: []cli.Example{
			{
				Description: "Spawn with the default scratch directory",
				Command:     "devnet-bot spawn",
			},
			{
				Description: "Keep downloads on a larger volume",
				Command:     "devnet-bot spawn --scratch-dir /mnt/scratch",
			},
		},
		Flags: func() *pflag.FlagSet { return flags.flagSet("spawn") },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			options, err := buildOptions(&flags, logger.With("command", "spawn"))
			if err != nil {
				return err
			}

			// The dispatch token is optional for the other commands, so
			// its absence only surfaces here.
			if options.Secrets.DispatchToken == "" {
				return fmt.Errorf("GITHUB_DISPATCH_TOKEN must be set to dispatch the release event")
			}
			dispatchClient, err := github.NewClient(github.Config{
				Token:  options.Secrets.DispatchToken,
				Logger: options.Logger,
			})
			if err != nil {
				return fmt.Errorf("building dispatch client: %w", err)
			}
			options.Dispatch = dispatchClient

			httpClient := &http.Client{Timeout: templateFetchTimeout}
			options.Templates = func(ctx context.Context, url, destPath string) error {
				return genesis.FetchTemplate(ctx, httpClient, url, destPath)
			}
			options.Generator = genesis.NewGenerator(options.Runner, options.Logger)

			pipeline, err := devnet.New(options)
			if err != nil {
				return err
			}
			return pipeline.Run(ctx)
		},
	}
}
