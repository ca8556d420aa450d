// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/heliaxdev/devnet-bot/lib/config"
	"github.com/heliaxdev/devnet-bot/lib/devnet"
	"github.com/heliaxdev/devnet-bot/lib/github"
	"github.com/heliaxdev/devnet-bot/lib/run"
	"github.com/heliaxdev/devnet-bot/lib/s3"
)

// templateFetchTimeout bounds the genesis template download. Templates
// are small TOML files served from raw.githubusercontent.com.
const templateFetchTimeout = 30 * time.Second

// pipelineFlags holds the flags shared by the pipeline commands.
type pipelineFlags struct {
	configPath string
	scratchDir string
}

func (f *pipelineFlags) flagSet(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&f.configPath, "config", "",
		"settings file (YAML); defaults to $"+config.EnvConfig+" when unset")
	flagSet.StringVar(&f.scratchDir, "scratch-dir", os.TempDir(),
		"directory for downloaded artifacts and generated files")
	return flagSet
}

// repoReader adapts the GitHub client to the pipeline's artifact
// listing shape by collecting the paginated listing up front. A PR has
// at most a few pages of artifacts, all of which the pipeline scans
// anyway.
type repoReader struct {
	*github.Client
}

func (r repoReader) ListArtifacts(ctx context.Context, owner, repo string, perPage int) ([]github.Artifact, error) {
	return r.Client.ListArtifacts(owner, repo, perPage).Collect(ctx)
}

// buildOptions loads settings and secrets from the environment and
// wires the dependencies every pipeline command shares: the two GitHub
// clients, object storage, and the subprocess runner. Spawn-specific
// dependencies are added by the spawn command.
func buildOptions(flags *pipelineFlags, logger *slog.Logger) (devnet.Options, error) {
	settings, err := config.Load(flags.configPath)
	if err != nil {
		return devnet.Options{}, err
	}

	secrets, err := config.ReadSecrets()
	if err != nil {
		return devnet.Options{}, err
	}

	repoClient, err := github.NewClient(github.Config{Token: secrets.Token, Logger: logger})
	if err != nil {
		return devnet.Options{}, fmt.Errorf("building repository client: %w", err)
	}

	orgClient, err := github.NewClient(github.Config{Token: secrets.ReadOrgToken, Logger: logger})
	if err != nil {
		return devnet.Options{}, fmt.Errorf("building org client: %w", err)
	}

	runner := run.Exec()
	return devnet.Options{
		Settings:   settings,
		Secrets:    secrets,
		Logger:     logger,
		ScratchDir: flags.scratchDir,
		Repo:       repoReader{repoClient},
		Org:        orgClient,
		Storage:    s3.NewClient(runner),
		Runner:     runner,
	}, nil
}
