// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package devnet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/heliaxdev/devnet-bot/lib/archive"
	"github.com/heliaxdev/devnet-bot/lib/binhash"
	"github.com/heliaxdev/devnet-bot/lib/config"
	"github.com/heliaxdev/devnet-bot/lib/genesis"
	"github.com/heliaxdev/devnet-bot/lib/github"
	"github.com/heliaxdev/devnet-bot/lib/run"
	"github.com/heliaxdev/devnet-bot/lib/trigger"
	"github.com/heliaxdev/devnet-bot/lib/wasm"
)

// ErrUnauthorized reports that the commenting user is not an active
// member of the operator team. The command layer turns it into a
// silent success exit so drive-by comments never fail the workflow.
var ErrUnauthorized = errors.New("user is not an active team member")

// templateFile is where the fetched genesis template lands in the
// scratch directory; init-network reads it from there.
const templateFile = "template.toml"

// RepoReader is the slice of the GitHub API read with the workflow
// token: the pull request head and the artifact listing.
type RepoReader interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error)
	ListArtifacts(ctx context.Context, owner, repo string, perPage int) ([]github.Artifact, error)
	DownloadArtifactArchive(ctx context.Context, url, destPath string) error
}

// MembershipReader checks team membership with the org-read token.
type MembershipReader interface {
	GetTeamMembership(ctx context.Context, org, teamSlug, username string) (*github.TeamMembership, error)
}

// Dispatcher sends repository-dispatch events with the dispatch token.
type Dispatcher interface {
	CreateRepositoryDispatch(ctx context.Context, owner, repo string, request github.DispatchRequest) error
}

// Storage uploads local files to object-storage buckets.
type Storage interface {
	Upload(ctx context.Context, path, bucket string) error
	UploadPublic(ctx context.Context, path, bucket string) error
}

// TemplateFetcher downloads a genesis template URL to a local path.
type TemplateFetcher func(ctx context.Context, url, destPath string) error

// Generator produces the genesis configuration for a chain.
type Generator interface {
	Generate(ctx context.Context, params genesis.Params) (genesis.Paths, error)
}

// Options assembles a Pipeline. Settings, Secrets, Logger, ScratchDir,
// and the Org and Repo clients are needed by every pipeline; Storage by
// spawn and publish-wasm; Runner by update-wasm; Dispatch, Templates,
// and Generator by spawn only.
type Options struct {
	Settings   *config.Settings
	Secrets    config.Secrets
	Logger     *slog.Logger
	ScratchDir string

	Repo      RepoReader
	Org       MembershipReader
	Dispatch  Dispatcher
	Storage   Storage
	Runner    run.Runner
	Templates TemplateFetcher
	Generator Generator
}

// Pipeline runs the devnet operations against a fixed set of
// dependencies. One Pipeline serves one CI invocation.
type Pipeline struct {
	settings *config.Settings
	secrets  config.Secrets
	logger   *slog.Logger
	scratch  string

	repo      RepoReader
	org       MembershipReader
	dispatch  Dispatcher
	storage   Storage
	runner    run.Runner
	templates TemplateFetcher
	generator Generator
}

// New validates the dependencies every pipeline shares and returns a
// Pipeline. Operation-specific dependencies are checked by the
// operation that needs them.
func New(options Options) (*Pipeline, error) {
	switch {
	case options.Settings == nil:
		return nil, fmt.Errorf("devnet: Options.Settings is required")
	case options.Logger == nil:
		return nil, fmt.Errorf("devnet: Options.Logger is required")
	case options.ScratchDir == "":
		return nil, fmt.Errorf("devnet: Options.ScratchDir is required")
	case options.Repo == nil:
		return nil, fmt.Errorf("devnet: Options.Repo is required")
	case options.Org == nil:
		return nil, fmt.Errorf("devnet: Options.Org is required")
	}

	return &Pipeline{
		settings:  options.Settings,
		secrets:   options.Secrets,
		logger:    options.Logger,
		scratch:   options.ScratchDir,
		repo:      options.Repo,
		org:       options.Org,
		dispatch:  options.Dispatch,
		storage:   options.Storage,
		runner:    options.Runner,
		templates: options.Templates,
		generator: options.Generator,
	}, nil
}

// Run executes the spawn pipeline: authorize, parse the comment
// command, download the wasm and binaries artifacts for the PR head,
// publish the wasm files, generate the genesis configuration, publish
// the chain data, and dispatch the release event.
func (p *Pipeline) Run(ctx context.Context) error {
	switch {
	case p.dispatch == nil:
		return fmt.Errorf("devnet: spawn needs a Dispatcher")
	case p.storage == nil:
		return fmt.Errorf("devnet: spawn needs Storage")
	case p.templates == nil:
		return fmt.Errorf("devnet: spawn needs a TemplateFetcher")
	case p.generator == nil:
		return fmt.Errorf("devnet: spawn needs a Generator")
	}

	trig, err := p.authorizedTrigger(ctx)
	if err != nil {
		return err
	}

	command, err := trigger.ParseCommand(trig.CommentBody)
	if err != nil {
		return fmt.Errorf("parsing comment command: %w", err)
	}

	p.logger.Info("spawn requested",
		"user", trig.Sender,
		"pr", trig.IssueNumber,
		"template", command.Template,
		"retention_days", command.RetentionDays)

	pr, err := p.repo.GetPullRequest(ctx, p.secrets.RepositoryOwner, p.settings.GitHub.Repository, trig.IssueNumber)
	if err != nil {
		return err
	}
	headSHA := pr.Head.SHA

	processed, err := p.walkArtifacts(ctx, headSHA, []string{artifactKindWasm, artifactKindBinaries},
		func(ctx context.Context, kind string) error {
			if kind != artifactKindWasm {
				return nil
			}
			return p.publishWasm(ctx)
		})
	if err != nil {
		return err
	}
	if processed != 2 {
		return fmt.Errorf("found %d matching artifact(s) for commit %s, need exactly one wasm and one binaries", processed, headSHA)
	}

	paths, err := p.generateGenesis(ctx, command.Template, headSHA)
	if err != nil {
		return err
	}

	chainID, err := genesis.DeriveChainID(paths.GenesisFolder)
	if err != nil {
		return err
	}

	if err := p.publishChainData(ctx, chainID, paths.ReleaseArchive); err != nil {
		return err
	}

	if err := p.dispatchRelease(ctx, chainID); err != nil {
		return err
	}

	p.logger.Info("devnet spawned",
		"chain_id", chainID,
		"template", command.Template,
		"retention_days", command.RetentionDays)
	return nil
}

// authorize checks the commenting user's membership in the operator
// team. A missing membership (404) or any state other than active
// yields ErrUnauthorized; other API failures surface as errors so an
// API outage can't be mistaken for a rejection.
func (p *Pipeline) authorize(ctx context.Context, username string) error {
	membership, err := p.org.GetTeamMembership(ctx, p.settings.GitHub.Org, p.settings.GitHub.Team, username)
	if err != nil {
		if github.IsNotFound(err) {
			p.logger.Info("user is not a team member", "user", username)
			return ErrUnauthorized
		}
		return fmt.Errorf("checking team membership for %s: %w", username, err)
	}
	if membership.State != github.MembershipActive {
		p.logger.Info("user's team membership is not active", "user", username, "state", membership.State)
		return ErrUnauthorized
	}
	return nil
}

// publishWasm reads the unpacked checksums manifest and uploads every
// wasm file it names to the public wasm bucket. Per-file upload
// failures are logged by the publisher and tolerated; a genesis built
// against a partially refreshed bucket is still worth having.
func (p *Pipeline) publishWasm(ctx context.Context) error {
	manifest, err := wasm.ReadChecksums(filepath.Join(p.scratch, wasm.ChecksumsFile))
	if err != nil {
		return err
	}

	publisher := wasm.NewPublisher(p.storage, p.logger)
	if failed := publisher.Publish(ctx, manifest, p.scratch, p.settings.Buckets.Wasm); failed > 0 {
		p.logger.Warn("wasm uploads incomplete", "failed", failed, "total", len(manifest))
	}
	return nil
}

// generateGenesis fetches the named template into the scratch directory
// and runs init-network over the unpacked binaries and checksums.
func (p *Pipeline) generateGenesis(ctx context.Context, templateName, headSHA string) (genesis.Paths, error) {
	url := genesis.TemplateURL(p.secrets.RepositoryOwner, p.settings.GitHub.TemplatesRepository, templateName)
	templatePath := filepath.Join(p.scratch, templateFile)
	if err := p.templates(ctx, url, templatePath); err != nil {
		return genesis.Paths{}, err
	}

	return p.generator.Generate(ctx, genesis.Params{
		BinaryPath:    filepath.Join(p.scratch, p.settings.Chain.Binary),
		ChainPrefix:   p.settings.Chain.Prefix + "-" + shortSHA(headSHA),
		TemplatePath:  templatePath,
		ChecksumsPath: filepath.Join(p.scratch, wasm.ChecksumsFile),
	})
}

// publishChainData zips the setup folder under the chain ID and uploads
// it together with the release archive to the private chain-data
// bucket.
func (p *Pipeline) publishChainData(ctx context.Context, chainID, releaseArchive string) error {
	setupZip := filepath.Join(p.scratch, chainID+".zip")
	if err := archive.ZipDirectory(p.settings.Chain.SetupFolder, setupZip); err != nil {
		return fmt.Errorf("packaging %s: %w", p.settings.Chain.SetupFolder, err)
	}

	for _, path := range []string{setupZip, releaseArchive} {
		digest, err := binhash.Digest(path)
		if err != nil {
			return err
		}
		p.logger.Info("uploading chain data",
			"file", filepath.Base(path),
			"sha256", digest,
			"bucket", p.settings.Buckets.ChainData)
		if err := p.storage.Upload(ctx, path, p.settings.Buckets.ChainData); err != nil {
			return err
		}
	}
	return nil
}

// dispatchRelease notifies the network configuration repository that
// the chain's data is published. The payload shape is a contract with
// that repository's release workflow.
func (p *Pipeline) dispatchRelease(ctx context.Context, chainID string) error {
	request := github.DispatchRequest{
		EventType:     p.settings.GitHub.DispatchEventType,
		ClientPayload: map[string]string{"chain-id": chainID},
	}
	if err := p.dispatch.CreateRepositoryDispatch(ctx, p.secrets.RepositoryOwner, p.settings.GitHub.DispatchRepository, request); err != nil {
		return fmt.Errorf("dispatching release for %s: %w", chainID, err)
	}
	return nil
}

// shortSHA abbreviates a commit hash to the 7 characters used in chain
// IDs.
func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
