// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the settings file when no --config flag is given.
const EnvConfig = "DEVNET_BOT_CONFIG"

// Settings holds every tunable of the devnet pipelines. The compiled-in
// defaults describe the production namada setup; a settings file only
// needs the values it changes.
type Settings struct {
	// GitHub locates the organization, repositories, and team the
	// pipelines operate on.
	GitHub GitHubSettings `yaml:"github"`

	// Buckets are the object-storage destinations.
	Buckets BucketSettings `yaml:"buckets"`

	// Chain configures the generated network.
	Chain ChainSettings `yaml:"chain"`
}

// GitHubSettings locates the repositories and the authorization team.
type GitHubSettings struct {
	// Org is the organization whose team gates the trigger.
	Org string `yaml:"org"`

	// Team is the slug of the team whose active members may spawn
	// devnets.
	Team string `yaml:"team"`

	// Repository is the source repository whose CI artifacts feed the
	// pipeline.
	Repository string `yaml:"repository"`

	// TemplatesRepository hosts the genesis templates under
	// templates/<name>.toml on its master branch.
	TemplatesRepository string `yaml:"templates_repository"`

	// DispatchRepository receives the repository-dispatch event once a
	// devnet's chain data is published.
	DispatchRepository string `yaml:"dispatch_repository"`

	// DispatchEventType is the event_type field of the dispatch payload.
	DispatchEventType string `yaml:"dispatch_event_type"`

	// ArtifactsPerPage is the page size for artifact listings. GitHub
	// caps it at 100.
	ArtifactsPerPage int `yaml:"artifacts_per_page"`
}

// BucketSettings names the two upload destinations.
type BucketSettings struct {
	// Wasm receives the built wasm binaries, world readable.
	Wasm string `yaml:"wasm"`

	// ChainData receives the genesis release archive and the setup zip.
	// Private.
	ChainData string `yaml:"chain_data"`
}

// ChainSettings configures network generation and packaging.
type ChainSettings struct {
	// Binary is the name of the network binary inside the binaries
	// artifact.
	Binary string `yaml:"binary"`

	// Prefix seeds generated chain IDs; the PR head SHA is appended.
	Prefix string `yaml:"prefix"`

	// SetupFolder is the local directory (relative to the working
	// directory of the run) zipped up as chain data.
	SetupFolder string `yaml:"setup_folder"`
}

// Default returns the production settings.
func Default() *Settings {
	return &Settings{
		GitHub: GitHubSettings{
			Org:                 "heliaxdev",
			Team:                "company",
			Repository:          "namada",
			TemplatesRepository: "anoma-network-config",
			DispatchRepository:  "anoma-network-config",
			DispatchEventType:   "release",
			ArtifactsPerPage:    75,
		},
		Buckets: BucketSettings{
			Wasm:      "namada-wasm-master",
			ChainData: "namada-chain-data",
		},
		Chain: ChainSettings{
			Binary:      "namadac",
			Prefix:      "namada",
			SetupFolder: "namada-setup",
		},
	}
}

// Load returns the settings, applying overrides from the YAML file at
// path. An empty path falls back to the DEVNET_BOT_CONFIG environment
// variable; if that is also unset, the defaults are returned unchanged.
func Load(path string) (*Settings, error) {
	settings := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing settings file %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings file %s: %w", path, err)
	}
	return settings, nil
}

// Validate checks the settings for values the pipelines cannot run with.
func (s *Settings) Validate() error {
	var errs []error

	if s.GitHub.Org == "" {
		errs = append(errs, fmt.Errorf("github.org is required"))
	}
	if s.GitHub.Team == "" {
		errs = append(errs, fmt.Errorf("github.team is required"))
	}
	if s.GitHub.Repository == "" {
		errs = append(errs, fmt.Errorf("github.repository is required"))
	}
	if s.GitHub.TemplatesRepository == "" {
		errs = append(errs, fmt.Errorf("github.templates_repository is required"))
	}
	if s.GitHub.DispatchRepository == "" {
		errs = append(errs, fmt.Errorf("github.dispatch_repository is required"))
	}
	if s.GitHub.DispatchEventType == "" {
		errs = append(errs, fmt.Errorf("github.dispatch_event_type is required"))
	}
	if s.GitHub.ArtifactsPerPage < 1 || s.GitHub.ArtifactsPerPage > 100 {
		errs = append(errs, fmt.Errorf("github.artifacts_per_page must be between 1 and 100, got %d", s.GitHub.ArtifactsPerPage))
	}

	if s.Buckets.Wasm == "" {
		errs = append(errs, fmt.Errorf("buckets.wasm is required"))
	}
	if s.Buckets.ChainData == "" {
		errs = append(errs, fmt.Errorf("buckets.chain_data is required"))
	}

	if s.Chain.Binary == "" {
		errs = append(errs, fmt.Errorf("chain.binary is required"))
	}
	if s.Chain.Prefix == "" {
		errs = append(errs, fmt.Errorf("chain.prefix is required"))
	}
	if s.Chain.SetupFolder == "" {
		errs = append(errs, fmt.Errorf("chain.setup_folder is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
