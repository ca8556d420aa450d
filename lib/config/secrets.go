// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Secrets holds the bearer tokens and the workflow event payload. All of
// them come from the environment the CI workflow provides; a missing or
// empty required variable is a startup failure.
type Secrets struct {
	// Token authenticates artifact listings, artifact downloads, and
	// pull request reads against the source repository.
	Token string `env:"GITHUB_TOKEN,required,notEmpty"`

	// ReadOrgToken authenticates the team membership check. Separate
	// from Token because the workflow token has no org read scope.
	ReadOrgToken string `env:"GITHUB_READ_ORG_TOKEN,required,notEmpty"`

	// DispatchToken authenticates the repository dispatch that hands
	// off to the network configuration repository. Only the spawn
	// pipeline needs it, so presence is checked there rather than here.
	DispatchToken string `env:"GITHUB_DISPATCH_TOKEN"`

	// RepositoryOwner is the account the workflow runs under.
	RepositoryOwner string `env:"GITHUB_REPOSITORY_OWNER,required,notEmpty"`

	// Context is the workflow event payload JSON, carrying the comment
	// body, its sender, and the issue number.
	Context string `env:"GITHUB_CONTEXT,required,notEmpty"`
}

// ReadSecrets parses the required environment variables.
func ReadSecrets() (Secrets, error) {
	var secrets Secrets
	if err := env.Parse(&secrets); err != nil {
		return Secrets{}, fmt.Errorf("reading environment: %w", err)
	}
	return secrets, nil
}
