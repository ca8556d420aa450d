// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package config provides settings and secrets loading for the devnet bot.
//
// Settings are tunables with compiled-in defaults matching the production
// namada setup. A YAML file named by the --config flag (via [Load]) or the
// DEVNET_BOT_CONFIG environment variable overrides individual values. There
// is no discovery and no merging of multiple files; with neither the flag
// nor the variable set, the defaults are used as is.
//
// Secrets are the bearer tokens and the workflow event payload. They are
// read exclusively from the environment the CI workflow provides and never
// appear in the settings file, so a committed config can't leak a token.
//
// Key exports:
//
//   - [Settings] -- tunables (GitHub coordinates, buckets, chain naming)
//   - [Default] and [Load] -- settings entry points
//   - [Secrets] and [ReadSecrets] -- environment-provided credentials
//
// This package depends on no other devnet-bot packages.
package config
