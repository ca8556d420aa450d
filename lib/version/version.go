// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package version carries the build metadata stamped into the
// devnet-bot binary.
//
// The variables are overridden at build time:
//
//	go build -ldflags "-X github.com/heliaxdev/devnet-bot/lib/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags. The defaults mark a local, unstamped build.
var (
	// Version is the release version.
	Version = "0.1.0-dev"

	// GitCommit is the short commit SHA the binary was built from.
	GitCommit = "unknown"

	// GitDirty is "true" when the build tree had uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)

// Full returns the text printed by --version: the release version,
// commit (suffixed with -dirty when the tree was modified), build time,
// and the Go runtime and platform of the build.
func Full() string {
	commit := GitCommit
	if GitDirty == "true" {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)\n  Go: %s\n  Platform: %s/%s",
		Version, commit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
