// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package genesis fetches devnet genesis templates and drives the network
// binary's init-network command to produce a chain's initial configuration.
package genesis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/heliaxdev/devnet-bot/lib/netutil"
	"github.com/heliaxdev/devnet-bot/lib/run"
)

// consensusTimeoutCommit is the fixed consensus timeout passed to
// init-network. Devnets favor fast block times.
const consensusTimeoutCommit = "10s"

// pathColumn is the space-separated column of the init-network status
// lines that carries a filesystem path. The binary prints no
// machine-readable output; path extraction depends on this position.
const pathColumn = 4

// genesisFolderSuffix is appended to the chain ID by init-network when
// it names the genesis folder.
const genesisFolderSuffix = "-full"

// TemplateURL returns the raw-content URL of a named genesis template
// in the owner's network configuration repository.
func TemplateURL(owner, repository, templateName string) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/master/templates/%s.toml",
		owner, repository, templateName)
}

// FetchTemplate downloads the genesis template at url into destPath.
// Any non-200 response is an error: the genesis run cannot proceed with
// a missing or partial template.
func FetchTemplate(ctx context.Context, client *http.Client, url, destPath string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building template request: %w", err)
	}

	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("fetching template %s: %w", url, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching template %s: HTTP %d: %s",
			url, response.StatusCode, strings.TrimSpace(netutil.ErrorBody(response.Body)))
	}

	file, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating template file: %w", err)
	}
	if _, err := io.Copy(file, response.Body); err != nil {
		file.Close()
		return fmt.Errorf("writing template to %s: %w", destPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("writing template to %s: %w", destPath, err)
	}
	return nil
}

// Params configures one init-network invocation.
type Params struct {
	// BinaryPath is the network binary extracted from the binaries
	// artifact. Generate marks it executable before running it.
	BinaryPath string

	// ChainPrefix seeds the generated chain ID.
	ChainPrefix string

	// TemplatePath is the genesis template TOML on disk.
	TemplatePath string

	// ChecksumsPath is the wasm checksums manifest on disk.
	ChecksumsPath string
}

// Paths holds the two filesystem locations init-network reports.
type Paths struct {
	// GenesisFolder is the directory of generated genesis files,
	// named "<chain-id>-full".
	GenesisFolder string

	// ReleaseArchive is the pre-packaged release tarball.
	ReleaseArchive string
}

// Generator runs the network binary to initialize a devnet chain.
type Generator struct {
	runner run.Runner
	logger *slog.Logger
}

// NewGenerator returns a Generator executing the network binary through
// the given runner.
func NewGenerator(runner run.Runner, logger *slog.Logger) *Generator {
	return &Generator{runner: runner, logger: logger}
}

// Generate marks the network binary executable, runs init-network with
// the devnet flag set, and recovers the genesis folder and release
// archive paths from its output.
func (g *Generator) Generate(ctx context.Context, params Params) (Paths, error) {
	if err := os.Chmod(params.BinaryPath, 0o755); err != nil {
		return Paths{}, fmt.Errorf("marking %s executable: %w", params.BinaryPath, err)
	}

	g.logger.Info("generating genesis configuration",
		"binary", params.BinaryPath,
		"chain_prefix", params.ChainPrefix)

	result, err := g.runner.Run(ctx, run.Command{
		Name: params.BinaryPath,
		Args: []string{
			"utils", "init-network",
			"--chain-prefix", params.ChainPrefix,
			"--genesis-path", params.TemplatePath,
			"--consensus-timeout-commit", consensusTimeoutCommit,
			"--wasm-checksums-path", params.ChecksumsPath,
			"--unsafe-dont-encrypt",
			"--allow-duplicate-ip",
		},
	})
	if err != nil {
		return Paths{}, fmt.Errorf("running init-network: %w", err)
	}

	paths, err := ParseOutput(string(result.Stdout))
	if err != nil {
		return Paths{}, err
	}

	g.logger.Info("genesis configuration created",
		"genesis_folder", paths.GenesisFolder,
		"release_archive", paths.ReleaseArchive)
	return paths, nil
}

// ParseOutput extracts the genesis folder and release archive paths
// from captured init-network output. The binary reports them in the
// last two lines of its stdout, each as the fifth space-separated
// column.
func ParseOutput(stdout string) (Paths, error) {
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	if len(lines) < 2 {
		return Paths{}, fmt.Errorf("init-network printed %d line(s), need at least 2 to locate genesis paths", len(lines))
	}

	folder, err := lineColumn(lines[len(lines)-2], pathColumn)
	if err != nil {
		return Paths{}, fmt.Errorf("locating genesis folder: %w", err)
	}
	archive, err := lineColumn(lines[len(lines)-1], pathColumn)
	if err != nil {
		return Paths{}, fmt.Errorf("locating release archive: %w", err)
	}
	return Paths{GenesisFolder: folder, ReleaseArchive: archive}, nil
}

// DeriveChainID recovers the chain ID from the genesis folder path by
// dropping the folder-name suffix from its basename.
func DeriveChainID(genesisFolder string) (string, error) {
	base := filepath.Base(genesisFolder)
	if len(base) <= len(genesisFolderSuffix) {
		return "", fmt.Errorf("genesis folder name %q too short to contain a chain ID", base)
	}
	return base[:len(base)-len(genesisFolderSuffix)], nil
}

func lineColumn(line string, column int) (string, error) {
	fields := strings.Split(line, " ")
	if len(fields) <= column {
		return "", fmt.Errorf("output line %q has %d column(s), need %d", line, len(fields), column+1)
	}
	return fields[column], nil
}
