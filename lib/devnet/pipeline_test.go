// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package devnet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/heliaxdev/devnet-bot/lib/config"
	"github.com/heliaxdev/devnet-bot/lib/genesis"
	"github.com/heliaxdev/devnet-bot/lib/github"
)

const (
	testHeadSHA  = "1b2c3d4e5f60718293a4b5c6d7e8f9a0b1c2d3e4"
	testChainID  = "namada-1b2c3d4.ab12cd"
	wasmURL      = "https://api.github.com/repos/heliaxdev/namada/actions/artifacts/101/zip"
	binariesURL  = "https://api.github.com/repos/heliaxdev/namada/actions/artifacts/102/zip"
	testManifest = `{"tx_transfer.wasm":"tx_transfer.4bc31c.wasm","vp_user.wasm":"vp_user.88aa02.wasm"}`
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// contextJSON builds a GITHUB_CONTEXT payload for an issue comment.
func contextJSON(sender, body string, number int) string {
	return fmt.Sprintf(`{"event":{"sender":{"login":%q},"comment":{"body":%q},"issue":{"number":%d}}}`,
		sender, body, number)
}

// writeZip creates a zip archive at path from name -> content pairs.
func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	writer := zip.NewWriter(out)
	for name, content := range files {
		entry, err := writer.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
}

// fakeRepo serves scripted pull requests and artifacts; downloads copy
// fixture archives into place.
type fakeRepo struct {
	pr          *github.PullRequest
	prErr       error
	prCalls     int
	artifacts   []github.Artifact
	listErr     error
	archives    map[string]string
	downloads   []string
	downloadErr error
}

func (f *fakeRepo) GetPullRequest(_ context.Context, _, _ string, _ int) (*github.PullRequest, error) {
	f.prCalls++
	if f.prErr != nil {
		return nil, f.prErr
	}
	return f.pr, nil
}

func (f *fakeRepo) ListArtifacts(_ context.Context, _, _ string, _ int) ([]github.Artifact, error) {
	return f.artifacts, f.listErr
}

func (f *fakeRepo) DownloadArtifactArchive(_ context.Context, url, destPath string) error {
	f.downloads = append(f.downloads, url)
	if f.downloadErr != nil {
		return f.downloadErr
	}
	fixture, ok := f.archives[url]
	if !ok {
		return fmt.Errorf("no archive behind %s", url)
	}
	data, err := os.ReadFile(fixture)
	if err != nil {
		return err
	}
	return os.WriteFile(destPath, data, 0o644)
}

// fakeOrg answers membership lookups with one scripted state or error.
type fakeOrg struct {
	state string
	err   error
	calls int
}

func (f *fakeOrg) GetTeamMembership(_ context.Context, _, _, _ string) (*github.TeamMembership, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &github.TeamMembership{State: f.state, Role: "member"}, nil
}

// fakeDispatcher records repository-dispatch calls.
type fakeDispatcher struct {
	owners   []string
	repos    []string
	requests []github.DispatchRequest
	err      error
}

func (f *fakeDispatcher) CreateRepositoryDispatch(_ context.Context, owner, repo string, request github.DispatchRequest) error {
	f.owners = append(f.owners, owner)
	f.repos = append(f.repos, repo)
	f.requests = append(f.requests, request)
	return f.err
}

type upload struct {
	path   string
	bucket string
}

// fakeStorage records uploads; public uploads can be told to fail for
// one file name.
type fakeStorage struct {
	public       []upload
	private      []upload
	failPublicOn string
	privateErr   error
}

func (f *fakeStorage) Upload(_ context.Context, path, bucket string) error {
	f.private = append(f.private, upload{path, bucket})
	return f.privateErr
}

func (f *fakeStorage) UploadPublic(_ context.Context, path, bucket string) error {
	f.public = append(f.public, upload{path, bucket})
	if f.failPublicOn != "" && filepath.Base(path) == f.failPublicOn {
		return fmt.Errorf("aws s3 cp: exit status 1 (stderr: AccessDenied)")
	}
	return nil
}

// fakeGenerator records init-network parameters and returns scripted
// paths.
type fakeGenerator struct {
	params genesis.Params
	paths  genesis.Paths
	err    error
	calls  int
}

func (f *fakeGenerator) Generate(_ context.Context, params genesis.Params) (genesis.Paths, error) {
	f.calls++
	f.params = params
	if f.err != nil {
		return genesis.Paths{}, f.err
	}
	return f.paths, nil
}

// harness wires a Pipeline to fakes with fixture artifacts for a spawn
// run: one wasm and one binaries artifact matching the PR head, plus
// listing noise that must be skipped.
type harness struct {
	pipeline  *Pipeline
	repo      *fakeRepo
	org       *fakeOrg
	dispatch  *fakeDispatcher
	storage   *fakeStorage
	generator *fakeGenerator
	scratch   string
	release   string
	templates []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	scratch := t.TempDir()
	fixtures := t.TempDir()

	wasmZip := filepath.Join(fixtures, "wasm-artifact.zip")
	writeZip(t, wasmZip, map[string]string{
		"checksums.json":          testManifest,
		"tx_transfer.4bc31c.wasm": "tx transfer bytes",
		"vp_user.88aa02.wasm":     "vp user bytes",
	})
	binariesZip := filepath.Join(fixtures, "binaries-artifact.zip")
	writeZip(t, binariesZip, map[string]string{
		"namadac": "network binary bytes",
	})

	release := filepath.Join(fixtures, testChainID+".tar.gz")
	if err := os.WriteFile(release, []byte("release archive bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	setupFolder := filepath.Join(fixtures, "namada-setup")
	if err := os.MkdirAll(setupFolder, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(setupFolder, "validator.toml"), []byte("[validator]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := &fakeRepo{
		pr: &github.PullRequest{Number: 1417, Head: github.Branch{Ref: "devnet-fixes", SHA: testHeadSHA}},
		artifacts: []github.Artifact{
			{Name: "coverage-report", ArchiveDownloadURL: "https://api.github.com/x/100/zip",
				WorkflowRun: github.ArtifactWorkflowRun{HeadSHA: testHeadSHA}},
			{Name: "namada-wasm-" + testHeadSHA, ArchiveDownloadURL: wasmURL,
				WorkflowRun: github.ArtifactWorkflowRun{HeadSHA: testHeadSHA}},
			{Name: "namada-wasm-stale", ArchiveDownloadURL: "https://api.github.com/x/90/zip",
				WorkflowRun: github.ArtifactWorkflowRun{HeadSHA: "0000000000"}},
			{Name: "namada-wasm-expired", ArchiveDownloadURL: "https://api.github.com/x/80/zip",
				Expired:     true,
				WorkflowRun: github.ArtifactWorkflowRun{HeadSHA: testHeadSHA}},
			{Name: "namada-binaries-" + testHeadSHA, ArchiveDownloadURL: binariesURL,
				WorkflowRun: github.ArtifactWorkflowRun{HeadSHA: testHeadSHA}},
		},
		archives: map[string]string{wasmURL: wasmZip, binariesURL: binariesZip},
	}

	settings := config.Default()
	settings.Chain.SetupFolder = setupFolder

	h := &harness{
		repo:      repo,
		org:       &fakeOrg{state: github.MembershipActive},
		dispatch:  &fakeDispatcher{},
		storage:   &fakeStorage{},
		generator: &fakeGenerator{paths: genesis.Paths{GenesisFolder: "/tmp/" + testChainID + "-full", ReleaseArchive: release}},
		scratch:   scratch,
		release:   release,
	}

	pipeline, err := New(Options{
		Settings:   settings,
		Secrets:    config.Secrets{RepositoryOwner: "heliaxdev", Context: contextJSON("fraccaman", "please spawn [devnet-lite, 14]", 1417)},
		Logger:     testLogger(),
		ScratchDir: scratch,
		Repo:       h.repo,
		Org:        h.org,
		Dispatch:   h.dispatch,
		Storage:    h.storage,
		Runner:     nil,
		Templates: func(_ context.Context, url, destPath string) error {
			h.templates = append(h.templates, url)
			return os.WriteFile(destPath, []byte("[template]\n"), 0o644)
		},
		Generator: h.generator,
	})
	if err != nil {
		t.Fatal(err)
	}
	h.pipeline = pipeline
	return h
}

func TestSpawnEndToEnd(t *testing.T) {
	h := newHarness(t)

	if err := h.pipeline.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Only the two artifacts matching the head SHA were downloaded.
	if want := []string{wasmURL, binariesURL}; !reflect.DeepEqual(h.repo.downloads, want) {
		t.Errorf("downloads = %v, want %v", h.repo.downloads, want)
	}

	// Both manifest wasm files went to the public bucket, sorted.
	wantPublic := []upload{
		{filepath.Join(h.scratch, "tx_transfer.4bc31c.wasm"), "namada-wasm-master"},
		{filepath.Join(h.scratch, "vp_user.88aa02.wasm"), "namada-wasm-master"},
	}
	if !reflect.DeepEqual(h.storage.public, wantPublic) {
		t.Errorf("public uploads = %v, want %v", h.storage.public, wantPublic)
	}

	// The template was fetched from the configuration repository.
	wantURL := "https://raw.githubusercontent.com/heliaxdev/anoma-network-config/master/templates/devnet-lite.toml"
	if !reflect.DeepEqual(h.templates, []string{wantURL}) {
		t.Errorf("template fetches = %v, want [%s]", h.templates, wantURL)
	}

	// init-network ran over the unpacked scratch contents.
	wantParams := genesis.Params{
		BinaryPath:    filepath.Join(h.scratch, "namadac"),
		ChainPrefix:   "namada-1b2c3d4",
		TemplatePath:  filepath.Join(h.scratch, "template.toml"),
		ChecksumsPath: filepath.Join(h.scratch, "checksums.json"),
	}
	if h.generator.params != wantParams {
		t.Errorf("generator params = %+v, want %+v", h.generator.params, wantParams)
	}
	if _, err := os.Stat(wantParams.BinaryPath); err != nil {
		t.Errorf("network binary not unpacked: %v", err)
	}

	// Setup zip and release archive went to the private bucket.
	setupZip := filepath.Join(h.scratch, testChainID+".zip")
	wantPrivate := []upload{
		{setupZip, "namada-chain-data"},
		{h.release, "namada-chain-data"},
	}
	if !reflect.DeepEqual(h.storage.private, wantPrivate) {
		t.Errorf("private uploads = %v, want %v", h.storage.private, wantPrivate)
	}
	if _, err := os.Stat(setupZip); err != nil {
		t.Errorf("setup zip not written: %v", err)
	}

	// Exactly one dispatch, with the pinned payload shape.
	if len(h.dispatch.requests) != 1 {
		t.Fatalf("dispatched %d times, want 1", len(h.dispatch.requests))
	}
	if h.dispatch.owners[0] != "heliaxdev" || h.dispatch.repos[0] != "anoma-network-config" {
		t.Errorf("dispatched to %s/%s, want heliaxdev/anoma-network-config", h.dispatch.owners[0], h.dispatch.repos[0])
	}
	request := h.dispatch.requests[0]
	if request.EventType != "release" {
		t.Errorf("event type = %q, want release", request.EventType)
	}
	if want := map[string]string{"chain-id": testChainID}; !reflect.DeepEqual(request.ClientPayload, want) {
		t.Errorf("client payload = %v, want %v", request.ClientPayload, want)
	}
}

func TestSpawnUnauthorized(t *testing.T) {
	tests := []struct {
		name  string
		state string
		err   error
	}{
		{"pending membership", "pending", nil},
		{"empty state", "", nil},
		{"no membership at all", "", &github.APIError{StatusCode: 404, Message: "Not Found"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.org.state = tt.state
			h.org.err = tt.err

			err := h.pipeline.Run(context.Background())
			if !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("Run = %v, want ErrUnauthorized", err)
			}

			// The gate is the first network call; nothing else ran.
			if h.org.calls != 1 {
				t.Errorf("membership checks = %d, want 1", h.org.calls)
			}
			if h.repo.prCalls != 0 {
				t.Errorf("pull request fetched %d times despite rejection", h.repo.prCalls)
			}
			if len(h.repo.downloads) != 0 {
				t.Errorf("downloads = %v, want none", h.repo.downloads)
			}
			if len(h.dispatch.requests) != 0 {
				t.Errorf("dispatches = %d, want 0", len(h.dispatch.requests))
			}
		})
	}
}

func TestSpawnMembershipOutageIsAnError(t *testing.T) {
	h := newHarness(t)
	h.org.err = &github.APIError{StatusCode: 502, Message: "Server Error"}

	err := h.pipeline.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for membership API outage")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatal("API outage must not masquerade as a rejection")
	}
}

func TestSpawnRejectsCommentWithoutCommand(t *testing.T) {
	h := newHarness(t)
	h.pipeline.secrets.Context = contextJSON("fraccaman", "no command here", 1417)

	err := h.pipeline.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for a comment without a bracketed command")
	}
	if len(h.repo.downloads) != 0 {
		t.Errorf("downloads = %v, want none", h.repo.downloads)
	}
}

func TestSpawnMissingArtifactKind(t *testing.T) {
	tests := []struct {
		name string
		keep string
	}{
		{"binaries missing", "wasm"},
		{"wasm missing", "binaries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			var kept []github.Artifact
			for _, artifact := range h.repo.artifacts {
				if strings.Contains(artifact.Name, tt.keep) || !strings.Contains(artifact.Name, "namada-") {
					kept = append(kept, artifact)
				}
			}
			h.repo.artifacts = kept

			err := h.pipeline.Run(context.Background())
			if err == nil {
				t.Fatal("expected error when an artifact kind is missing")
			}
			if h.generator.calls != 0 {
				t.Errorf("genesis generation ran %d times despite missing artifacts", h.generator.calls)
			}
			if len(h.dispatch.requests) != 0 {
				t.Errorf("dispatches = %d, want 0", len(h.dispatch.requests))
			}
		})
	}
}

func TestSpawnDuplicateArtifactsAbort(t *testing.T) {
	h := newHarness(t)
	h.repo.artifacts = append(h.repo.artifacts, github.Artifact{
		Name:               "namada-wasm-retry-" + testHeadSHA,
		ArchiveDownloadURL: wasmURL,
		WorkflowRun:        github.ArtifactWorkflowRun{HeadSHA: testHeadSHA},
	})

	err := h.pipeline.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for duplicate matching artifacts")
	}
	if h.generator.calls != 0 {
		t.Errorf("genesis generation ran despite ambiguous artifacts")
	}
}

func TestSpawnWasmUploadFailureDoesNotAbort(t *testing.T) {
	h := newHarness(t)
	h.storage.failPublicOn = "tx_transfer.4bc31c.wasm"

	if err := h.pipeline.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Both uploads were attempted and the run completed.
	if len(h.storage.public) != 2 {
		t.Errorf("public upload attempts = %d, want 2", len(h.storage.public))
	}
	if len(h.dispatch.requests) != 1 {
		t.Errorf("dispatches = %d, want 1", len(h.dispatch.requests))
	}
}

func TestSpawnDownloadFailureAborts(t *testing.T) {
	h := newHarness(t)
	h.repo.downloadErr = fmt.Errorf("downloading artifact archive: github: HTTP 410: Gone")

	err := h.pipeline.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for failed artifact download")
	}
	if h.generator.calls != 0 {
		t.Errorf("genesis generation ran despite download failure")
	}
}

func TestSpawnChainDataUploadFailureAborts(t *testing.T) {
	h := newHarness(t)
	h.storage.privateErr = fmt.Errorf("aws s3 cp: exit status 1 (stderr: AccessDenied)")

	err := h.pipeline.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for failed chain-data upload")
	}
	if len(h.dispatch.requests) != 0 {
		t.Errorf("dispatches = %d, want 0 after upload failure", len(h.dispatch.requests))
	}
}

func TestSpawnDispatchFailureIsAnError(t *testing.T) {
	h := newHarness(t)
	h.dispatch.err = &github.APIError{StatusCode: 422, Message: "Unprocessable"}

	if err := h.pipeline.Run(context.Background()); err == nil {
		t.Fatal("expected error for failed dispatch")
	}
}

func TestNewValidatesSharedDependencies(t *testing.T) {
	valid := func() Options {
		return Options{
			Settings:   config.Default(),
			Logger:     testLogger(),
			ScratchDir: "/tmp",
			Repo:       &fakeRepo{},
			Org:        &fakeOrg{},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"missing settings", func(o *Options) { o.Settings = nil }},
		{"missing logger", func(o *Options) { o.Logger = nil }},
		{"missing scratch dir", func(o *Options) { o.ScratchDir = "" }},
		{"missing repo client", func(o *Options) { o.Repo = nil }},
		{"missing org client", func(o *Options) { o.Org = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := valid()
			tt.mutate(&options)
			if _, err := New(options); err == nil {
				t.Fatalf("New accepted options with %s", tt.name)
			}
		})
	}

	if _, err := New(valid()); err != nil {
		t.Fatalf("New rejected complete options: %v", err)
	}
}

func TestRunRequiresSpawnDependencies(t *testing.T) {
	base, err := New(Options{
		Settings:   config.Default(),
		Logger:     testLogger(),
		ScratchDir: "/tmp",
		Repo:       &fakeRepo{},
		Org:        &fakeOrg{state: github.MembershipActive},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := base.Run(context.Background()); err == nil {
		t.Fatal("Run must reject a pipeline without spawn dependencies")
	}
}
