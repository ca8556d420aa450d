// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package devnet orchestrates the comment-triggered CI pipelines: spawn
// (full devnet bring-up), publish-wasm (wasm refresh), and update-wasm
// (checksums manifest push).
//
// Each pipeline is a linear, fail-fast sequence of external calls:
// authorize the commenting user, resolve the pull request head, walk
// the repository's artifact listing, and act on what was downloaded.
// Nothing is retried and nothing is rolled back; the first failing step
// aborts the run. The only shared state is a scratch directory holding
// the unpacked artifacts between steps.
//
// Every external system sits behind a narrow interface ([RepoReader],
// [MembershipReader], [Dispatcher], [Storage], [TemplateFetcher],
// [Generator]) so the sequences are testable with fakes. Production
// wiring adapts the lib/github client, the lib/s3 uploader, and the
// lib/genesis generator.
//
// Authorization failures are deliberate non-errors: [Pipeline.Run]
// returns [ErrUnauthorized] and the command layer exits 0, so a
// drive-by comment from outside the team never fails the workflow.
package devnet
