// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package github provides a typed Go client for the slice of the GitHub
// REST API the devnet pipeline touches: pull requests, Actions
// artifacts, team memberships, and repository dispatches.
//
// The client authenticates with a bearer token. It handles rate
// limiting (X-RateLimit-* headers with automatic backoff), pagination
// (RFC 5988 Link headers), and structured error mapping. The pipeline
// runs several clients side by side because GitHub scopes the work
// across tokens: the workflow token reads artifacts and pull requests,
// the org-read token checks team membership, and the dispatch token
// triggers the downstream repository.
//
// All requests are made over HTTPS. The client refuses non-HTTPS base
// URLs.
package github
