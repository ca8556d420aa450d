// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package github

import "context"

// authenticator provides Authorization header values for GitHub API
// requests. The interface exists so that token sources with a
// lifecycle (App installation tokens, OIDC exchanges) can slot in
// without touching the client; the pipeline today only carries static
// tokens.
type authenticator interface {
	// AuthorizationHeader returns a valid Authorization header value
	// (e.g., "Bearer ghp_xxx").
	AuthorizationHeader(ctx context.Context) (string, error)
}

// tokenAuth is a static bearer token authenticator for personal access
// tokens, fine-grained tokens, and the workflow-injected GITHUB_TOKEN.
type tokenAuth struct {
	header string
}

func newTokenAuth(token string) *tokenAuth {
	return &tokenAuth{header: "Bearer " + token}
}

func (auth *tokenAuth) AuthorizationHeader(_ context.Context) (string, error) {
	return auth.header, nil
}
