// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"net/http"
)

// CreateRepositoryDispatch triggers workflows in another repository
// via the repository_dispatch event. The receiving repository's
// workflows match on the request's EventType. GitHub returns 204 No
// Content on success.
func (client *Client) CreateRepositoryDispatch(ctx context.Context, owner, repo string, request DispatchRequest) error {
	path := fmt.Sprintf("/repos/%s/%s/dispatches", owner, repo)
	if _, err := client.do(ctx, http.MethodPost, path, request); err != nil {
		return fmt.Errorf("dispatching %q to %s/%s: %w", request.EventType, owner, repo, err)
	}
	return nil
}
