// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
)

// GetTeamMembership retrieves a user's membership in an organization
// team. Requires a token with read:org scope. A user who is not on the
// team at all produces a 404 (check with IsNotFound), not an empty
// membership.
func (client *Client) GetTeamMembership(ctx context.Context, org, teamSlug, username string) (*TeamMembership, error) {
	var membership TeamMembership
	path := fmt.Sprintf("/orgs/%s/teams/%s/memberships/%s", org, teamSlug, username)
	if err := client.get(ctx, path, &membership); err != nil {
		return nil, fmt.Errorf("getting %s team membership for %s in %s: %w", teamSlug, username, org, err)
	}
	return &membership, nil
}
