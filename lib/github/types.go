// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package github

// Types for the GitHub REST API objects the pipeline reads. These are
// minimal: they model only the fields the devnet flow consumes, not
// the complete API objects.

// PullRequest is a pull request, reduced to what artifact matching
// needs.
type PullRequest struct {
	// Number is the pull request number.
	Number int `json:"number"`

	// Head is the source branch reference.
	Head Branch `json:"head"`
}

// Branch is a git reference on a pull request.
type Branch struct {
	// Ref is the branch name.
	Ref string `json:"ref"`

	// SHA is the commit the branch points at. Artifacts are matched
	// against this.
	SHA string `json:"sha"`
}

// Artifact is a GitHub Actions build artifact.
type Artifact struct {
	// ID is the artifact's numeric ID.
	ID int64 `json:"id"`

	// Name is the artifact name given in the workflow's upload step.
	Name string `json:"name"`

	// SizeInBytes is the uncompressed artifact size.
	SizeInBytes int64 `json:"size_in_bytes"`

	// Expired is true once GitHub has reaped the artifact's content.
	// Expired artifacts still appear in listings but cannot be
	// downloaded.
	Expired bool `json:"expired"`

	// ArchiveDownloadURL serves the artifact as a zip archive, via a
	// redirect to short-lived blob storage.
	ArchiveDownloadURL string `json:"archive_download_url"`

	// WorkflowRun identifies the run that produced the artifact.
	WorkflowRun ArtifactWorkflowRun `json:"workflow_run"`
}

// ArtifactWorkflowRun is the run reference embedded in an artifact
// listing entry.
type ArtifactWorkflowRun struct {
	// ID is the workflow run's numeric ID.
	ID int64 `json:"id"`

	// HeadSHA is the commit the run was triggered for.
	HeadSHA string `json:"head_sha"`
}

// TeamMembership is a user's membership in an organization team.
type TeamMembership struct {
	// State is "active" for a confirmed member or "pending" for an
	// invited user who has not accepted.
	State string `json:"state"`

	// Role is "member" or "maintainer".
	Role string `json:"role"`
}

// MembershipActive is the TeamMembership.State of a confirmed team
// member. Every other state (or no membership at all) fails the
// authorization gate.
const MembershipActive = "active"

// DispatchRequest is the body of a repository_dispatch trigger.
type DispatchRequest struct {
	// EventType is matched by the receiving workflow's
	// repository_dispatch types filter.
	EventType string `json:"event_type"`

	// ClientPayload is an arbitrary JSON object handed to the
	// receiving workflow.
	ClientPayload map[string]string `json:"client_payload"`
}
