// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package trigger decodes the GitHub Actions event context that starts
// a devnet-bot run and extracts the devnet command from the triggering
// pull-request comment.
//
// Workflows pass the full Actions context through the GITHUB_CONTEXT
// environment variable (`env: GITHUB_CONTEXT: ${{ toJSON(github) }}`).
// The structs here are minimal: they extract only the fields the
// pipeline needs from an issue_comment event, not the complete payload.
package trigger

import (
	"encoding/json"
	"fmt"
)

// Trigger is the slice of an issue_comment event the pipeline acts on.
// Despite the event name, issue_comment fires for top-level pull
// request comments too; the issue number is the PR number.
type Trigger struct {
	// Sender is the login of the commenting user, checked against the
	// operator team before anything else happens.
	Sender string

	// CommentBody is the full comment text containing the bracketed
	// devnet command.
	CommentBody string

	// IssueNumber is the pull request number the comment was posted on.
	IssueNumber int
}

// actionsContext mirrors the outer shape of the Actions context JSON.
type actionsContext struct {
	Event commentEvent `json:"event"`
}

// commentEvent is the issue_comment webhook payload inside the context.
type commentEvent struct {
	Sender  eventUser    `json:"sender"`
	Comment eventComment `json:"comment"`
	Issue   eventIssue   `json:"issue"`
}

type eventUser struct {
	Login string `json:"login"`
}

type eventComment struct {
	Body string `json:"body"`
}

type eventIssue struct {
	Number int `json:"number"`
}

// Decode parses the GITHUB_CONTEXT JSON into a Trigger. The sender
// login and issue number must be present: without them there is no
// user to authorize and no pull request to resolve.
func Decode(data []byte) (*Trigger, error) {
	var context actionsContext
	if err := json.Unmarshal(data, &context); err != nil {
		return nil, fmt.Errorf("decoding event context: %w", err)
	}
	if context.Event.Sender.Login == "" {
		return nil, fmt.Errorf("event context has no sender login")
	}
	if context.Event.Issue.Number == 0 {
		return nil, fmt.Errorf("event context has no issue number")
	}
	return &Trigger{
		Sender:      context.Event.Sender.Login,
		CommentBody: context.Event.Comment.Body,
		IssueNumber: context.Event.Issue.Number,
	}, nil
}
