// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package trigger

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultRetentionDays is the devnet retention period applied when the
// comment names only a template.
const DefaultRetentionDays = 7

// Command is the parsed devnet request from a pull-request comment.
type Command struct {
	// Template is the name of the network configuration template,
	// resolved against the templates repository.
	Template string

	// RetentionDays is how long the spawned devnet should be kept.
	// Informational: bucket lifecycle policy owns the actual expiry.
	RetentionDays int
}

// commandPattern matches the first bracketed parameter list in a
// comment, e.g. "please spawn [devnet-alpha, 14] for this".
var commandPattern = regexp.MustCompile(`\[([^\]]+)`)

// ParseCommand extracts the devnet command from a comment body. The
// command is the first bracketed, comma-separated list: element 0 is
// the template name, the optional element 1 is the retention period in
// days. A comment without a bracketed list is an error: the workflow
// only runs this on comments that are supposed to carry one.
func ParseCommand(body string) (Command, error) {
	match := commandPattern.FindStringSubmatch(body)
	if match == nil {
		return Command{}, fmt.Errorf("comment contains no bracketed command")
	}

	parts := strings.Split(match[1], ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if parts[0] == "" {
		return Command{}, fmt.Errorf("bracketed command has an empty template name")
	}
	command := Command{
		Template:      parts[0],
		RetentionDays: DefaultRetentionDays,
	}

	if len(parts) >= 2 {
		retention, err := strconv.Atoi(parts[1])
		if err != nil {
			return Command{}, fmt.Errorf("retention period %q is not a number", parts[1])
		}
		if retention <= 0 {
			return Command{}, fmt.Errorf("retention period must be positive, got %d", retention)
		}
		command.RetentionDays = retention
	}

	return command, nil
}
