// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package run executes external commands with captured output.
//
// Every subprocess the pipeline spawns (the aws CLI, git, the network
// binary) goes through the Runner interface so tests can substitute a
// fake and assert on the exact command lines without touching the
// system.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// Command describes one subprocess invocation.
type Command struct {
	// Name is the binary to execute, resolved via PATH unless it
	// contains a path separator.
	Name string

	// Args are the command arguments, not including the binary name.
	Args []string

	// Dir is the working directory. Empty means the calling process's
	// working directory.
	Dir string

	// Env holds additional environment variables set on top of the
	// inherited environment.
	Env map[string]string
}

// Result holds the captured output of a completed subprocess.
type Result struct {
	Stdout []byte
	Stderr []byte
}

// Runner executes commands. Production code uses Exec(); tests inject
// a fake that records commands and returns scripted results.
type Runner interface {
	Run(ctx context.Context, command Command) (Result, error)
}

// Exec returns a Runner backed by os/exec.
func Exec() Runner { return execRunner{} }

type execRunner struct{}

// Run executes the command and waits for it to finish. A non-zero exit
// is an error carrying the exit code and the trimmed stderr text; the
// captured output is returned either way so callers can log partial
// output from failed commands.
//
// The command runs in its own process group so that context
// cancellation kills the binary and all its children. Without Setpgid,
// only the direct child receives the signal; grandchildren survive
// and keep running after the pipeline has given up on the step.
func (execRunner) Run(ctx context.Context, command Command) (Result, error) {
	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = command.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		// Negative PID signals all processes in the group.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	if len(command.Env) > 0 {
		cmd.Env = os.Environ()
		for name, value := range command.Env {
			cmd.Env = append(cmd.Env, name+"="+value)
		}
	}

	err := cmd.Run()
	result := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return result, nil
	}

	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		return result, fmt.Errorf("%s: exit status %d (stderr: %s)",
			displayName(command), exitError.ExitCode(), strings.TrimSpace(stderr.String()))
	}

	// Non-exit errors: binary not found, context cancellation, signal.
	return result, fmt.Errorf("%s: %w", displayName(command), err)
}

// displayName renders the command for error messages: the binary name
// and its arguments, space-joined.
func displayName(command Command) string {
	if len(command.Args) == 0 {
		return command.Name
	}
	return command.Name + " " + strings.Join(command.Args, " ")
}
