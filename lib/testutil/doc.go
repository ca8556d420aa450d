// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for devnet-bot packages.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls. Tests that coordinate
// goroutines through channels, such as the fake clock and rate limit
// backoff tests, use these instead of bare receives that would hang
// the whole suite on a regression.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no dependencies on other devnet-bot packages.
package testutil
