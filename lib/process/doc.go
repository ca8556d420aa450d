// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers. Fatal centralizes
// the one legitimate raw-stderr pattern that exists before the
// structured logger: error reporting from main() when run() fails
// during startup.
package process
