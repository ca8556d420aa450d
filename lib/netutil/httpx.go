// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O utilities.
//
// The response helpers (ReadResponse, ErrorBody) bound all response body
// reads at MaxResponseSize to prevent unbounded memory allocation from a
// misbehaving server. These are for JSON API responses (the GitHub REST
// API, raw template fetches), not for large binary downloads such as
// artifact archives, which are streamed to disk with io.Copy.
package netutil

import (
	"io"
)

// MaxResponseSize is the bound on API response body reads: 256 MB. This
// exists solely to prevent a pathological response from exhausting system
// memory. Legitimate API responses are orders of magnitude smaller; the
// limit is intentionally generous so that it never interferes with normal
// operation.
const MaxResponseSize int64 = 256 << 20

// ReadResponse reads an API response body up to MaxResponseSize bytes.
// Use instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody reads an HTTP error response body and returns it as a string for
// diagnostic error messages. Read errors are silently ignored: a partial or
// empty body is still useful in an error message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return string(data)
}
