// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package binhash computes file digests for upload provenance logging.
//
// Every file the pipeline publishes (wasm binaries, chain-data archives)
// gets its digest logged alongside the upload so a devnet's inputs can
// be traced back to the exact build outputs.
package binhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Digest returns the hex-encoded SHA256 digest of the file at path.
// The file is streamed through the hash in chunks (via io.Copy) to keep
// memory usage constant regardless of file size.
func Digest(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
