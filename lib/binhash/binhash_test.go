// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func TestDigest(t *testing.T) {
	content := []byte("tx_transfer.wasm contents")
	path := filepath.Join(t.TempDir(), "tx_transfer.wasm")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := Digest(path)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}

	sum := sha256.Sum256(content)
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Errorf("Digest = %s, want %s", got, want)
	}
	if len(got) != 64 {
		t.Errorf("Digest length = %d, want 64", len(got))
	}
}

func TestDigestEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := Digest(path)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}

	sum := sha256.Sum256(nil)
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Errorf("Digest(empty) = %s, want %s", got, want)
	}
}

func TestDigestNonexistent(t *testing.T) {
	_, err := Digest(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("Digest should fail for a nonexistent file")
	}
}

func TestDigestLargeFile(t *testing.T) {
	// Streaming must survive files larger than typical copy buffers.
	content := make([]byte, 256*1024)
	for i := range content {
		content[i] = byte(i % 251)
	}
	path := filepath.Join(t.TempDir(), "large.wasm")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := Digest(path)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}

	sum := sha256.Sum256(content)
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Errorf("Digest(large) = %s, want %s", got, want)
	}
}

func TestDigestDistinguishesContent(t *testing.T) {
	directory := t.TempDir()

	pathA := filepath.Join(directory, "a.wasm")
	if err := os.WriteFile(pathA, []byte("content A"), 0o644); err != nil {
		t.Fatalf("WriteFile a.wasm: %v", err)
	}
	pathB := filepath.Join(directory, "b.wasm")
	if err := os.WriteFile(pathB, []byte("content B"), 0o644); err != nil {
		t.Fatalf("WriteFile b.wasm: %v", err)
	}

	digestA, err := Digest(pathA)
	if err != nil {
		t.Fatalf("Digest(a.wasm): %v", err)
	}
	digestB, err := Digest(pathB)
	if err != nil {
		t.Fatalf("Digest(b.wasm): %v", err)
	}

	if digestA == digestB {
		t.Error("different files should produce different digests")
	}
}
