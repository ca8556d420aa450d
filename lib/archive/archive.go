// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

// Package archive packs and unpacks the zip bundles the pipeline moves
// around: CI artifact archives on the way in, the devnet setup folder
// on the way out.
package archive

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// Unzip extracts the archive at src into destDir, creating destDir if
// needed. Existing files are overwritten. Entry modes are restored,
// though CI artifact zips usually carry none; executables need an
// explicit chmod after extraction.
//
// Entries that would escape destDir (absolute paths, ".." traversal)
// are rejected.
func Unzip(src, destDir string) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("opening zip %s: %w", src, err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating extraction directory %s: %w", destDir, err)
	}

	for _, file := range reader.File {
		if err := extractEntry(file, destDir); err != nil {
			return fmt.Errorf("extracting %s from %s: %w", file.Name, src, err)
		}
	}
	return nil
}

// extractEntry writes one zip entry below destDir.
func extractEntry(file *zip.File, destDir string) error {
	name := filepath.FromSlash(file.Name)
	if !filepath.IsLocal(name) {
		return fmt.Errorf("entry path escapes the extraction directory")
	}
	target := filepath.Join(destDir, name)

	if file.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}

	source, err := file.Open()
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return err
	}
	return destination.Close()
}

// ZipDirectory writes a zip archive of srcDir to destZip. The
// directory's own name is kept as the root prefix of every entry, so
// extracting the archive recreates the folder rather than spilling its
// contents, matching the layout `zip -r out.zip dir` produces.
func ZipDirectory(srcDir, destZip string) error {
	root := filepath.Clean(srcDir)
	prefix := filepath.Base(root)

	output, err := os.Create(destZip)
	if err != nil {
		return fmt.Errorf("creating archive %s: %w", destZip, err)
	}

	writer := zip.NewWriter(output)
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relative, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := prefix
		if relative != "." {
			name = filepath.Join(prefix, relative)
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		switch {
		case info.IsDir():
			return addDirEntry(writer, name, info)
		case info.Mode().IsRegular():
			return addFileEntry(writer, name, path, info)
		default:
			return fmt.Errorf("unsupported file type for %s", path)
		}
	})

	if walkErr != nil {
		writer.Close()
		output.Close()
		return fmt.Errorf("archiving %s: %w", srcDir, walkErr)
	}
	if err := writer.Close(); err != nil {
		output.Close()
		return fmt.Errorf("finalizing archive %s: %w", destZip, err)
	}
	if err := output.Close(); err != nil {
		return fmt.Errorf("closing archive %s: %w", destZip, err)
	}
	return nil
}

func addDirEntry(writer *zip.Writer, name string, info fs.FileInfo) error {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.ToSlash(name) + "/"
	_, err = writer.CreateHeader(header)
	return err
}

func addFileEntry(writer *zip.Writer, name, path string, info fs.FileInfo) error {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.ToSlash(name)
	header.Method = zip.Deflate

	destination, err := writer.CreateHeader(header)
	if err != nil {
		return err
	}

	source, err := os.Open(path)
	if err != nil {
		return err
	}
	defer source.Close()

	_, err = io.Copy(destination, source)
	return err
}
