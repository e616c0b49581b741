package storage

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/fminject/internal/apperr"
)

// DefaultExtension is the suffix that marks a Markdown file.
const DefaultExtension = ".md"

const tmpPattern = ".fminject-tmp-*"

// FS implements Provider backed by the local file system.
type FS struct {
	ext string
}

// NewFS creates a provider matching files whose name ends in ext.
// The match is case-sensitive. An empty ext selects DefaultExtension.
func NewFS(ext string) *FS {
	if ext == "" {
		ext = DefaultExtension
	}
	return &FS{ext: ext}
}

// Extension returns the suffix this provider matches.
func (f *FS) Extension() string {
	return f.ext
}

// IsMarkdown reports whether name carries the configured extension.
func (f *FS) IsMarkdown(name string) bool {
	return strings.HasSuffix(name, f.ext)
}

// CheckRoot verifies that root exists and is a directory.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage: %s: %w", root, apperr.ErrNotDirectory)
	}
	return nil
}

// Markdown walks root with filepath.WalkDir and yields matching regular files.
// Non-matching files are never opened.
func (f *FS) Markdown(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := CheckRoot(root); err != nil {
			yield("", err)
			return
		}
		stopped := false
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !d.Type().IsRegular() || !f.IsMarkdown(d.Name()) {
				return nil
			}
			if !yield(p, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			yield("", fmt.Errorf("storage: walk: %w", err))
		}
	}
}

// Read returns the raw bytes of a file.
func (f *FS) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename. The permission
// bits of an existing file are carried over to the replacement.
func (f *FS) Write(path string, content []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fmt.Errorf("storage: chmod temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
