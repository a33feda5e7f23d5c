// Package fileutil writes keystore and config files without leaving a
// partially written file behind.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEmptyPath indicates an empty file path was provided.
var ErrEmptyPath = errors.New("path is empty")

const dirPerm = 0o750

// WriteAtomic replaces path with data. Readers see either the old or the
// new content, never a mix.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	tmpPath, err := writeTemp(path, data, perm)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmpPath) }()

	if err := os.Rename(tmpPath, path); err != nil { //nolint:gosec // G703: path comes from config
		return fmt.Errorf("renaming temp file: %w", err)
	}
	syncDir(filepath.Dir(path))
	return nil
}

// CreateAtomic writes data to path only if path does not exist yet.
// An existing file is left untouched and the error wraps fs.ErrExist.
func CreateAtomic(path string, data []byte, perm os.FileMode) error {
	tmpPath, err := writeTemp(path, data, perm)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmpPath) }()

	// Link fails when the target exists, unlike Rename.
	if err := os.Link(tmpPath, path); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	syncDir(filepath.Dir(path))
	return nil
}

// writeTemp writes data to a synced temp file next to path.
func writeTemp(path string, data []byte, perm os.FileMode) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	fail := func(step string, err error) (string, error) {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%s temp file: %w", step, err)
	}

	if _, err := tmpFile.Write(data); err != nil {
		return fail("writing", err)
	}
	if err := tmpFile.Chmod(perm); err != nil {
		return fail("setting permissions on", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fail("syncing", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return tmpPath, nil
}

// syncDir makes a rename or link durable. Best effort.
func syncDir(dir string) {
	if d, err := os.Open(dir); err == nil { //nolint:gosec // G304: dir is derived from the target path
		_ = d.Sync()
		_ = d.Close()
	}
}
