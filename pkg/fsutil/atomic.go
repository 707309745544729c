// Package fsutil provides crash-safe file replacement for generated corpus
// and config files.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for newly created files.
const DefaultFileMode os.FileMode = 0o644

// DefaultDirMode is the permission mode for directories created on demand.
const DefaultDirMode os.FileMode = 0o755

// ErrClosed is returned when an AtomicFile is used after Commit or Abort.
var ErrClosed = errors.New("atomic file already closed")

// AtomicFile buffers writes in a temp file next to its target. The target
// is replaced on Commit and left untouched on Abort.
type AtomicFile struct {
	path string
	mode os.FileMode
	tmp  *os.File
	done bool
}

// CreateAtomic starts an atomic replacement of path. The parent directory
// is created if missing. A zero mode selects DefaultFileMode.
func CreateAtomic(path string, mode os.FileMode) (*AtomicFile, error) {
	if mode == 0 {
		mode = DefaultFileMode
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DefaultDirMode); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &AtomicFile{path: path, mode: mode, tmp: tmp}, nil
}

// Path returns the target path.
func (f *AtomicFile) Path() string {
	return f.path
}

// Write appends to the pending content.
func (f *AtomicFile) Write(p []byte) (int, error) {
	if f.done {
		return 0, ErrClosed
	}
	n, err := f.tmp.Write(p)
	if err != nil {
		return n, fmt.Errorf("write temp file: %w", err)
	}
	return n, nil
}

// WriteString appends s to the pending content.
func (f *AtomicFile) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}

// Commit syncs the pending content and renames it over the target.
// On failure the temp file is removed.
func (f *AtomicFile) Commit() error {
	if f.done {
		return ErrClosed
	}
	f.done = true

	err := f.finish()
	if err != nil {
		_ = f.tmp.Close()
		_ = os.Remove(f.tmp.Name())
	}
	return err
}

func (f *AtomicFile) finish() error {
	if err := f.tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(f.tmp.Name(), f.mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Abort discards the pending content. It is safe to call after Commit,
// which makes it suitable for defer.
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	_ = f.tmp.Close()
	_ = os.Remove(f.tmp.Name())
}

// WriteAtomic replaces path with content in one step.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}

	file, err := CreateAtomic(path, mode)
	if err != nil {
		return err
	}
	defer file.Abort()

	if _, err := file.Write(content); err != nil {
		return err
	}
	return file.Commit()
}
