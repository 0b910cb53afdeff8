package fsutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode of newly written outputs.
const DefaultFileMode os.FileMode = 0o644

// WriteStatus reports what WriteAtomicIfChanged did.
type WriteStatus int

const (
	// Written means the file was created or replaced.
	Written WriteStatus = iota
	// Unchanged means the file already held the content.
	Unchanged
)

func (s WriteStatus) String() string {
	if s == Unchanged {
		return "unchanged"
	}
	return "written"
}

// WriteAtomic writes content to path through a temp file in the same
// directory and a rename. A zero mode means DefaultFileMode. On error the
// previous file is left untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	tmpPath, err := writeTemp(path, content, mode)
	if err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// writeTemp writes a synced sibling temp file of path and returns its name.
func writeTemp(path string, content []byte, mode os.FileMode) (tmpPath string, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath = tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, mode); err != nil {
		return "", fmt.Errorf("chmod temp file: %w", err)
	}

	return tmpPath, nil
}

// WriteAtomicIfChanged writes content with WriteAtomic unless path already
// holds exactly that content.
func WriteAtomicIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (WriteStatus, error) {
	if err := ctx.Err(); err != nil {
		return Written, fmt.Errorf("write atomic: %w", err)
	}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, content):
		return Unchanged, nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return Written, fmt.Errorf("read existing: %w", err)
	}

	if err := WriteAtomic(ctx, path, content, mode); err != nil {
		return Written, err
	}
	return Written, nil
}
