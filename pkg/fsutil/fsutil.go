// Package fsutil provides the file system primitives used by rtjson: input
// reading with categorized errors and atomic output writes.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// StdinPath is the input path that selects standard input.
const StdinPath = "-"

// MaxInputSize bounds how much Markdown a single input may hold.
const MaxInputSize = 64 << 20

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrTooLarge indicates the input exceeds MaxInputSize.
	ErrTooLarge = errors.New("input too large")
)

// FileInfo captures the state of an input file when it was read.
type FileInfo struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64

	// Hash is the SHA-256 hash of the content.
	Hash [32]byte
}

// ReadFile reads a file and returns its content along with metadata.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, categorize(path, "stat", err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	if stat.Size() > MaxInputSize {
		return nil, nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, path, stat.Size())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, categorize(path, "read", err)
	}

	return content, &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}, nil
}

// ReadInput reads path, or stdin when path is empty or StdinPath.
func ReadInput(ctx context.Context, path string, stdin io.Reader) ([]byte, error) {
	if path != "" && path != StdinPath {
		content, _, err := ReadFile(ctx, path)
		return content, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	content, err := io.ReadAll(io.LimitReader(stdin, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(content) > MaxInputSize {
		return nil, fmt.Errorf("%w: stdin", ErrTooLarge)
	}
	return content, nil
}

// OutputPath returns the path batch output for input is written to.
func OutputPath(input, suffix string) string {
	return input + suffix
}

// IsOutput reports whether path looks like a file written by OutputPath.
func IsOutput(path, suffix string) bool {
	return suffix != "" && strings.HasSuffix(path, suffix)
}

func categorize(path, op string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
}
