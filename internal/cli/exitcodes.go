package cli

import (
	"errors"

	"github.com/yaklabco/rtjson/internal/configloader"
	"github.com/yaklabco/rtjson/pkg/fsutil"
	"github.com/yaklabco/rtjson/pkg/runner"
)

// Exit codes for rtjson.
const (
	// ExitSuccess indicates every input compiled.
	ExitSuccess = 0

	// ExitFailures indicates the batch finished but some files failed.
	ExitFailures = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrFilesFailed is returned by batch when at least one file failed.
	// The failures have already been reported.
	ErrFilesFailed = errors.New("one or more files failed")

	// ErrUsage marks command-line usage errors.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration errors.
	ErrConfig = errors.New("configuration error")
)

// ExitCodeFromResult determines the exit code of a batch run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitFailures
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var verr *configloader.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFilesFailed):
		return ExitFailures
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &verr):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fsutil.ErrTooLarge):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
