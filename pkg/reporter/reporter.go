// Package reporter writes the outcome of a batch compilation run.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/rtjson/pkg/runner"
)

// Reporter writes a batch result. Report returns the number of failed
// files so callers can pick an exit code without inspecting the result.
type Reporter interface {
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New returns the Reporter for opts.Format. A nil Writer means stdout and
// an empty Format means text.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	switch opts.Format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatTable:
		return NewTableReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", opts.Format)
}
