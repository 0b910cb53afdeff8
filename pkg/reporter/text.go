package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/rtjson/internal/ui/pretty"
	"github.com/yaklabco/rtjson/pkg/runner"
)

// TextReporter lists failed files, and every file in verbose mode, followed
// by a one-line summary.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
}

// NewTextReporter creates a text reporter.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result.Empty() {
		r.opts.writeEmpty(bw, r.styles)
		return 0, nil
	}

	for _, file := range r.opts.relative(result).Files {
		switch {
		case file.Error != nil:
			fmt.Fprint(bw, r.styles.FormatFailure(file))
		case r.opts.Verbose && file.Result != nil:
			status := r.styles.Dim.Render(file.Result.Status.String())
			if file.Result.Written {
				status = r.styles.Success.Render(file.Result.Status.String())
			}
			fmt.Fprintf(bw, "%s -> %s  %s\n", r.styles.FilePath.Render(file.Path), file.Result.Output, status)
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return result.Stats.FilesFailed, nil
}
