package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/rtjson/internal/ui/pretty"
	"github.com/yaklabco/rtjson/pkg/runner"
)

// fallbackWidth is the table width when the writer is not a terminal.
const fallbackWidth = 100

// TableReporter prints one row per file with its block count, output size
// and status.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
}

// NewTableReporter creates a table reporter sized to the terminal.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)
	width := pretty.TerminalWidth(opts.Writer, fallbackWidth)

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, colorEnabled, width),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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

	fmt.Fprint(bw, r.formatter.FormatTable(r.opts.relative(result)))
	if r.opts.ShowSummary {
		fmt.Fprintln(bw, r.formatter.FormatTableSummary(result.Stats, ""))
	}

	return result.Stats.FilesFailed, nil
}
