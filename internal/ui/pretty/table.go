package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/yaklabco/rtjson/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 4 // FILE, BLOCKS, BYTES, STATUS
	minFileWidth     = 20
	numberWidth      = 8
	minStatusWidth   = 12
	heavySeparator   = "="
	defaultTermWidth = 100
	ellipsis         = "..."
)

// Row status labels.
const (
	StatusWritten   = "written"
	StatusUnchanged = "unchanged"
	StatusFailed    = "failed"
)

// TableRow represents a single row in the batch table.
type TableRow struct {
	File   string
	Blocks int
	Bytes  int
	Status string
	Error  string
}

// TableFormatter formats batch outcomes as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// OutcomeToTableRow converts a runner outcome to a table row.
func OutcomeToTableRow(outcome runner.FileOutcome) TableRow {
	row := TableRow{File: outcome.Path}
	switch {
	case outcome.Error != nil:
		row.Status = StatusFailed
		row.Error = outcome.Error.Error()
	case outcome.Result != nil:
		row.Blocks = outcome.Result.Blocks
		row.Bytes = outcome.Result.Bytes
		row.Status = StatusUnchanged
		if outcome.Result.Written {
			row.Status = StatusWritten
		}
	}
	return row
}

// FormatTable formats runner results as a styled table.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	rows := make([]TableRow, 0, len(result.Files))
	for _, f := range result.Files {
		rows = append(rows, OutcomeToTableRow(f))
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder

	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	return builder.String()
}

type columnWidths struct {
	file   int
	status int
}

// calculateColumnWidths determines column widths based on content.
func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{file: minFileWidth, status: minStatusWidth}

	for _, row := range rows {
		widths.file = max(widths.file, ansi.PrintableRuneWidth(row.File))
		widths.status = max(widths.status, ansi.PrintableRuneWidth(statusText(row)))
	}

	// Shrink the status column first; error messages are the long ones.
	if excess := t.calculateTotalWidth(widths) - t.termWidth; excess > 0 {
		widths.status = max(minStatusWidth, widths.status-excess)
	}
	if excess := t.calculateTotalWidth(widths) - t.termWidth; excess > 0 {
		widths.file = max(minFileWidth, widths.file-excess)
	}

	return widths
}

func (t *TableFormatter) calculateTotalWidth(widths columnWidths) int {
	return widths.file + 2*numberWidth + widths.status + tablePadding*tableColumnCount
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %*s  %*s  %-*s",
		widths.file, "FILE",
		numberWidth, "BLOCKS",
		numberWidth, "BYTES",
		widths.status, "STATUS",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths) string {
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, t.calculateTotalWidth(widths)))
}

// formatRow pads every field before styling so ANSI codes do not skew
// the columns.
func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	file := padRight(truncateFilePath(row.File, widths.file), widths.file)
	status := padRight(truncateString(statusText(row), widths.status), widths.status)

	blocks, size := "-", "-"
	if row.Status != StatusFailed {
		blocks, size = strconv.Itoa(row.Blocks), strconv.Itoa(row.Bytes)
	}

	switch row.Status {
	case StatusFailed:
		file = t.styles.TableFailedRow.Render(file)
		status = t.styles.TableFailedRow.Render(status)
	case StatusWritten:
		status = t.styles.TableWritten.Render(status)
	default:
		status = t.styles.Dim.Render(status)
	}

	return fmt.Sprintf(" %s  %*s  %*s  %s", file, numberWidth, blocks, numberWidth, size, status)
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	parts := []string{fmt.Sprintf("%d %s compiled", stats.FilesCompiled, plural(stats.FilesCompiled, wordFile, wordFiles))}

	if stats.FilesWritten > 0 {
		parts = append(parts, t.styles.TableWritten.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}
	if stats.FilesUnchanged > 0 {
		parts = append(parts, t.styles.Dim.Render(fmt.Sprintf("%d unchanged", stats.FilesUnchanged)))
	}
	if stats.FilesFailed > 0 {
		parts = append(parts, t.styles.Failure.Render(fmt.Sprintf("%d failed", stats.FilesFailed)))
	}
	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}

	return " " + strings.Join(parts, " | ")
}

func statusText(row TableRow) string {
	if row.Error != "" {
		return row.Status + ": " + row.Error
	}
	return row.Status
}

// padRight pads s with spaces to width printable columns.
func padRight(s string, width int) string {
	if n := ansi.PrintableRuneWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// truncateString truncates a string to maxLen columns, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if ansi.PrintableRuneWidth(str) <= maxLen {
		return str
	}
	if maxLen <= len(ellipsis) {
		return truncate.String(str, uint(max(maxLen, 0)))
	}
	return truncate.StringWithTail(str, uint(maxLen), ellipsis)
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	runes := []rune(path)
	if len(runes) <= maxLen {
		return path
	}
	if maxLen <= len(ellipsis) {
		return string(runes[len(runes)-maxLen:])
	}
	return ellipsis + string(runes[len(runes)-maxLen+len(ellipsis):])
}
