package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/rtjson/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "Compiled 3 files (2 written, 1 unchanged), 14 blocks, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No Markdown files found") + "\n"
	}

	head := fmt.Sprintf("Compiled %d %s", stats.FilesCompiled, plural(stats.FilesCompiled, wordFile, wordFiles))
	if stats.FilesFailed == 0 {
		head = s.Success.Render(head)
	}

	var detail []string
	if stats.FilesWritten > 0 {
		detail = append(detail, fmt.Sprintf("%d written", stats.FilesWritten))
	}
	if stats.FilesUnchanged > 0 {
		detail = append(detail, fmt.Sprintf("%d unchanged", stats.FilesUnchanged))
	}

	parts := []string{head}
	if len(detail) > 0 {
		parts[0] += s.Dim.Render(" (" + strings.Join(detail, ", ") + ")")
	}
	parts = append(parts, fmt.Sprintf("%d %s", stats.Blocks, plural(stats.Blocks, "block", "blocks")))

	if stats.FilesFailed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesFailed)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files discovered:  " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files compiled:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesCompiled)) + "\n")

	if stats.FilesWritten > 0 {
		builder.WriteString("    Written:         " +
			s.Success.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}
	if stats.FilesUnchanged > 0 {
		builder.WriteString("    Unchanged:       " +
			s.Dim.Render(strconv.Itoa(stats.FilesUnchanged)) + "\n")
	}
	if stats.FilesFailed > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(stats.FilesFailed)) + "\n")
	}

	builder.WriteString("  Blocks:            " +
		s.SummaryValue.Render(strconv.Itoa(stats.Blocks)) + "\n")

	builder.WriteString("\n")

	if stats.FilesFailed > 0 {
		builder.WriteString(s.Failure.Render("Batch completed with failures"))
	} else {
		builder.WriteString(s.Success.Render("Batch completed"))
	}
	builder.WriteString("\n")

	return builder.String()
}

// FormatFailure formats one failed file.
func (s *Styles) FormatFailure(outcome runner.FileOutcome) string {
	return fmt.Sprintf("%s: %s\n",
		s.FilePath.Render(outcome.Path),
		s.Error.Render(fmt.Sprintf("error: %v", outcome.Error)),
	)
}
