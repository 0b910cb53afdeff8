package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/rtjson/internal/ui/pretty"
	"github.com/yaklabco/rtjson/pkg/runner"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Verbose lists every file, not only failures (text format).
	Verbose bool

	// Compact uses compact/minified output where applicable.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       "auto",
		ShowSummary: true,
	}
}

// displayPath makes path relative to the working directory when it lies
// below it.
func (o Options) displayPath(path string) string {
	if o.WorkingDir == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(o.WorkingDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// relative returns a copy of result whose input and output paths are
// display paths.
func (o Options) relative(result *runner.Result) *runner.Result {
	out := &runner.Result{Files: make([]runner.FileOutcome, len(result.Files)), Stats: result.Stats}
	for i, f := range result.Files {
		f.Path = o.displayPath(f.Path)
		if f.Result != nil {
			res := *f.Result
			res.Output = o.displayPath(res.Output)
			f.Result = &res
		}
		out.Files[i] = f
	}
	return out
}

func (o Options) writeEmpty(w io.Writer, styles *pretty.Styles) {
	if o.ShowSummary {
		fmt.Fprintln(w, styles.Dim.Render("No files to compile."))
	}
}
