package runner

import "github.com/yaklabco/rtjson/pkg/fsutil"

// FileResult describes one compiled file.
type FileResult struct {
	// Output is the path the encoding was (or would be) written to.
	Output string

	// Blocks is the number of top-level blocks in the document.
	Blocks int

	// Bytes is the size of the encoding.
	Bytes int

	// Status reports whether the output changed on disk.
	Status fsutil.WriteStatus

	// Written is true when the output file was created or replaced.
	Written bool
}

// FileOutcome pairs an input path with its result or error.
type FileOutcome struct {
	Path   string
	Result *FileResult
	Error  error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesCompiled   int
	FilesWritten    int
	FilesUnchanged  int
	FilesFailed     int

	// Blocks is the total number of top-level blocks compiled.
	Blocks int
}

// Result is the overall runner result.
type Result struct {
	// Files holds one outcome per processed file, ordered by path.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether any file failed to compile or write.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0
}

// Empty reports whether the run found nothing to compile.
func (r *Result) Empty() bool {
	return r == nil || len(r.Files) == 0
}

// Failures returns the outcomes that carry an error.
func (r *Result) Failures() []FileOutcome {
	if r == nil {
		return nil
	}
	var out []FileOutcome
	for _, f := range r.Files {
		if f.Error != nil {
			out = append(out, f)
		}
	}
	return out
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesFailed++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesCompiled++
	r.Stats.Blocks += outcome.Result.Blocks
	if outcome.Result.Written {
		r.Stats.FilesWritten++
	} else {
		r.Stats.FilesUnchanged++
	}
}
