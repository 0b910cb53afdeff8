// Package runner compiles many Markdown files to RTJSON concurrently.
package runner

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/rtjson/pkg/config"
)

// Options controls discovery and batch compilation.
type Options struct {
	// Paths are the files or directories to process. Empty means ".".
	Paths []string

	// WorkingDir resolves relative Paths. Empty means the process working
	// directory.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot) considered
	// Markdown. Empty means DefaultExtensions().
	Extensions []string

	// ExcludeGlobs skip matching files and directories. Patterns are
	// matched against slash-separated paths relative to WorkingDir; "**"
	// crosses directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs bounds the number of files compiled at once. 0 or negative means
	// runtime.NumCPU().
	Jobs int

	// DryRun compiles without writing outputs.
	DryRun bool

	// Config is the resolved configuration for this run.
	Config *config.Config

	// Logger receives per-file debug records. Nil means silent.
	Logger *log.Logger
}

// DefaultExtensions returns the default set of Markdown file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) effectiveConfig() *config.Config {
	if o.Config == nil {
		return config.NewConfig()
	}
	return o.Config
}
