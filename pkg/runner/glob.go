package runner

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// pattern is a compiled exclude glob. Patterns without a slash also match
// the base name, so "*.draft.md" skips drafts in every directory.
type pattern struct {
	glob     glob.Glob
	baseName bool
}

type patternSet []pattern

// compileGlobs compiles exclude patterns with "/" as the separator.
func compileGlobs(globs []string) (patternSet, error) {
	set := make(patternSet, 0, len(globs))
	for _, g := range globs {
		g = strings.TrimPrefix(g, "./")
		compiled, err := glob.Compile(g, '/')
		if err != nil {
			return nil, fmt.Errorf("compile glob %q: %w", g, err)
		}
		set = append(set, pattern{glob: compiled, baseName: !strings.Contains(g, "/")})
	}
	return set, nil
}

// match reports whether the slash-separated relative path matches. A
// directory also matches patterns that cover its contents, like "vendor/**".
func (s patternSet) match(rel string, dir bool) bool {
	for _, p := range s {
		if p.glob.Match(rel) {
			return true
		}
		if dir && p.glob.Match(rel+"/") {
			return true
		}
		if p.baseName && p.glob.Match(path.Base(rel)) {
			return true
		}
	}
	return false
}
