// Package escape provides the text and URL escapers applied to compiled
// documents before they are handed to a client renderer.
package escape

import (
	"github.com/yuin/goldmark/util"
)

// HTML escapes text the way goldmark's HTML renderer does and percent-encodes
// URLs. It is the escaper used by the rtjson CLI.
type HTML struct{}

// EscapeText replaces &, <, > and " with their HTML entities.
func (HTML) EscapeText(s string) string {
	if s == "" {
		return s
	}
	return string(util.EscapeHTML([]byte(s)))
}

// EscapeURL percent-encodes characters that are not allowed in a URL.
// Existing percent escapes are kept.
func (HTML) EscapeURL(s string) string {
	if s == "" {
		return s
	}
	return string(util.URLEscape([]byte(s), false))
}

// Passthrough leaves every string untouched.
type Passthrough struct{}

// EscapeText implements the compiler's Escaper.
func (Passthrough) EscapeText(s string) string { return s }

// EscapeURL implements the compiler's Escaper.
func (Passthrough) EscapeURL(s string) string { return s }

var (
	// Default is the HTML escaper.
	Default = HTML{}

	// None disables escaping.
	None = Passthrough{}
)
