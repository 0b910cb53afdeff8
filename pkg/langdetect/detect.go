// Package langdetect guesses the language of untagged code blocks so the
// compiled document can still carry a syntax highlighting hint.
// It uses go-enry for shebang, modeline and classifier based detection.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is returned when no language could be determined.
const Text = "text"

// DefaultCandidates are the go-enry language names the classifier chooses
// between when no cheaper signal matched.
var DefaultCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Detector detects code block languages.
// A Detector is safe for concurrent use.
type Detector struct {
	candidates []string
	minLength  int
}

// Option configures a Detector.
type Option func(*Detector)

// WithCandidates restricts classifier output to the given go-enry names.
func WithCandidates(names ...string) Option {
	return func(d *Detector) {
		if len(names) > 0 {
			d.candidates = names
		}
	}
}

// WithMinLength sets the minimum trimmed code size, in bytes, below which
// detection is not attempted.
func WithMinLength(n int) Option {
	return func(d *Detector) {
		d.minLength = max(n, 0)
	}
}

// New creates a Detector.
func New(opts ...Option) *Detector {
	d := &Detector{candidates: DefaultCandidates, minLength: 1}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDetector = New()

// Detect runs the default Detector.
func Detect(code []byte) string {
	return defaultDetector.Detect(code)
}

// Detect returns a lowercase fence tag such as "go" or "bash", or Text.
func (d *Detector) Detect(code []byte) string {
	s := newSample(code)
	if len(s.trimmed) < d.minLength || len(s.trimmed) == 0 {
		return Text
	}

	if lang, safe := enry.GetLanguageByShebang(code); safe {
		return fenceTag(lang)
	}
	if lang, safe := enry.GetLanguageByModeline(code); safe {
		return fenceTag(lang)
	}

	for _, p := range patterns {
		if p.match(s) {
			return p.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(code, d.candidates); safe && lang != "" {
		return fenceTag(lang)
	}
	return Text
}

// sample holds the views of the code the pattern matchers look at.
type sample struct {
	raw          []byte
	trimmed      []byte
	text         string
	trimmedUpper string
}

func newSample(code []byte) sample {
	trimmed := bytes.TrimSpace(code)
	return sample{
		raw:          code,
		trimmed:      trimmed,
		text:         string(code),
		trimmedUpper: strings.ToUpper(string(trimmed)),
	}
}

// patterns are highly indicative signals, checked most specific first.
var patterns = []struct {
	lang  string
	match func(s sample) bool
}{
	{"go", func(s sample) bool {
		return bytes.HasPrefix(s.trimmed, []byte("package "))
	}},
	{"python", isPython},
	{"html", func(s sample) bool {
		lower := bytes.ToLower(s.trimmed)
		return containsAny(string(lower), "<!doctype html", "<html", "<head>", "<body>")
	}},
	{"json", func(s sample) bool {
		return (bytes.HasPrefix(s.trimmed, []byte("{")) || bytes.HasPrefix(s.trimmed, []byte("["))) &&
			bytes.ContainsRune(s.trimmed, '"')
	}},
	{"dockerfile", func(s sample) bool {
		return bytes.HasPrefix(s.trimmed, []byte("FROM ")) ||
			(strings.Contains(s.text, "\nFROM ") && strings.Contains(s.text, "\nRUN ")) ||
			(strings.Contains(s.text, "WORKDIR ") && strings.Contains(s.text, "COPY "))
	}},
	{"sql", func(s sample) bool {
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(s.trimmedUpper, kw) {
				return true
			}
		}
		return false
	}},
	{"rust", func(s sample) bool {
		return containsAny(s.text, "fn main()", "println!", "let mut ")
	}},
	{"javascript", func(s sample) bool {
		return containsAny(s.text, "=>", "const ", "let ", "console.log")
	}},
	{"yaml", isYAML},
}

func isPython(s sample) bool {
	if strings.Contains(s.text, "def ") && strings.Contains(s.text, "):") {
		return true
	}
	// Go imports use "import (".
	if strings.Contains(s.text, "import ") && !strings.Contains(s.text, "import (") {
		if strings.Contains(s.text, "from ") || bytes.HasPrefix(s.trimmed, []byte("import ")) {
			return true
		}
	}
	return containsAny(s.text, "__name__", "__main__")
}

// isYAML counts key: value lines and root list items.
func isYAML(s sample) bool {
	keys := 0
	for line := range bytes.SplitSeq(s.raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) &&
			!bytes.ContainsAny(line, "({") &&
			line[0] != '"' {
			keys++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			keys++
		}
		if keys >= 2 {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// fenceTag converts a go-enry language name to a code fence tag.
func fenceTag(lang string) string {
	switch lang {
	case "Shell":
		return "bash"
	case "C++":
		return "cpp"
	case "C#":
		return "csharp"
	default:
		return strings.ToLower(strings.ReplaceAll(lang, " ", "-"))
	}
}
