// Package config defines core configuration types for rtjson.
// These types are pure data structures with no dependency on the loader.
package config

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// OutputFormat specifies how batch results are reported.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

// DefaultOutputSuffix is appended to each input path by the batch command.
const DefaultOutputSuffix = ".rtjson.json"

// Config is the root configuration structure for rtjson.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `mapstructure:"flavor" yaml:"flavor"`

	// EntityLinks turns u/name and r/name mentions into entity links.
	// Nil means enabled.
	EntityLinks *bool `mapstructure:"entity_links" yaml:"entity_links,omitempty"`

	// Spoilers turns >!text!< runs into spoilers. Nil means enabled.
	Spoilers *bool `mapstructure:"spoilers" yaml:"spoilers,omitempty"`

	// EscapeText HTML-escapes text and URLs. Nil means enabled.
	EscapeText *bool `mapstructure:"escape_text" yaml:"escape_text,omitempty"`

	// DetectCodeLanguage guesses a language for untagged code blocks.
	DetectCodeLanguage *bool `mapstructure:"detect_code_language" yaml:"detect_code_language,omitempty"`

	// Indent is the JSON indentation width. Zero writes compact JSON.
	Indent int `mapstructure:"indent" yaml:"indent,omitempty"`

	// OutputSuffix is appended to input paths in batch mode.
	OutputSuffix string `mapstructure:"output_suffix" yaml:"output_suffix,omitempty"`

	// Ignore contains glob patterns for files to skip in batch mode.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers. 0 means GOMAXPROCS.
	Jobs int `mapstructure:"-" yaml:"-"`

	// Format specifies the batch summary format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// Output is the output path of the compile command. Empty means stdout.
	Output string `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Flavor:             FlavorGFM,
		EntityLinks:        Bool(true),
		Spoilers:           Bool(true),
		EscapeText:         Bool(true),
		DetectCodeLanguage: Bool(false),
		OutputSuffix:       DefaultOutputSuffix,
		Format:             FormatText,
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// EntityLinksEnabled reports whether mentions become entity links.
func (c *Config) EntityLinksEnabled() bool { return boolOr(c.EntityLinks, true) }

// SpoilersEnabled reports whether spoiler markers are recognized.
func (c *Config) SpoilersEnabled() bool { return boolOr(c.Spoilers, true) }

// EscapeTextEnabled reports whether text and URLs are HTML-escaped.
func (c *Config) EscapeTextEnabled() bool { return boolOr(c.EscapeText, true) }

// DetectCodeLanguageEnabled reports whether untagged code blocks get a
// detected language.
func (c *Config) DetectCodeLanguageEnabled() bool { return boolOr(c.DetectCodeLanguage, false) }

// Suffix returns the batch output suffix, falling back to the default.
func (c *Config) Suffix() string {
	if c.OutputSuffix == "" {
		return DefaultOutputSuffix
	}
	return c.OutputSuffix
}
