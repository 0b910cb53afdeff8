package config

import (
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every option with its default value. Otherwise optional
	// settings are left commented out.
	Full bool
}

type templateOption struct {
	comment string
	key     string
	value   string
}

//nolint:gochecknoglobals // Read-only template table.
var templateOptions = []templateOption{
	{"Markdown flavor: commonmark or gfm", "flavor", string(FlavorGFM)},
	{"Turn u/name and r/name mentions into entity links", "entity_links", "true"},
	{"Turn >!text!< into spoilers", "spoilers", "true"},
	{"HTML-escape text and link URLs", "escape_text", "true"},
	{"Guess a language for code blocks without one", "detect_code_language", "false"},
	{"JSON indentation width (0 = compact)", "indent", "0"},
	{"Suffix appended to each input path by 'rtjson batch'", "output_suffix", fmt.Sprintf("%q", DefaultOutputSuffix)},
}

// GenerateTemplate creates a commented YAML configuration file.
func GenerateTemplate(opts TemplateOptions) []byte {
	var sb strings.Builder

	sb.WriteString("# rtjson configuration\n")

	for i, opt := range templateOptions {
		sb.WriteString("\n# " + opt.comment + "\n")
		if opts.Full || i == 0 {
			sb.WriteString(opt.key + ": " + opt.value + "\n")
		} else {
			sb.WriteString("# " + opt.key + ": " + opt.value + "\n")
		}
	}

	sb.WriteString("\n# File patterns to skip in batch mode (glob patterns)\n")
	if opts.Full {
		sb.WriteString("ignore:\n  - \"node_modules/**\"\n")
	} else {
		sb.WriteString("# ignore:\n#   - \"node_modules/**\"\n")
	}

	return []byte(sb.String())
}
