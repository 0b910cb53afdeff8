package configloader

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/rtjson/pkg/config"
)

// envVarPrefix is the prefix for all rtjson environment variables.
const envVarPrefix = "RTJSON_"

// envSetter parses value and stores it on cfg.
type envSetter func(cfg *config.Config, value string) error

type envMapping struct {
	description string
	set         envSetter
}

// envMappings maps environment variable names (without prefix) to setters.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FLAVOR": {"Markdown flavor: commonmark or gfm", func(cfg *config.Config, v string) error {
		cfg.Flavor = config.Flavor(v)
		return nil
	}},
	"ENTITY_LINKS": {"Turn mentions into entity links: true or false", boolSetter(func(cfg *config.Config) **bool {
		return &cfg.EntityLinks
	})},
	"SPOILERS": {"Recognize >!spoilers!<: true or false", boolSetter(func(cfg *config.Config) **bool {
		return &cfg.Spoilers
	})},
	"ESCAPE_TEXT": {"HTML-escape text and URLs: true or false", boolSetter(func(cfg *config.Config) **bool {
		return &cfg.EscapeText
	})},
	"DETECT_CODE_LANGUAGE": {"Detect code block languages: true or false", boolSetter(func(cfg *config.Config) **bool {
		return &cfg.DetectCodeLanguage
	})},
	"INDENT": {"JSON indentation width (0 = compact)", intSetter(func(cfg *config.Config) *int {
		return &cfg.Indent
	})},
	"JOBS": {"Number of parallel workers (0 = auto)", intSetter(func(cfg *config.Config) *int {
		return &cfg.Jobs
	})},
	"OUTPUT_SUFFIX": {"Suffix for batch output files", func(cfg *config.Config, v string) error {
		cfg.OutputSuffix = v
		return nil
	}},
	"FORMAT": {"Batch summary format: text, table or json", func(cfg *config.Config, v string) error {
		cfg.Format = config.OutputFormat(v)
		return nil
	}},
	"IGNORE": {"Comma-separated list of ignore patterns", func(cfg *config.Config, v string) error {
		cfg.Ignore = parseSliceValue(v)
		return nil
	}},
}

func boolSetter(field func(*config.Config) **bool) envSetter {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		*field(cfg) = config.Bool(b)
		return nil
	}
}

func intSetter(field func(*config.Config) *int) envSetter {
	return func(cfg *config.Config, value string) error {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		*field(cfg) = i
		return nil
	}
}

// applyEnv applies RTJSON_* overrides found through lookup. Variables are
// applied in name order so error reporting is stable.
func applyEnv(cfg *config.Config, lookup func(string) (string, bool)) error {
	for _, suffix := range slices.Sorted(maps.Keys(envMappings)) {
		envVar := envVarPrefix + suffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}
		if err := envMappings[suffix].set(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", envVar, err)
		}
	}
	return nil
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns every supported environment variable with its
// description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings))
	for suffix, m := range envMappings {
		out[envVarPrefix+suffix] = m.description
	}
	return out
}
