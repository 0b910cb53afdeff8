package reporter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/rtjson/pkg/config"
)

// Format names a batch summary layout. The values match
// config.OutputFormat so a configured format can be used directly.
type Format string

// Summary layouts.
const (
	FormatText  Format = Format(config.FormatText)
	FormatTable Format = Format(config.FormatTable)
	FormatJSON  Format = Format(config.FormatJSON)
)

// Formats lists every layout in the order help text shows them.
func Formats() []Format {
	return []Format{FormatText, FormatTable, FormatJSON}
}

// ParseFormat parses a format name. The empty name means text.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	format := Format(name)
	if !format.IsValid() {
		names := make([]string, 0, len(Formats()))
		for _, f := range Formats() {
			names = append(names, string(f))
		}
		return "", fmt.Errorf("unknown format %q; valid formats: %s", name, strings.Join(names, ", "))
	}
	return format, nil
}

func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f is one of Formats.
func (f Format) IsValid() bool {
	return slices.Contains(Formats(), f)
}
