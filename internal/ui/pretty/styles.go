// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Status styles
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Outline components
	BlockKind  lipgloss.Style
	InlineKind lipgloss.Style
	Attr       lipgloss.Style
	Text       lipgloss.Style
	Range      lipgloss.Style
	Entity     lipgloss.Style
	URL        lipgloss.Style
	Guide      lipgloss.Style

	// Summary styles
	FilePath     lipgloss.Style
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableFailedRow lipgloss.Style
	TableWritten   lipgloss.Style
	TableSeparator lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),

		BlockKind:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		InlineKind: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Attr:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Text:       lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Range:      lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Entity:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		URL:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true),
		Guide:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		FilePath:     lipgloss.NewStyle().Bold(true),
		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		TableHeader:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableFailedRow: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),  // Red text
		TableWritten:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // Green
		TableSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:          plain,
		Warning:        plain,
		Info:           plain,
		BlockKind:      plain,
		InlineKind:     plain,
		Attr:           plain,
		Text:           plain,
		Range:          plain,
		Entity:         plain,
		URL:            plain,
		Guide:          plain,
		FilePath:       plain,
		SummaryTitle:   plain,
		SummaryValue:   plain,
		Success:        plain,
		Failure:        plain,
		TableHeader:    plain,
		TableFailedRow: plain,
		TableWritten:   plain,
		TableSeparator: plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
