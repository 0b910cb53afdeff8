package richtext

import "strings"

// Style is a bitmask of inline formatting styles.
type Style uint8

// Style bits. The values are part of the wire format.
const (
	StyleBold          Style = 1
	StyleItalic        Style = 2
	StyleUnderline     Style = 4
	StyleStrikethrough Style = 8
	StyleSubscript     Style = 16
	StyleSuperscript   Style = 32
	StyleCode          Style = 64
)

var styleNames = []struct {
	bit  Style
	name string
}{
	{StyleBold, "bold"},
	{StyleItalic, "italic"},
	{StyleUnderline, "underline"},
	{StyleStrikethrough, "strikethrough"},
	{StyleSubscript, "subscript"},
	{StyleSuperscript, "superscript"},
	{StyleCode, "code"},
}

// Has reports whether all bits of other are set in s.
func (s Style) Has(other Style) bool {
	return s&other == other
}

// String returns the set style names joined by "+", e.g. "bold+italic".
func (s Style) String() string {
	if s == 0 {
		return "none"
	}
	var parts []string
	for _, sn := range styleNames {
		if s.Has(sn.bit) {
			parts = append(parts, sn.name)
		}
	}
	return strings.Join(parts, "+")
}

// FormatRange applies Style to Length characters of the owning Text node,
// starting at character offset Start.
type FormatRange struct {
	Style  Style
	Start  int
	Length int
}

// End returns the exclusive end offset of the range.
func (r FormatRange) End() int {
	return r.Start + r.Length
}
