package richtext

import "github.com/yaklabco/rtjson/pkg/event"

// InlineKind classifies an inline node.
type InlineKind uint8

// Inline node kinds.
const (
	InlineText InlineKind = iota
	InlineLink
	InlineEntityLink
	InlineSpoiler
	InlineLineBreak
	InlineRaw
)

// String returns the name of the inline kind.
func (k InlineKind) String() string {
	switch k {
	case InlineText:
		return "Text"
	case InlineLink:
		return "Link"
	case InlineEntityLink:
		return "EntityLink"
	case InlineSpoiler:
		return "Spoiler"
	case InlineLineBreak:
		return "LineBreak"
	case InlineRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Inline is the closed set of inline nodes.
type Inline interface {
	Kind() InlineKind
	isInline()
}

// Text is a run of text with the format ranges that apply to it.
// Ranges are measured in characters (runes) of Text.
type Text struct {
	Text   string
	Ranges []FormatRange
}

// Link is a hyperlink with plain display text.
type Link struct {
	Text  string
	URL   string
	Title string
}

// EntityLink is a resolved shorthand entity reference.
type EntityLink struct {
	Entity event.EntityKind
	ID     string
}

// Spoiler hides its nested content until revealed.
type Spoiler struct {
	Content []Inline
}

// LineBreak is a hard line break.
type LineBreak struct{}

// Raw is markup passed through without escaping.
type Raw struct {
	Text string
}

func (*Text) Kind() InlineKind       { return InlineText }
func (*Link) Kind() InlineKind       { return InlineLink }
func (*EntityLink) Kind() InlineKind { return InlineEntityLink }
func (*Spoiler) Kind() InlineKind    { return InlineSpoiler }
func (*LineBreak) Kind() InlineKind  { return InlineLineBreak }
func (*Raw) Kind() InlineKind        { return InlineRaw }

func (*Text) isInline()       {}
func (*Link) isInline()       {}
func (*EntityLink) isInline() {}
func (*Spoiler) isInline()    {}
func (*LineBreak) isInline()  {}
func (*Raw) isInline()        {}
