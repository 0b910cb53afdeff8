// Package event defines the parse events consumed by the rich-text compiler.
//
// Events form a closed sum type: Start, End, Text, RawMarkup,
// InlineRawMarkup, SoftBreak, HardBreak and FootnoteReference. Consumers
// type-switch over them and treat anything else as a contract violation.
package event

import "fmt"

// Event is a single item of the event stream.
type Event interface {
	isEvent()
}

type (
	// Start opens the construct described by Tag.
	Start struct {
		Tag Tag
	}

	// End closes the construct described by Tag.
	End struct {
		Tag Tag
	}

	// Text carries plain, unescaped text.
	Text struct {
		Text string
	}

	// RawMarkup carries block-level markup that is passed through verbatim.
	RawMarkup struct {
		Markup string
	}

	// InlineRawMarkup carries inline markup that is passed through verbatim.
	InlineRawMarkup struct {
		Markup string
	}

	SoftBreak struct{}
	HardBreak struct{}

	// FootnoteReference refers to a footnote by name.
	FootnoteReference struct {
		Name string
	}
)

func (Start) isEvent()             {}
func (End) isEvent()               {}
func (Text) isEvent()              {}
func (RawMarkup) isEvent()         {}
func (InlineRawMarkup) isEvent()   {}
func (SoftBreak) isEvent()         {}
func (HardBreak) isEvent()         {}
func (FootnoteReference) isEvent() {}

// Describe returns a short human-readable description of an event for
// error messages and debug logs.
func Describe(ev Event) string {
	switch e := ev.(type) {
	case Start:
		return "Start(" + e.Tag.Kind().String() + ")"
	case End:
		return "End(" + e.Tag.Kind().String() + ")"
	case Text:
		return fmt.Sprintf("Text(%q)", e.Text)
	case RawMarkup:
		return fmt.Sprintf("RawMarkup(%q)", e.Markup)
	case InlineRawMarkup:
		return fmt.Sprintf("InlineRawMarkup(%q)", e.Markup)
	case SoftBreak:
		return "SoftBreak"
	case HardBreak:
		return "HardBreak"
	case FootnoteReference:
		return fmt.Sprintf("FootnoteReference(%q)", e.Name)
	default:
		return fmt.Sprintf("%T", ev)
	}
}
