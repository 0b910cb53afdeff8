package compiler

import (
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/rtjson/pkg/event"
	"github.com/yaklabco/rtjson/pkg/richtext"
)

// inlineScope is one level of inline nesting: the root of a block's inline
// content, or the inside of a link, entity link or spoiler.
type inlineScope struct {
	// tag opened the scope; nil for the root scope.
	tag event.Tag

	nodes []richtext.Inline

	// pending is the text of the Text node currently being built and
	// length its size in characters.
	pending strings.Builder
	length  int

	ranges rangeTracker

	// inherited counts the spans copied from the parent when the scope
	// opened. They close with the parent, not inside this scope.
	inherited int
}

func (s *inlineScope) kind() (event.TagKind, bool) {
	if s.tag == nil {
		return 0, false
	}
	return s.tag.Kind(), true
}

// innerSpan returns the style of the innermost span opened inside this scope.
func (s *inlineScope) innerSpan() (richtext.Style, bool) {
	if len(s.ranges.open) <= s.inherited {
		return 0, false
	}
	return s.ranges.open[len(s.ranges.open)-1].style, true
}

func (s *inlineScope) appendText(text string) {
	s.pending.WriteString(text)
	s.length += utf8.RuneCountInString(text)
}

// flush turns the pending text into a Text node carrying every range
// recorded against it. Open spans carry over to the next accumulator.
func (s *inlineScope) flush() {
	ranges := s.ranges.flush(s.length)
	if s.length == 0 {
		return
	}
	s.nodes = append(s.nodes, &richtext.Text{Text: s.pending.String(), Ranges: ranges})
	s.pending.Reset()
	s.length = 0
}

// inlineRun builds the inline content of one block-level container.
type inlineRun struct {
	escaper Escaper
	scopes  []*inlineScope
}

func newInlineRun(escaper Escaper) *inlineRun {
	return &inlineRun{
		escaper: escaper,
		scopes:  []*inlineScope{{}},
	}
}

func (r *inlineRun) current() *inlineScope {
	return r.scopes[len(r.scopes)-1]
}

// text appends escaped text to the pending accumulator.
func (r *inlineRun) text(s string) {
	r.current().appendText(r.escaper.EscapeText(s))
}

func (r *inlineRun) softBreak() {
	r.current().appendText("\n")
}

func (r *inlineRun) hardBreak() {
	scope := r.current()
	scope.flush()
	scope.nodes = append(scope.nodes, &richtext.LineBreak{})
}

// raw emits markup verbatim as its own node.
func (r *inlineRun) raw(markup string) {
	scope := r.current()
	scope.flush()
	scope.nodes = append(scope.nodes, &richtext.Raw{Text: markup})
}

// label emits a plain Text node with no format ranges.
func (r *inlineRun) label(text string) {
	scope := r.current()
	scope.flush()
	scope.nodes = append(scope.nodes, &richtext.Text{Text: text})
}

func (r *inlineRun) openStyle(style richtext.Style) {
	scope := r.current()
	scope.ranges.push(style, scope.length)
}

func (r *inlineRun) closeStyle(kind event.TagKind) error {
	scope := r.current()
	if _, ok := scope.innerSpan(); !ok {
		if open, nested := scope.kind(); nested {
			return mismatch("%s closed with no style span open inside %s", kind, open)
		}
		return mismatch("%s closed with no open style span", kind)
	}
	scope.ranges.pop(scope.length)
	return nil
}

// openScope flushes the pending text and starts a nested scope for tag.
func (r *inlineRun) openScope(tag event.Tag) {
	outer := r.current()
	outer.flush()

	inner := &inlineScope{tag: tag}
	if tag.Kind() == event.KindSpoiler {
		inner.ranges = outer.ranges.inherit()
		inner.inherited = len(inner.ranges.open)
	}
	r.scopes = append(r.scopes, inner)
}

// closeScope finishes the innermost nested scope, which must have been
// opened by a tag of the given kind, and emits its node into the parent.
func (r *inlineRun) closeScope(kind event.TagKind) error {
	scope := r.current()
	open, ok := scope.kind()
	if !ok {
		return mismatch("%s closed with no open inline scope", kind)
	}
	if open != kind {
		return mismatch("%s closed while %s is open", kind, open)
	}
	if style, ok := scope.innerSpan(); ok {
		return mismatch("%s closed while %s span is open", kind, style)
	}

	scope.flush()
	r.scopes = r.scopes[:len(r.scopes)-1]
	parent := r.current()

	switch tag := scope.tag.(type) {
	case event.Link:
		parent.nodes = append(parent.nodes, &richtext.Link{
			Text:  r.plainText(scope.nodes),
			URL:   r.escaper.EscapeURL(tag.URL),
			Title: r.escaper.EscapeText(tag.Title),
		})
	case event.Image:
		parent.nodes = append(parent.nodes, &richtext.Link{
			Text:  r.plainText(scope.nodes),
			URL:   r.escaper.EscapeURL(tag.URL),
			Title: r.escaper.EscapeText(tag.Title),
		})
	case event.EntityLink:
		parent.nodes = append(parent.nodes, &richtext.EntityLink{
			Entity: tag.Entity,
			ID:     r.escaper.EscapeURL(tag.ID),
		})
	case event.Spoiler:
		parent.nodes = append(parent.nodes, &richtext.Spoiler{Content: scope.nodes})
	default:
		return mismatch("%s cannot scope inline content", kind)
	}
	return nil
}

// nested reports whether any link, entity link or spoiler scope is open.
func (r *inlineRun) nested() bool {
	return len(r.scopes) > 1
}

// finish flushes the root scope and returns the finished inline content.
func (r *inlineRun) finish() ([]richtext.Inline, error) {
	if r.nested() {
		open, _ := r.current().kind()
		return nil, mismatch("block closed while %s is open", open)
	}
	root := r.scopes[0]
	if style, ok := root.innerSpan(); ok {
		return nil, mismatch("block closed while %s span is open", style)
	}
	root.flush()
	return root.nodes, nil
}

// plainText flattens inline nodes into the display text of a link. Raw
// markup is escaped like the text around it.
func (r *inlineRun) plainText(nodes []richtext.Inline) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch node := n.(type) {
		case *richtext.Text:
			sb.WriteString(node.Text)
		case *richtext.Link:
			sb.WriteString(node.Text)
		case *richtext.EntityLink:
			sb.WriteString(node.Entity.Prefix())
			sb.WriteString(node.ID)
		case *richtext.Spoiler:
			sb.WriteString(r.plainText(node.Content))
		case *richtext.LineBreak:
			sb.WriteByte('\n')
		case *richtext.Raw:
			sb.WriteString(r.escaper.EscapeText(node.Text))
		}
	}
	return sb.String()
}
