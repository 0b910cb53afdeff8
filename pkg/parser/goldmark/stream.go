package goldmark

import (
	"bytes"
	"context"
	"strconv"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/rtjson/pkg/event"
)

// Stream walks a goldmark tree and yields compiler events. The walk keeps
// an explicit cursor into the tree instead of recursing, so arbitrarily deep
// documents cost no stack.
type Stream struct {
	ctx    context.Context
	source []byte
	root   ast.Node

	node     ast.Node
	entering bool
	done     bool
	err      error

	queue []event.Event
}

var _ event.Stream = (*Stream)(nil)

func newStream(ctx context.Context, root ast.Node, source []byte) *Stream {
	return &Stream{
		ctx:      ctx,
		source:   source,
		root:     root,
		node:     root,
		entering: true,
	}
}

// Next implements event.Stream.
func (s *Stream) Next() (event.Event, bool) {
	for len(s.queue) == 0 {
		if s.done {
			return nil, false
		}
		s.step()
	}
	ev := s.queue[0]
	s.queue = s.queue[1:]
	return ev, true
}

// Err returns the context error that ended the stream early, if any.
func (s *Stream) Err() error {
	return s.err
}

// step visits the cursor node once and moves the cursor.
func (s *Stream) step() {
	if err := s.ctx.Err(); err != nil {
		s.err = err
		s.done = true
		s.queue = nil
		return
	}

	n := s.node
	if s.entering {
		if s.enter(n) && n.FirstChild() != nil {
			s.node = n.FirstChild()
			return
		}
	}
	s.exit(n)

	if n == s.root {
		s.done = true
		return
	}
	if next := n.NextSibling(); next != nil {
		s.node = next
		s.entering = true
		return
	}
	s.node = n.Parent()
	s.entering = false
}

func (s *Stream) emit(evs ...event.Event) {
	s.queue = append(s.queue, evs...)
}

func (s *Stream) start(tag event.Tag) { s.emit(event.Start{Tag: tag}) }
func (s *Stream) end(tag event.Tag)   { s.emit(event.End{Tag: tag}) }

func (s *Stream) text(v []byte) {
	if len(v) > 0 {
		s.emit(event.Text{Text: string(v)})
	}
}

// enter emits the events for entering n and reports whether its children
// should be walked.
func (s *Stream) enter(n ast.Node) bool {
	switch node := n.(type) {
	case *ast.Document, *ast.TextBlock, *east.FootnoteList:
		// Transparent containers.

	case *ast.Paragraph:
		if !imageOnly(node) {
			s.start(event.Paragraph{})
		}

	case *ast.Heading:
		s.start(event.Heading{Level: node.Level})

	case *ast.ThematicBreak:
		s.start(event.Rule{})

	case *ast.Blockquote:
		s.start(event.BlockQuote{})

	case *ast.List:
		s.start(listTag(node))

	case *ast.ListItem:
		s.start(event.Item{})

	case *ast.FencedCodeBlock:
		var info string
		if node.Info != nil {
			info = string(node.Info.Value(s.source))
		}
		s.codeBlock(info, node)
		return false

	case *ast.CodeBlock:
		s.codeBlock("", node)
		return false

	case *ast.HTMLBlock:
		var buf bytes.Buffer
		lines := node.Lines()
		for i := range lines.Len() {
			seg := lines.At(i)
			buf.Write(seg.Value(s.source))
		}
		if node.HasClosure() {
			buf.Write(node.ClosureLine.Value(s.source))
		}
		s.emit(event.RawMarkup{Markup: buf.String()})
		return false

	case *ast.Text:
		s.text(plain(node.Segment.Value(s.source)))
		switch {
		case node.HardLineBreak():
			s.emit(event.HardBreak{})
		case node.SoftLineBreak():
			s.emit(event.SoftBreak{})
		}
		return false

	case *ast.String:
		s.text(node.Value)
		return false

	case *ast.Emphasis:
		if node.Level >= 2 {
			s.start(event.Strong{})
		} else {
			s.start(event.Emphasis{})
		}

	case *ast.CodeSpan:
		s.start(event.Code{})
		s.text(codeSpanText(node, s.source))
		s.end(event.Code{})
		return false

	case *ast.Link:
		s.start(event.Link{URL: string(node.Destination), Title: string(node.Title)})

	case *ast.AutoLink:
		url := string(node.URL(s.source))
		s.start(event.Link{URL: url})
		s.text(node.Label(s.source))
		s.end(event.Link{URL: url})
		return false

	case *ast.Image:
		s.start(event.Image{URL: string(node.Destination), Title: string(node.Title)})

	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := range node.Segments.Len() {
			seg := node.Segments.At(i)
			buf.Write(seg.Value(s.source))
		}
		s.emit(event.InlineRawMarkup{Markup: buf.String()})
		return false

	case *east.Strikethrough:
		s.start(event.Strikethrough{})

	case *east.TaskCheckBox:
		if node.IsChecked {
			s.text([]byte("[x] "))
		} else {
			s.text([]byte("[ ] "))
		}
		return false

	case *east.Table:
		s.start(event.Table{Alignments: alignments(node.Alignments)})

	case *east.TableHeader:
		s.start(event.TableHead{})

	case *east.TableRow:
		s.start(event.TableRow{})

	case *east.TableCell:
		s.start(event.TableCell{})

	case *east.FootnoteLink:
		s.emit(event.FootnoteReference{Name: footnoteName(node.Index)})
		return false

	case *east.FootnoteBacklink:
		return false

	case *east.Footnote:
		s.start(event.FootnoteDefinition{Name: footnoteName(node.Index)})

	case *Mention:
		// The prefix is emitted as text first and then retracted by the
		// entity link, mirroring a tokenizer that only recognizes the
		// mention once it has seen the name.
		tag := event.EntityLink{
			Entity:  node.Entity,
			ID:      string(node.Name),
			TrimLen: utf8.RuneCount(node.Prefix),
		}
		s.text(node.Prefix)
		s.start(tag)
		s.text(node.Name)
		s.end(tag)
		return false

	case *Spoiler:
		s.start(event.Spoiler{})
	}

	return true
}

// exit emits the closing event for n.
func (s *Stream) exit(n ast.Node) {
	switch node := n.(type) {
	case *ast.Paragraph:
		if !imageOnly(node) {
			s.end(event.Paragraph{})
		}
	case *ast.Heading:
		s.end(event.Heading{Level: node.Level})
	case *ast.ThematicBreak:
		s.end(event.Rule{})
	case *ast.Blockquote:
		s.end(event.BlockQuote{})
	case *ast.List:
		s.end(listTag(node))
	case *ast.ListItem:
		s.end(event.Item{})
	case *ast.Emphasis:
		if node.Level >= 2 {
			s.end(event.Strong{})
		} else {
			s.end(event.Emphasis{})
		}
	case *ast.Link:
		s.end(event.Link{URL: string(node.Destination), Title: string(node.Title)})
	case *ast.Image:
		s.end(event.Image{URL: string(node.Destination), Title: string(node.Title)})
	case *east.Strikethrough:
		s.end(event.Strikethrough{})
	case *east.Table:
		s.end(event.Table{Alignments: alignments(node.Alignments)})
	case *east.TableHeader:
		s.end(event.TableHead{})
	case *east.TableRow:
		s.end(event.TableRow{})
	case *east.TableCell:
		s.end(event.TableCell{})
	case *east.Footnote:
		s.end(event.FootnoteDefinition{Name: footnoteName(node.Index)})
	case *Spoiler:
		s.end(event.Spoiler{})
	}
}

func (s *Stream) codeBlock(info string, n ast.Node) {
	tag := event.CodeBlock{Info: info}
	s.start(tag)
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		s.text(seg.Value(s.source))
	}
	s.end(tag)
}

// imageOnly reports whether a paragraph holds nothing but one image, which
// is then emitted as a block-level image.
func imageOnly(p *ast.Paragraph) bool {
	return p.ChildCount() == 1 && p.FirstChild().Kind() == ast.KindImage
}

func listTag(l *ast.List) event.List {
	if !l.IsOrdered() {
		return event.List{}
	}
	start := l.Start
	return event.List{Start: &start}
}

func alignments(in []east.Alignment) []event.Alignment {
	out := make([]event.Alignment, len(in))
	for i, a := range in {
		switch a {
		case east.AlignLeft:
			out[i] = event.AlignLeft
		case east.AlignCenter:
			out[i] = event.AlignCenter
		case east.AlignRight:
			out[i] = event.AlignRight
		default:
			out[i] = event.AlignNone
		}
	}
	return out
}

func footnoteName(index int) string {
	return strconv.Itoa(index)
}

// plain resolves backslash escapes and character references the way the
// goldmark HTML renderer does before writing text.
func plain(v []byte) []byte {
	if bytes.IndexByte(v, '\\') < 0 && bytes.IndexByte(v, '&') < 0 {
		return v
	}
	return util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(v)))
}

func codeSpanText(n *ast.CodeSpan, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			v := t.Segment.Value(source)
			if bytes.HasSuffix(v, []byte("\n")) {
				buf.Write(v[:len(v)-1])
				buf.WriteByte(' ')
				continue
			}
			buf.Write(v)
		case *ast.String:
			buf.Write(t.Value)
		}
	}
	return buf.Bytes()
}
