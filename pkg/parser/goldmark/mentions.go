package goldmark

import (
	"bytes"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/rtjson/pkg/event"
)

// KindMention is the goldmark node kind of a Mention.
var KindMention = ast.NewNodeKind("Mention")

// Mention is a u/name or r/name reference found in text.
type Mention struct {
	ast.BaseInline

	Entity event.EntityKind

	// Prefix is the literal prefix as written, e.g. "/u/".
	Prefix []byte
	Name   []byte
}

// Kind implements ast.Node.
func (n *Mention) Kind() ast.NodeKind { return KindMention }

// Dump implements ast.Node.
func (n *Mention) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Prefix": string(n.Prefix),
		"Name":   string(n.Name),
	}, nil)
}

// KindSpoiler is the goldmark node kind of a Spoiler.
var KindSpoiler = ast.NewNodeKind("Spoiler")

// Spoiler wraps inline content written between >! and !<.
type Spoiler struct {
	ast.BaseInline
}

// Kind implements ast.Node.
func (n *Spoiler) Kind() ast.NodeKind { return KindSpoiler }

// Dump implements ast.Node.
func (n *Spoiler) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

var (
	spoilerOpen  = []byte(">!")
	spoilerClose = []byte("!<")

	// mentionPattern captures the prefix (optional leading slash, entity
	// letter, slash), the entity letter and the name. Boundaries are checked
	// on runes by splitMentions.
	mentionPattern = regexp.MustCompile(`(/?([ur])/)([A-Za-z0-9_][A-Za-z0-9_-]{1,20})`)
)

// mentionTransformer rewrites text nodes after inline parsing: adjacent
// text is merged, >!...!< runs become Spoiler nodes and mentions become
// Mention nodes.
type mentionTransformer struct {
	entityLinks bool
	spoilers    bool
}

// Transform implements parser.ASTTransformer.
func (t *mentionTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	if !t.entityLinks && !t.spoilers {
		return
	}
	source := reader.Source()

	for _, parent := range textParents(doc) {
		mergeTexts(parent)
		if t.spoilers {
			wrapSpoilers(parent, source)
		}
	}

	if t.entityLinks {
		for _, node := range mentionCandidates(doc) {
			splitMentions(node, source)
		}
	}
}

// textParents returns every node with a direct text child, in document
// order. Code spans keep their text untouched.
func textParents(doc *ast.Document) []ast.Node {
	var parents []ast.Node

	//nolint:errcheck // the walker never fails
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Kind() == ast.KindCodeSpan {
			return ast.WalkSkipChildren, nil
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if c.Kind() == ast.KindText {
				parents = append(parents, n)
				break
			}
		}
		return ast.WalkContinue, nil
	})

	return parents
}

// mentionCandidates returns the text nodes that may hold mentions. Text
// inside links, images and code spans is left alone.
func mentionCandidates(doc *ast.Document) []*ast.Text {
	var nodes []*ast.Text

	//nolint:errcheck // the walker never fails
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link, *ast.Image, *ast.CodeSpan, *ast.AutoLink:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			nodes = append(nodes, node)
		}
		return ast.WalkContinue, nil
	})

	return nodes
}

// mergeTexts joins text siblings that are contiguous in the source, which
// goldmark leaves split at unmatched delimiters.
func mergeTexts(parent ast.Node) {
	for c := parent.FirstChild(); c != nil; {
		next := c.NextSibling()
		a, ok := c.(*ast.Text)
		b, nextOK := next.(*ast.Text)
		if ok && nextOK && contiguous(a, b) {
			a.Segment = a.Segment.WithStop(b.Segment.Stop)
			a.SetSoftLineBreak(b.SoftLineBreak())
			a.SetHardLineBreak(b.HardLineBreak())
			parent.RemoveChild(parent, b)
			continue
		}
		c = next
	}
}

func contiguous(a, b *ast.Text) bool {
	return a.Segment.Stop == b.Segment.Start &&
		a.Segment.Padding == 0 && b.Segment.Padding == 0 &&
		!a.SoftLineBreak() && !a.HardLineBreak() &&
		a.IsRaw() == b.IsRaw()
}

func wrapSpoilers(parent ast.Node, source []byte) {
	for c := parent.FirstChild(); c != nil; {
		open, ok := c.(*ast.Text)
		if !ok {
			c = c.NextSibling()
			continue
		}
		c = wrapSpoiler(parent, open, source)
	}
}

// wrapSpoiler wraps the first >!...!< run that opens inside open and
// returns the node scanning resumes at. The closing marker must be in open
// or in a later text sibling.
func wrapSpoiler(parent ast.Node, open *ast.Text, source []byte) ast.Node {
	seg := open.Segment
	i := bytes.Index(seg.Value(source), spoilerOpen)
	if i < 0 {
		return open.NextSibling()
	}
	innerStart := seg.Start + i + len(spoilerOpen)
	spoiler := &Spoiler{}

	if j := bytes.Index(source[innerStart:seg.Stop], spoilerClose); j >= 0 {
		closeAt := innerStart + j
		if closeAt > innerStart {
			spoiler.AppendChild(spoiler, ast.NewTextSegment(text.NewSegment(innerStart, closeAt)))
		}
		if i > 0 {
			parent.InsertBefore(parent, open, ast.NewTextSegment(text.NewSegment(seg.Start, seg.Start+i)))
		}
		parent.InsertBefore(parent, open, spoiler)
		open.Segment = seg.WithStart(closeAt + len(spoilerClose))
		return open
	}

	var closer *ast.Text
	closeAt := -1
	for n := open.NextSibling(); n != nil; n = n.NextSibling() {
		t, ok := n.(*ast.Text)
		if !ok {
			continue
		}
		if j := bytes.Index(t.Segment.Value(source), spoilerClose); j >= 0 {
			closer, closeAt = t, t.Segment.Start+j
			break
		}
	}
	if closer == nil {
		return open.NextSibling()
	}

	first := ast.NewTextSegment(text.NewSegment(innerStart, seg.Stop))
	first.SetSoftLineBreak(open.SoftLineBreak())
	first.SetHardLineBreak(open.HardLineBreak())
	spoiler.AppendChild(spoiler, first)
	for n := open.NextSibling(); n != closer; n = open.NextSibling() {
		spoiler.AppendChild(spoiler, n)
	}
	if closeAt > closer.Segment.Start {
		spoiler.AppendChild(spoiler, ast.NewTextSegment(text.NewSegment(closer.Segment.Start, closeAt)))
	}
	parent.InsertAfter(parent, open, spoiler)

	open.Segment = seg.WithStop(seg.Start + i)
	open.SetSoftLineBreak(false)
	open.SetHardLineBreak(false)
	closer.Segment = closer.Segment.WithStart(closeAt + len(spoilerClose))
	return closer
}

// splitMentions replaces every mention in t with a Mention node, keeping
// the text around it. t keeps the text after the last mention and its line
// break flags.
func splitMentions(t *ast.Text, source []byte) {
	parent := t.Parent()
	if parent == nil {
		return
	}
	value := t.Segment.Value(source)
	matches := mentionPattern.FindAllSubmatchIndex(value, -1)
	if len(matches) == 0 {
		return
	}

	base := t.Segment.Start
	cur := base
	for _, m := range matches {
		prefixStart, prefixEnd := m[2], m[3]
		nameStart, nameEnd := m[6], m[7]

		// The mention must not continue a word or path, and a longer run
		// of name characters is not a mention.
		if before, _ := utf8.DecodeLastRune(value[:prefixStart]); isWordRune(before) || before == '/' {
			continue
		}
		if after, _ := utf8.DecodeRune(value[nameEnd:]); isWordRune(after) || after == '-' {
			continue
		}

		if base+prefixStart > cur {
			parent.InsertBefore(parent, t, ast.NewTextSegment(text.NewSegment(cur, base+prefixStart)))
		}
		entity := event.EntityUser
		if value[m[4]] == 'r' {
			entity = event.EntitySubreddit
		}
		parent.InsertBefore(parent, t, &Mention{
			Entity: entity,
			Prefix: value[prefixStart:prefixEnd],
			Name:   value[nameStart:nameEnd],
		})
		cur = base + nameEnd
	}
	t.Segment = t.Segment.WithStart(cur)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
