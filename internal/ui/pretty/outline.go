package pretty

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/reflow/truncate"
	"golang.org/x/term"

	"github.com/yaklabco/rtjson/pkg/event"
	"github.com/yaklabco/rtjson/pkg/richtext"
)

const outlineIndent = "  "

// OutlineOptions configures RenderOutline.
type OutlineOptions struct {
	// Styles renders the outline. Nil means no color.
	Styles *Styles

	// Width truncates every line to this many columns. Zero disables
	// truncation.
	Width int
}

// TerminalWidth returns the width of w when it is a terminal, or fallback.
func TerminalWidth(w io.Writer, fallback int) int {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return fallback
}

// RenderOutline writes one line per node of doc, indented by depth.
// Text nodes show their format ranges as style start+length.
func RenderOutline(w io.Writer, doc *richtext.Document, opts OutlineOptions) error {
	if doc == nil {
		doc = &richtext.Document{}
	}
	if opts.Styles == nil {
		opts.Styles = NewStyles(false)
	}
	o := &outliner{styles: opts.Styles, width: opts.Width}

	o.line(0, o.styles.BlockKind.Render("Document"), o.attr("blocks", len(doc.Blocks)))
	for _, b := range doc.Blocks {
		o.block(b, 1)
	}

	_, err := io.WriteString(w, o.sb.String())
	return err
}

type outliner struct {
	styles *Styles
	width  int
	sb     strings.Builder
}

func (o *outliner) line(depth int, parts ...string) {
	s := strings.Repeat(outlineIndent, depth) + strings.Join(nonEmpty(parts), " ")
	if o.width > 0 {
		s = truncate.StringWithTail(s, uint(o.width), ellipsis)
	}
	o.sb.WriteString(s)
	o.sb.WriteByte('\n')
}

func (o *outliner) attr(key string, value any) string {
	return o.styles.Attr.Render(fmt.Sprintf("%s=%v", key, value))
}

func (o *outliner) quoted(s string) string {
	return o.styles.Text.Render(strconv.Quote(s))
}

func (o *outliner) kind(b richtext.Block) string {
	return o.styles.BlockKind.Render(b.Kind().String())
}

func (o *outliner) block(b richtext.Block, depth int) {
	switch blk := b.(type) {
	case *richtext.Paragraph:
		o.line(depth, o.kind(b))
		o.inlines(blk.Content, depth+1)
	case *richtext.Heading:
		o.line(depth, o.kind(b), o.attr("level", blk.Level))
		o.inlines(blk.Content, depth+1)
	case *richtext.List:
		if blk.Ordered {
			o.line(depth, o.kind(b), o.attr("ordered", true), o.attr("start", blk.StartNumber()))
		} else {
			o.line(depth, o.kind(b), o.attr("ordered", false))
		}
		for _, item := range blk.Items {
			o.block(item, depth+1)
		}
	case *richtext.ListItem:
		o.line(depth, o.kind(b))
		o.blocks(blk.Blocks, depth+1)
	case *richtext.BlockQuote:
		o.line(depth, o.kind(b))
		o.blocks(blk.Blocks, depth+1)
	case *richtext.FootnoteDefinition:
		o.line(depth, o.kind(b), o.attr("n", blk.Number))
		o.blocks(blk.Blocks, depth+1)
	case *richtext.Table:
		o.line(depth, o.kind(b), o.attr("columns", len(blk.Header)), o.attr("rows", len(blk.Rows)))
		o.line(depth+1, o.styles.Dim.Render("Header"))
		o.cells(blk.Header, depth+2)
		for i, row := range blk.Rows {
			o.line(depth+1, o.styles.Dim.Render("Row"), o.attr("index", i))
			o.cells(row, depth+2)
		}
	case *richtext.CodeBlock:
		lines := strings.Split(strings.TrimSuffix(blk.Text, "\n"), "\n")
		lang := ""
		if blk.Language != nil {
			lang = o.attr("lang", *blk.Language)
		}
		o.line(depth, o.kind(b), lang, o.attr("lines", len(lines)))
		for _, l := range lines {
			o.line(depth+1, o.quoted(l))
		}
	case *richtext.HorizontalRule:
		o.line(depth, o.kind(b))
	case *richtext.Image:
		o.line(depth, append([]string{o.kind(b)}, o.media(blk.Media)...)...)
		if blk.Title != "" {
			o.line(depth+1, o.attr("title", strconv.Quote(blk.Title)))
		}
	case *richtext.AnimatedImage:
		o.line(depth, append([]string{o.kind(b)}, o.media(blk.Media)...)...)
	case *richtext.Video:
		o.line(depth, append([]string{o.kind(b)}, o.media(blk.Media)...)...)
	case *richtext.Embed:
		o.line(depth, o.kind(b), o.styles.URL.Render(blk.URL), o.size(blk.Width, blk.Height))
		if blk.Caption != "" {
			o.line(depth+1, o.quoted(blk.Caption))
		}
	case *richtext.Gallery:
		o.line(depth, o.kind(b), o.attr("id", blk.ID), o.attr("items", len(blk.Items)))
		if blk.Caption != "" {
			o.line(depth+1, o.quoted(blk.Caption))
		}
		for _, m := range blk.Items {
			o.line(depth+1, append([]string{o.styles.Dim.Render("Item")}, o.media(m)...)...)
		}
	default:
		o.line(depth, o.styles.Error.Render(fmt.Sprintf("unknown block %T", b)))
	}
}

func (o *outliner) blocks(blocks []richtext.Block, depth int) {
	for _, b := range blocks {
		o.block(b, depth)
	}
}

func (o *outliner) cells(cells []richtext.Cell, depth int) {
	for _, c := range cells {
		o.line(depth, o.styles.Dim.Render("Cell"), o.attr("align", alignCode(c.Alignment)))
		o.inlines(c.Content, depth+1)
	}
}

func (o *outliner) media(m event.Media) []string {
	parts := []string{o.attr("id", m.ID)}
	if m.URL != "" {
		parts = append(parts, o.styles.URL.Render(m.URL))
	}
	parts = append(parts, o.size(m.Width, m.Height))
	if m.Caption != "" {
		parts = append(parts, o.quoted(m.Caption))
	}
	return parts
}

func (o *outliner) size(width, height int) string {
	if width == 0 && height == 0 {
		return ""
	}
	return o.styles.Attr.Render(fmt.Sprintf("%dx%d", width, height))
}

func (o *outliner) inlines(nodes []richtext.Inline, depth int) {
	for _, n := range nodes {
		kind := o.styles.InlineKind.Render(n.Kind().String())
		switch node := n.(type) {
		case *richtext.Text:
			o.line(depth, kind, o.quoted(node.Text), o.ranges(node.Ranges))
		case *richtext.Link:
			title := ""
			if node.Title != "" {
				title = o.attr("title", strconv.Quote(node.Title))
			}
			o.line(depth, kind, o.quoted(node.Text), o.styles.URL.Render(node.URL), title)
		case *richtext.EntityLink:
			o.line(depth, kind, o.styles.Entity.Render(node.Entity.Prefix()+node.ID))
		case *richtext.Spoiler:
			o.line(depth, kind)
			o.inlines(node.Content, depth+1)
		case *richtext.LineBreak:
			o.line(depth, kind)
		case *richtext.Raw:
			o.line(depth, kind, o.quoted(node.Text))
		default:
			o.line(depth, o.styles.Error.Render(fmt.Sprintf("unknown inline %T", n)))
		}
	}
}

func (o *outliner) ranges(ranges []richtext.FormatRange) string {
	if len(ranges) == 0 {
		return ""
	}
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = fmt.Sprintf("%s %d+%d", r.Style, r.Start, r.Length)
	}
	return o.styles.Range.Render("[" + strings.Join(parts, ", ") + "]")
}

func alignCode(a event.Alignment) string {
	switch a {
	case event.AlignLeft:
		return "L"
	case event.AlignCenter:
		return "C"
	case event.AlignRight:
		return "R"
	default:
		return "-"
	}
}

func nonEmpty(parts []string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
