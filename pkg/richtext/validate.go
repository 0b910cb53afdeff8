package richtext

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// RangeError describes a FormatRange that does not fit its Text node.
type RangeError struct {
	Text  string
	Range FormatRange
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("format range %s [%d,%d) out of bounds for text of %d characters",
		e.Range.Style, e.Range.Start, e.Range.End(), utf8.RuneCountInString(e.Text))
}

// Validate checks every FormatRange in the document and returns one error
// per range that is empty, negative or extends past its Text node.
func Validate(doc *Document) []error {
	var errs []error

	//nolint:errcheck,revive // the visitor never fails
	Walk(doc, Visitor{Inline: func(n Inline, _ int) error {
		txt, ok := n.(*Text)
		if !ok {
			return nil
		}
		length := utf8.RuneCountInString(txt.Text)
		for _, r := range txt.Ranges {
			if r.Start < 0 || r.Length < 1 || r.End() > length {
				errs = append(errs, &RangeError{Text: txt.Text, Range: r})
			}
		}
		return nil
	}})

	return errs
}

// PlainText returns the visible text of the document, one line per
// paragraph-level block. Formatting is dropped.
func (d *Document) PlainText() string {
	var sb strings.Builder
	for _, b := range d.Blocks {
		writeBlockText(&sb, b)
	}
	return sb.String()
}

func writeBlockText(sb *strings.Builder, b Block) {
	switch blk := b.(type) {
	case *Paragraph:
		writeInlineText(sb, blk.Content)
		sb.WriteByte('\n')
	case *Heading:
		writeInlineText(sb, blk.Content)
		sb.WriteByte('\n')
	case *List:
		for _, item := range blk.Items {
			writeBlockText(sb, item)
		}
	case *ListItem:
		for _, child := range blk.Blocks {
			writeBlockText(sb, child)
		}
	case *BlockQuote:
		for _, child := range blk.Blocks {
			writeBlockText(sb, child)
		}
	case *FootnoteDefinition:
		for _, child := range blk.Blocks {
			writeBlockText(sb, child)
		}
	case *Table:
		writeRowText(sb, blk.Header)
		for _, row := range blk.Rows {
			writeRowText(sb, row)
		}
	case *CodeBlock:
		sb.WriteString(blk.Text)
		if !strings.HasSuffix(blk.Text, "\n") {
			sb.WriteByte('\n')
		}
	case *Image:
		if blk.Media.Caption != "" {
			sb.WriteString(blk.Media.Caption)
			sb.WriteByte('\n')
		}
	}
}

func writeRowText(sb *strings.Builder, cells []Cell) {
	if len(cells) == 0 {
		return
	}
	for i, cell := range cells {
		if i > 0 {
			sb.WriteByte('\t')
		}
		writeInlineText(sb, cell.Content)
	}
	sb.WriteByte('\n')
}

func writeInlineText(sb *strings.Builder, nodes []Inline) {
	for _, n := range nodes {
		switch node := n.(type) {
		case *Text:
			sb.WriteString(node.Text)
		case *Link:
			sb.WriteString(node.Text)
		case *EntityLink:
			sb.WriteString(node.Entity.Prefix())
			sb.WriteString(node.ID)
		case *Spoiler:
			writeInlineText(sb, node.Content)
		case *LineBreak:
			sb.WriteByte('\n')
		case *Raw:
			sb.WriteString(node.Text)
		}
	}
}
