// Package rtjson encodes compiled documents in the RTJSON wire format: a
// compact JSON tree with short element keys.
package rtjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/rtjson/pkg/event"
	"github.com/yaklabco/rtjson/pkg/richtext"
)

// ErrUnsupportedNode is returned for block or inline values the encoder does
// not know.
var ErrUnsupportedNode = errors.New("unsupported node")

// Element names.
const (
	elemParagraph  = "par"
	elemHeading    = "h"
	elemList       = "list"
	elemListItem   = "li"
	elemTable      = "table"
	elemCode       = "code"
	elemBlockQuote = "blockquote"
	elemRule       = "hr"
	elemImage      = "img"
	elemGIF        = "gif"
	elemVideo      = "video"
	elemEmbed      = "embed"
	elemGallery    = "gallery"
	elemFootnote   = "fn"
	elemText       = "text"
	elemLink       = "link"
	elemSpoiler    = "spoilertext"
	elemBreak      = "br"
	elemRaw        = "raw"
)

type (
	documentJSON struct {
		Document []any `json:"document"`
	}

	containerJSON struct {
		E string `json:"e"`
		C []any  `json:"c"`
	}

	headingJSON struct {
		E string `json:"e"`
		L int    `json:"l"`
		C []any  `json:"c"`
	}

	listJSON struct {
		E string `json:"e"`
		O bool   `json:"o"`
		S *int   `json:"s,omitempty"`
		C []any  `json:"c"`
	}

	cellJSON struct {
		A string `json:"a,omitempty"`
		C []any  `json:"c"`
	}

	tableJSON struct {
		E string       `json:"e"`
		H []cellJSON   `json:"h,omitempty"`
		C [][]cellJSON `json:"c"`
	}

	codeJSON struct {
		E string    `json:"e"`
		L *string   `json:"l,omitempty"`
		C []textRaw `json:"c"`
	}

	textRaw struct {
		E string `json:"e"`
		T string `json:"t"`
	}

	mediaJSON struct {
		E     string `json:"e,omitempty"`
		ID    string `json:"id,omitempty"`
		U     string `json:"u,omitempty"`
		C     string `json:"c,omitempty"`
		Title string `json:"t,omitempty"`
		X     int    `json:"x,omitempty"`
		Y     int    `json:"y,omitempty"`
	}

	galleryJSON struct {
		E  string      `json:"e"`
		ID string      `json:"id,omitempty"`
		C  string      `json:"c,omitempty"`
		M  []mediaJSON `json:"m"`
	}

	footnoteJSON struct {
		E string `json:"e"`
		N int    `json:"n"`
		C []any  `json:"c"`
	}

	textJSON struct {
		E string   `json:"e"`
		T string   `json:"t"`
		F [][3]int `json:"f,omitempty"`
	}

	linkJSON struct {
		E string `json:"e"`
		T string `json:"t"`
		U string `json:"u"`
		A string `json:"a,omitempty"`
	}

	elementJSON struct {
		E string `json:"e"`
	}
)

// Option configures an Encoder.
type Option func(*Encoder)

// WithIndent pretty-prints output with n spaces per level. Zero means
// compact output.
func WithIndent(n int) Option {
	return func(e *Encoder) {
		e.indent = strings.Repeat(" ", max(n, 0))
	}
}

// Encoder writes documents as RTJSON.
type Encoder struct {
	w      io.Writer
	indent string
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	e := &Encoder{w: w}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode writes doc followed by a newline.
func (e *Encoder) Encode(doc *richtext.Document) error {
	wire, err := document(doc)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(e.w)
	// Text is already escaped by the compiler's escaper.
	enc.SetEscapeHTML(false)
	if e.indent != "" {
		enc.SetIndent("", e.indent)
	}
	if err := enc.Encode(wire); err != nil {
		return fmt.Errorf("encoding rtjson: %w", err)
	}
	return nil
}

// Marshal returns the compact RTJSON encoding of doc.
func Marshal(doc *richtext.Document, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func document(doc *richtext.Document) (documentJSON, error) {
	out := documentJSON{Document: []any{}}
	if doc == nil {
		return out, nil
	}
	blocks, err := encodeBlocks(doc.Blocks)
	if err != nil {
		return out, err
	}
	out.Document = blocks
	return out, nil
}

func encodeBlocks(blocks []richtext.Block) ([]any, error) {
	out := make([]any, 0, len(blocks))
	for _, b := range blocks {
		v, err := encodeBlock(b)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

//nolint:cyclop,funlen // one case per block kind
func encodeBlock(b richtext.Block) (any, error) {
	switch blk := b.(type) {
	case *richtext.Paragraph:
		c, err := encodeInlines(blk.Content)
		return containerJSON{E: elemParagraph, C: c}, err

	case *richtext.Heading:
		c, err := encodeInlines(blk.Content)
		return headingJSON{E: elemHeading, L: blk.Level, C: c}, err

	case *richtext.List:
		items := make([]any, 0, len(blk.Items))
		for _, item := range blk.Items {
			v, err := encodeBlock(item)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return listJSON{E: elemList, O: blk.Ordered, S: blk.Start, C: items}, nil

	case *richtext.ListItem:
		c, err := encodeBlocks(blk.Blocks)
		return containerJSON{E: elemListItem, C: c}, err

	case *richtext.BlockQuote:
		c, err := encodeBlocks(blk.Blocks)
		return containerJSON{E: elemBlockQuote, C: c}, err

	case *richtext.Table:
		return encodeTable(blk)

	case *richtext.CodeBlock:
		return codeJSON{E: elemCode, L: blk.Language, C: codeLines(blk.Text)}, nil

	case *richtext.HorizontalRule:
		return elementJSON{E: elemRule}, nil

	case *richtext.Image:
		m := media(blk.Media)
		m.E = elemImage
		m.Title = blk.Title
		return m, nil

	case *richtext.AnimatedImage:
		m := media(blk.Media)
		m.E = elemGIF
		return m, nil

	case *richtext.Video:
		m := media(blk.Media)
		m.E = elemVideo
		return m, nil

	case *richtext.Embed:
		return mediaJSON{E: elemEmbed, U: blk.URL, C: blk.Caption, X: blk.Width, Y: blk.Height}, nil

	case *richtext.Gallery:
		items := make([]mediaJSON, 0, len(blk.Items))
		for _, item := range blk.Items {
			items = append(items, media(item))
		}
		return galleryJSON{E: elemGallery, ID: blk.ID, C: blk.Caption, M: items}, nil

	case *richtext.FootnoteDefinition:
		c, err := encodeBlocks(blk.Blocks)
		return footnoteJSON{E: elemFootnote, N: blk.Number, C: c}, err

	default:
		return nil, fmt.Errorf("%w: block %T", ErrUnsupportedNode, b)
	}
}

func encodeTable(t *richtext.Table) (tableJSON, error) {
	out := tableJSON{E: elemTable, C: make([][]cellJSON, 0, len(t.Rows))}

	if len(t.Header) > 0 {
		header, err := encodeCells(t.Header)
		if err != nil {
			return out, err
		}
		out.H = header
	}
	for _, row := range t.Rows {
		cells, err := encodeCells(row)
		if err != nil {
			return out, err
		}
		out.C = append(out.C, cells)
	}
	return out, nil
}

func encodeCells(cells []richtext.Cell) ([]cellJSON, error) {
	out := make([]cellJSON, 0, len(cells))
	for _, cell := range cells {
		c, err := encodeInlines(cell.Content)
		if err != nil {
			return nil, err
		}
		out = append(out, cellJSON{A: alignmentCode(cell.Alignment), C: c})
	}
	return out, nil
}

func alignmentCode(a event.Alignment) string {
	switch a {
	case event.AlignLeft:
		return "L"
	case event.AlignCenter:
		return "C"
	case event.AlignRight:
		return "R"
	default:
		return ""
	}
}

// codeLines splits code into one raw element per line. The final newline
// does not start another line.
func codeLines(code string) []textRaw {
	lines := strings.Split(strings.TrimSuffix(code, "\n"), "\n")
	out := make([]textRaw, 0, len(lines))
	for _, line := range lines {
		out = append(out, textRaw{E: elemRaw, T: line})
	}
	return out
}

func media(m event.Media) mediaJSON {
	return mediaJSON{ID: m.ID, U: m.URL, C: m.Caption, X: m.Width, Y: m.Height}
}

func encodeInlines(nodes []richtext.Inline) ([]any, error) {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		v, err := encodeInline(n)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func encodeInline(n richtext.Inline) (any, error) {
	switch node := n.(type) {
	case *richtext.Text:
		return textJSON{E: elemText, T: node.Text, F: formatRanges(node.Ranges)}, nil
	case *richtext.Link:
		return linkJSON{E: elemLink, T: node.Text, U: node.URL, A: node.Title}, nil
	case *richtext.EntityLink:
		return textRaw{E: node.Entity.Prefix(), T: node.ID}, nil
	case *richtext.Spoiler:
		c, err := encodeInlines(node.Content)
		return containerJSON{E: elemSpoiler, C: c}, err
	case *richtext.LineBreak:
		return elementJSON{E: elemBreak}, nil
	case *richtext.Raw:
		return textRaw{E: elemRaw, T: node.Text}, nil
	default:
		return nil, fmt.Errorf("%w: inline %T", ErrUnsupportedNode, n)
	}
}

func formatRanges(ranges []richtext.FormatRange) [][3]int {
	if len(ranges) == 0 {
		return nil
	}
	out := make([][3]int, len(ranges))
	for i, r := range ranges {
		out[i] = [3]int{int(r.Style), r.Start, r.Length}
	}
	return out
}
