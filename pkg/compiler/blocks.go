package compiler

import (
	"strings"

	"github.com/yaklabco/rtjson/pkg/event"
	"github.com/yaklabco/rtjson/pkg/richtext"
)

// builder is an open block on the assembler stack.
type builder interface {
	// kind is the tag kind whose End event closes this builder.
	kind() event.TagKind

	// finish turns the builder into its immutable block.
	finish(c *Compiler) (richtext.Block, error)
}

// inlineHost is a builder that can currently accept inline content.
type inlineHost interface {
	builder
	activeRun() *inlineRun
}

// container is a builder that holds nested blocks.
type container interface {
	builder
	appendBlock(b richtext.Block) error
}

type paragraphBuilder struct {
	run *inlineRun

	// implicit is set for paragraphs opened by bare inline content inside a
	// container. They close automatically.
	implicit bool
}

func (b *paragraphBuilder) kind() event.TagKind    { return event.KindParagraph }
func (b *paragraphBuilder) activeRun() *inlineRun { return b.run }

func (b *paragraphBuilder) finish(*Compiler) (richtext.Block, error) {
	content, err := b.run.finish()
	if err != nil {
		return nil, err
	}
	return &richtext.Paragraph{Content: content}, nil
}

type headingBuilder struct {
	level int
	run   *inlineRun
}

func (b *headingBuilder) kind() event.TagKind    { return event.KindHeading }
func (b *headingBuilder) activeRun() *inlineRun { return b.run }

func (b *headingBuilder) finish(*Compiler) (richtext.Block, error) {
	content, err := b.run.finish()
	if err != nil {
		return nil, err
	}
	return &richtext.Heading{Level: b.level, Content: content}, nil
}

type listBuilder struct {
	ordered bool
	start   *int
	items   []*richtext.ListItem
}

func newListBuilder(tag event.List) *listBuilder {
	b := &listBuilder{ordered: tag.Start != nil}
	if tag.Start != nil && *tag.Start != 1 {
		start := *tag.Start
		b.start = &start
	}
	return b
}

func (b *listBuilder) kind() event.TagKind { return event.KindList }

func (b *listBuilder) appendBlock(blk richtext.Block) error {
	item, ok := blk.(*richtext.ListItem)
	if !ok {
		return mismatch("list cannot contain %s", blk.Kind())
	}
	b.items = append(b.items, item)
	return nil
}

func (b *listBuilder) finish(*Compiler) (richtext.Block, error) {
	return &richtext.List{Ordered: b.ordered, Start: b.start, Items: b.items}, nil
}

// blockContainer builds list items, block quotes and footnote definitions.
type blockContainer struct {
	tagKind event.TagKind
	number  int
	blocks  []richtext.Block
}

func (b *blockContainer) kind() event.TagKind { return b.tagKind }

func (b *blockContainer) appendBlock(blk richtext.Block) error {
	b.blocks = append(b.blocks, blk)
	return nil
}

func (b *blockContainer) finish(*Compiler) (richtext.Block, error) {
	switch b.tagKind {
	case event.KindItem:
		return &richtext.ListItem{Blocks: b.blocks}, nil
	case event.KindBlockQuote:
		return &richtext.BlockQuote{Blocks: b.blocks}, nil
	case event.KindFootnoteDefinition:
		return &richtext.FootnoteDefinition{Number: b.number, Blocks: b.blocks}, nil
	default:
		return nil, mismatch("%s is not a block container", b.tagKind)
	}
}

type tableBuilder struct {
	state  *tableState
	header []richtext.Cell
	rows   [][]richtext.Cell
	row    []richtext.Cell
	cell   *inlineRun
}

func (b *tableBuilder) kind() event.TagKind { return event.KindTable }

func (b *tableBuilder) activeRun() *inlineRun {
	if !b.state.inCell {
		return nil
	}
	return b.cell
}

func (b *tableBuilder) finish(*Compiler) (richtext.Block, error) {
	if b.state.open() {
		return nil, mismatch("table closed with an open head, row or cell")
	}
	return &richtext.Table{Header: b.header, Rows: b.rows}, nil
}

type codeBuilder struct {
	language *string
	text     strings.Builder
}

func (b *codeBuilder) kind() event.TagKind { return event.KindCodeBlock }

func (b *codeBuilder) finish(c *Compiler) (richtext.Block, error) {
	text := b.text.String()
	lang := b.language
	if lang == nil && c.detector != nil && text != "" {
		if detected := c.detector.Detect([]byte(text)); detected != "" && detected != "text" {
			lang = &detected
		}
	}
	return &richtext.CodeBlock{Language: lang, Text: text}, nil
}

// codeLanguage returns the first word of a fence info string, or nil.
func codeLanguage(info string, escaper Escaper) *string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return nil
	}
	lang := escaper.EscapeText(fields[0])
	return &lang
}

type ruleBuilder struct{}

func (b *ruleBuilder) kind() event.TagKind { return event.KindRule }

func (b *ruleBuilder) finish(*Compiler) (richtext.Block, error) {
	return &richtext.HorizontalRule{}, nil
}

// mediaBuilder maps a resolved media tag 1:1 to its block. Text inside an
// image becomes its alt text; nested tags are skipped.
type mediaBuilder struct {
	tag  event.Tag
	alt  strings.Builder
	nest int
}

func (b *mediaBuilder) kind() event.TagKind { return b.tag.Kind() }

func (b *mediaBuilder) finish(c *Compiler) (richtext.Block, error) {
	switch tag := b.tag.(type) {
	case event.Image:
		return &richtext.Image{
			Media: event.Media{
				URL:     c.escaper.EscapeURL(tag.URL),
				Caption: b.alt.String(),
			},
			Title: c.escaper.EscapeText(tag.Title),
		}, nil
	case event.AnimatedImage:
		return &richtext.AnimatedImage{Media: tag.Media}, nil
	case event.Video:
		return &richtext.Video{Media: tag.Media}, nil
	case event.Embed:
		return &richtext.Embed{URL: tag.URL, Caption: tag.Caption, Width: tag.Width, Height: tag.Height}, nil
	case event.Gallery:
		return &richtext.Gallery{ID: tag.ID, Caption: tag.Caption, Items: tag.Items}, nil
	default:
		return nil, mismatch("%s is not a media tag", b.tag.Kind())
	}
}

// assembler is the stack of open block builders. The bottom of the stack
// appends into the document root.
type assembler struct {
	root  []richtext.Block
	stack []builder
}

func (a *assembler) top() builder {
	if len(a.stack) == 0 {
		return nil
	}
	return a.stack[len(a.stack)-1]
}

func (a *assembler) push(b builder) {
	a.stack = append(a.stack, b)
}

// acceptsBlocks reports whether a new block may be opened at the top.
func (a *assembler) acceptsBlocks() bool {
	switch a.top().(type) {
	case nil, *blockContainer:
		return true
	default:
		return false
	}
}

// pop removes the top builder, which must close with kind.
func (a *assembler) pop(kind event.TagKind) (builder, error) {
	top := a.top()
	if top == nil {
		return nil, mismatch("%s closed with no open block", kind)
	}
	if top.kind() != kind {
		return nil, mismatch("%s closed while %s is open", kind, top.kind())
	}
	a.stack = a.stack[:len(a.stack)-1]
	return top, nil
}

// attach appends a finished block to the new top of stack, or to the root.
func (a *assembler) attach(blk richtext.Block) error {
	switch parent := a.top().(type) {
	case nil:
		a.root = append(a.root, blk)
		return nil
	case container:
		return parent.appendBlock(blk)
	default:
		return mismatch("%s cannot contain %s", parent.kind(), blk.Kind())
	}
}

// implicitParagraph returns the implicit paragraph on top, if any.
func (a *assembler) implicitParagraph() *paragraphBuilder {
	if p, ok := a.top().(*paragraphBuilder); ok && p.implicit {
		return p
	}
	return nil
}
