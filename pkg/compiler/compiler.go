// Package compiler turns a stream of markup parse events into a rich-text
// document tree.
//
// A Compiler consumes events strictly in order, one at a time, and keeps
// all of its state (open blocks, inline accumulators, footnote numbers) in
// explicit stacks owned by the pass. A compilation either produces a
// complete Document or fails with a single *Error; there are no partial
// results.
package compiler

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/rtjson/internal/logging"
	"github.com/yaklabco/rtjson/pkg/event"
	"github.com/yaklabco/rtjson/pkg/richtext"
)

// Escaper neutralizes characters in text and URL fields of the tree.
type Escaper interface {
	EscapeText(s string) string
	EscapeURL(s string) string
}

// LanguageDetector guesses the language of an untagged code block.
// It returns "" or "text" when unsure.
type LanguageDetector interface {
	Detect(code []byte) string
}

// LanguageDetectorFunc adapts a function to LanguageDetector.
type LanguageDetectorFunc func(code []byte) string

// Detect implements LanguageDetector.
func (f LanguageDetectorFunc) Detect(code []byte) string {
	return f(code)
}

type identityEscaper struct{}

func (identityEscaper) EscapeText(s string) string { return s }
func (identityEscaper) EscapeURL(s string) string  { return s }

// Option configures a Compiler.
type Option func(*Compiler)

// WithEscaper sets the escaper applied to text and URL fields.
// The default leaves strings unchanged.
func WithEscaper(e Escaper) Option {
	return func(c *Compiler) {
		if e != nil {
			c.escaper = e
		}
	}
}

// WithLogger sets the logger that receives debug records.
func WithLogger(l *log.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLanguageDetector enables language detection for code blocks that
// carry no info string.
func WithLanguageDetector(d LanguageDetector) Option {
	return func(c *Compiler) {
		c.detector = d
	}
}

// Compiler assembles one document per call to Compile.
type Compiler struct {
	escaper  Escaper
	detector LanguageDetector
	logger   *log.Logger

	blocks    *assembler
	footnotes *footnoteRegistry
	pos       int
}

// New creates a Compiler with the given options.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		escaper: identityEscaper{},
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile is a convenience wrapper around New(opts...).Compile(stream).
func Compile(stream event.Stream, opts ...Option) (*richtext.Document, error) {
	return New(opts...).Compile(stream)
}

// Compile consumes the stream to completion and returns the document.
// State from earlier calls is discarded first, so results only depend on
// the stream.
func (c *Compiler) Compile(stream event.Stream) (*richtext.Document, error) {
	c.blocks = &assembler{}
	c.footnotes = newFootnoteRegistry()
	c.pos = 0

	for {
		ev, ok := stream.Next()
		if !ok {
			break
		}
		if err := c.handle(ev); err != nil {
			return nil, c.locate(err, ev)
		}
		c.pos++
	}

	if err := c.closeImplicit(); err != nil {
		return nil, c.locate(err, nil)
	}
	if top := c.blocks.top(); top != nil {
		return nil, &Error{
			Kind:     ErrUnterminated,
			Position: -1,
			Detail:   top.kind().String() + " was never closed",
		}
	}

	doc := &richtext.Document{Blocks: c.blocks.root}
	c.logger.Debug("document compiled",
		logging.FieldEvents, c.pos,
		logging.FieldBlocks, len(doc.Blocks),
		logging.FieldFootnotes, c.footnotes.len(),
	)
	return doc, nil
}

// locate stamps the position and event onto a component error.
func (c *Compiler) locate(err error, ev event.Event) error {
	var cerr *Error
	if !errors.As(err, &cerr) {
		return err
	}
	if ev != nil {
		cerr.Position = c.pos
		cerr.Event = event.Describe(ev)
	}
	return cerr
}

func (c *Compiler) handle(ev event.Event) error {
	switch e := ev.(type) {
	case event.Start:
		return c.start(e.Tag)
	case event.End:
		return c.end(e.Tag)
	case event.Text:
		return c.text(e.Text)
	case event.RawMarkup:
		return c.rawMarkup(e.Markup, true)
	case event.InlineRawMarkup:
		return c.rawMarkup(e.Markup, false)
	case event.SoftBreak:
		return c.lineBreak(false)
	case event.HardBreak:
		return c.lineBreak(true)
	case event.FootnoteReference:
		return c.footnoteReference(e.Name)
	default:
		return &Error{Kind: ErrUnknownEvent, Position: -1}
	}
}

// hostRun returns the inline run of the top builder without creating one.
func (c *Compiler) hostRun() *inlineRun {
	if host, ok := c.blocks.top().(inlineHost); ok {
		return host.activeRun()
	}
	return nil
}

// inlineRun returns the run that receives inline content, opening an
// implicit paragraph when the top of stack is a block container.
func (c *Compiler) inlineRun(what string) (*inlineRun, error) {
	if run := c.hostRun(); run != nil {
		return run, nil
	}
	if !c.blocks.acceptsBlocks() {
		return nil, mismatch("%s is not allowed inside %s", what, c.blocks.top().kind())
	}
	p := &paragraphBuilder{run: newInlineRun(c.escaper), implicit: true}
	c.blocks.push(p)
	return p.run, nil
}

// closeImplicit finalizes an implicit paragraph sitting on top of stack.
func (c *Compiler) closeImplicit() error {
	if c.blocks.implicitParagraph() == nil {
		return nil
	}
	return c.closeBlock(event.KindParagraph)
}

func (c *Compiler) start(tag event.Tag) error {
	switch top := c.blocks.top().(type) {
	case *mediaBuilder:
		top.nest++
		return nil
	case *codeBuilder:
		return mismatch("%s opened inside a code block", tag.Kind())
	}

	kind := tag.Kind()
	if style, ok := styleFor(kind); ok {
		run, err := c.inlineRun(kind.String())
		if err != nil {
			return err
		}
		run.openStyle(style)
		return nil
	}

	switch t := tag.(type) {
	case event.Link, event.Spoiler:
		run, err := c.inlineRun(kind.String())
		if err != nil {
			return err
		}
		run.openScope(tag)
		return nil

	case event.EntityLink:
		run, err := c.inlineRun(kind.String())
		if err != nil {
			return err
		}
		if err := run.openEntityLink(t); err != nil {
			return err
		}
		c.logger.Debug("entity link spliced",
			logging.FieldEntity, t.Entity.String(),
			logging.FieldTrim, t.TrimLen,
		)
		return nil

	case event.Image:
		// Images inside inline content become links carrying the alt text.
		if run := c.hostRun(); run != nil {
			run.openScope(tag)
			return nil
		}
		return c.openBlock(&mediaBuilder{tag: tag})

	case event.AnimatedImage, event.Video, event.Embed, event.Gallery:
		return c.openBlock(&mediaBuilder{tag: tag})

	case event.Paragraph:
		return c.openBlock(&paragraphBuilder{run: newInlineRun(c.escaper)})

	case event.Heading:
		level := min(max(t.Level, 1), 6)
		return c.openBlock(&headingBuilder{level: level, run: newInlineRun(c.escaper)})

	case event.Rule:
		return c.openBlock(&ruleBuilder{})

	case event.BlockQuote:
		return c.openBlock(&blockContainer{tagKind: event.KindBlockQuote})

	case event.CodeBlock:
		return c.openBlock(&codeBuilder{language: codeLanguage(t.Info, c.escaper)})

	case event.List:
		return c.openBlock(newListBuilder(t))

	case event.FootnoteDefinition:
		n, assigned := c.footnotes.number(t.Name)
		if assigned {
			c.logger.Debug("footnote numbered", logging.FieldName, t.Name, logging.FieldNumber, n)
		}
		return c.openBlock(&blockContainer{tagKind: event.KindFootnoteDefinition, number: n})

	case event.Table:
		return c.openBlock(&tableBuilder{state: newTableState(t.Alignments)})

	case event.Item:
		if _, ok := c.blocks.top().(*listBuilder); !ok {
			return mismatch("list item opened outside a list")
		}
		c.blocks.push(&blockContainer{tagKind: event.KindItem})
		return nil

	case event.TableHead, event.TableRow, event.TableCell:
		return c.startTablePart(kind)

	default:
		return mismatch("unhandled tag %s", kind)
	}
}

// openBlock closes any implicit paragraph and pushes a block builder.
func (c *Compiler) openBlock(b builder) error {
	if err := c.closeImplicit(); err != nil {
		return err
	}
	if !c.blocks.acceptsBlocks() {
		return mismatch("%s cannot contain %s", c.blocks.top().kind(), b.kind())
	}
	c.blocks.push(b)
	return nil
}

func (c *Compiler) startTablePart(kind event.TagKind) error {
	table, ok := c.blocks.top().(*tableBuilder)
	if !ok {
		return mismatch("%s opened outside a table", kind)
	}
	switch kind {
	case event.KindTableHead:
		return table.state.startHead()
	case event.KindTableRow:
		if err := table.state.startRow(); err != nil {
			return err
		}
		table.row = nil
		return nil
	default:
		if err := table.state.startCell(); err != nil {
			return err
		}
		table.cell = newInlineRun(c.escaper)
		return nil
	}
}

func (c *Compiler) endTablePart(kind event.TagKind) error {
	table, ok := c.blocks.top().(*tableBuilder)
	if !ok {
		return mismatch("%s closed outside a table", kind)
	}
	switch kind {
	case event.KindTableHead:
		return table.state.endHead()
	case event.KindTableRow:
		inBody, err := table.state.endRow()
		if err != nil {
			return err
		}
		if inBody {
			table.rows = append(table.rows, table.row)
		}
		table.row = nil
		return nil
	default:
		content, err := table.cell.finish()
		if err != nil {
			return err
		}
		align, head, err := table.state.endCell()
		if err != nil {
			return err
		}
		cell := richtext.Cell{Alignment: align, Content: content}
		if head {
			table.header = append(table.header, cell)
		} else {
			table.row = append(table.row, cell)
		}
		table.cell = nil
		return nil
	}
}

func (c *Compiler) end(tag event.Tag) error {
	kind := tag.Kind()

	if media, ok := c.blocks.top().(*mediaBuilder); ok && media.nest > 0 {
		media.nest--
		return nil
	}

	if kind.IsStyle() {
		run := c.hostRun()
		if run == nil {
			return mismatch("%s closed outside inline content", kind)
		}
		return run.closeStyle(kind)
	}

	switch kind {
	case event.KindLink, event.KindEntityLink, event.KindSpoiler:
		run := c.hostRun()
		if run == nil {
			return mismatch("%s closed outside inline content", kind)
		}
		return run.closeScope(kind)

	case event.KindImage:
		if run := c.hostRun(); run != nil {
			return run.closeScope(kind)
		}
		return c.closeBlock(kind)

	case event.KindTableHead, event.KindTableRow, event.KindTableCell:
		return c.endTablePart(kind)

	default:
		// An implicit paragraph never matches an explicit close.
		if err := c.closeImplicit(); err != nil {
			return err
		}
		return c.closeBlock(kind)
	}
}

// closeBlock pops the top builder, finalizes it and attaches the block.
func (c *Compiler) closeBlock(kind event.TagKind) error {
	b, err := c.blocks.pop(kind)
	if err != nil {
		return err
	}
	blk, err := b.finish(c)
	if err != nil {
		return err
	}
	if err := c.blocks.attach(blk); err != nil {
		return err
	}
	c.logger.Debug("block finalized",
		logging.FieldKind, blk.Kind().String(),
		logging.FieldDepth, len(c.blocks.stack),
	)
	return nil
}

func (c *Compiler) text(s string) error {
	switch top := c.blocks.top().(type) {
	case *codeBuilder:
		top.text.WriteString(s)
		return nil
	case *mediaBuilder:
		top.alt.WriteString(c.escaper.EscapeText(s))
		return nil
	}
	run, err := c.inlineRun("text")
	if err != nil {
		return err
	}
	run.text(s)
	return nil
}

func (c *Compiler) lineBreak(hard bool) error {
	switch top := c.blocks.top().(type) {
	case *codeBuilder:
		top.text.WriteByte('\n')
		return nil
	case *mediaBuilder:
		top.alt.WriteByte(' ')
		return nil
	}
	run, err := c.inlineRun("line break")
	if err != nil {
		return err
	}
	if hard {
		run.hardBreak()
	} else {
		run.softBreak()
	}
	return nil
}

func (c *Compiler) rawMarkup(markup string, block bool) error {
	switch top := c.blocks.top().(type) {
	case *codeBuilder:
		top.text.WriteString(markup)
		return nil
	case *mediaBuilder:
		if !block {
			top.alt.WriteString(c.escaper.EscapeText(markup))
		}
		return nil
	}
	run, err := c.inlineRun("raw markup")
	if err != nil {
		return err
	}
	run.raw(markup)
	if block {
		// Block-level markup stands alone in its own paragraph.
		return c.closeImplicit()
	}
	return nil
}

func (c *Compiler) footnoteReference(name string) error {
	n, assigned := c.footnotes.number(name)
	if assigned {
		c.logger.Debug("footnote numbered", logging.FieldName, name, logging.FieldNumber, n)
	}

	switch top := c.blocks.top().(type) {
	case *codeBuilder:
		return mismatch("footnote reference inside a code block")
	case *mediaBuilder:
		top.alt.WriteString(footnoteLabel(n))
		return nil
	}
	run, err := c.inlineRun("footnote reference")
	if err != nil {
		return err
	}
	run.label(footnoteLabel(n))
	return nil
}
