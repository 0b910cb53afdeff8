// Package goldmark produces compiler event streams from Markdown using the
// goldmark parser.
package goldmark

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Parser turns Markdown into event streams.
// A Parser is safe for concurrent use.
type Parser struct {
	flavor      string
	entityLinks bool
	spoilers    bool
	md          goldmark.Markdown
}

// Option configures a Parser.
type Option func(*Parser)

// WithEntityLinks enables u/name and r/name mention recognition.
func WithEntityLinks(enabled bool) Option {
	return func(p *Parser) {
		p.entityLinks = enabled
	}
}

// WithSpoilers enables >!spoiler!< recognition.
func WithSpoilers(enabled bool) Option {
	return func(p *Parser) {
		p.spoilers = enabled
	}
}

// New creates a parser for the given flavor.
// Supported flavors are "commonmark" and "gfm"; anything else means "gfm".
// Entity links and spoilers are enabled unless turned off with options.
func New(flavor string, opts ...Option) *Parser {
	p := &Parser{
		flavor:      flavorOrDefault(flavor),
		entityLinks: true,
		spoilers:    true,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.md = newGoldmarkInstance(p.flavor, &mentionTransformer{
		entityLinks: p.entityLinks,
		spoilers:    p.spoilers,
	})
	return p
}

// Flavor returns the configured Markdown flavor.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Events parses content and returns a stream over its events. The goldmark
// tree is built eagerly; events are produced lazily as the stream is read.
// Cancelling ctx ends the stream early and is reported by Stream.Err.
func (p *Parser) Events(ctx context.Context, content []byte) (*Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	source := copyContent(content)
	reader := text.NewReader(source)
	doc := p.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	return newStream(ctx, doc, source), nil
}

func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorGFM
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string, transformer parser.ASTTransformer) goldmark.Markdown {
	opts := []goldmark.Option{
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(transformer, 999)),
		),
	}

	switch flavor {
	case FlavorGFM:
		opts = append(opts, goldmark.WithExtensions(extension.GFM, extension.Footnote))
	case FlavorCommonMark:
		// No extensions for pure CommonMark.
	}

	return goldmark.New(opts...)
}

func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
