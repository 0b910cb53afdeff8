package goldmark

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rtjson/pkg/compiler"
	"github.com/yaklabco/rtjson/pkg/event"
	"github.com/yaklabco/rtjson/pkg/richtext"
)

func events(t *testing.T, p *Parser, src string) []event.Event {
	t.Helper()
	stream, err := p.Events(context.Background(), []byte(src))
	require.NoError(t, err)
	evs := event.Collect(stream)
	require.NoError(t, stream.Err())
	return evs
}

func compileMarkdown(t *testing.T, p *Parser, src string) *richtext.Document {
	t.Helper()
	stream, err := p.Events(context.Background(), []byte(src))
	require.NoError(t, err)
	doc, err := compiler.Compile(stream)
	require.NoError(t, err)
	assert.Empty(t, richtext.Validate(doc))
	return doc
}

func TestParser_New(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		flavor     string
		wantFlavor string
	}{
		{"commonmark", FlavorCommonMark, FlavorCommonMark},
		{"gfm", FlavorGFM, FlavorGFM},
		{"invalid defaults to gfm", "invalid", FlavorGFM},
		{"empty defaults to gfm", "", FlavorGFM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := New(tt.flavor)

			if p.Flavor() != tt.wantFlavor {
				t.Errorf("Flavor() = %q, want %q", p.Flavor(), tt.wantFlavor)
			}
		})
	}
}

func TestEvents_Basic(t *testing.T) {
	t.Parallel()

	got := events(t, New(FlavorCommonMark), "# Hello\n\nWorld *em* and **strong**\nnext `co de`")

	want := []event.Event{
		event.Start{Tag: event.Heading{Level: 1}},
		event.Text{Text: "Hello"},
		event.End{Tag: event.Heading{Level: 1}},
		event.Start{Tag: event.Paragraph{}},
		event.Text{Text: "World "},
		event.Start{Tag: event.Emphasis{}},
		event.Text{Text: "em"},
		event.End{Tag: event.Emphasis{}},
		event.Text{Text: " and "},
		event.Start{Tag: event.Strong{}},
		event.Text{Text: "strong"},
		event.End{Tag: event.Strong{}},
		event.SoftBreak{},
		event.Text{Text: "next "},
		event.Start{Tag: event.Code{}},
		event.Text{Text: "co de"},
		event.End{Tag: event.Code{}},
		event.End{Tag: event.Paragraph{}},
	}
	assert.Equal(t, want, got)
}

func TestEvents_EntityMention(t *testing.T) {
	t.Parallel()

	tag := event.EntityLink{Entity: event.EntityUser, ID: "bob", TrimLen: 2}
	got := events(t, New(FlavorGFM), "hi u/bob!")

	assert.Equal(t, []event.Event{
		event.Start{Tag: event.Paragraph{}},
		event.Text{Text: "hi "},
		event.Text{Text: "u/"},
		event.Start{Tag: tag},
		event.Text{Text: "bob"},
		event.End{Tag: tag},
		event.Text{Text: "!"},
		event.End{Tag: event.Paragraph{}},
	}, got)
}

func TestEvents_MentionForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []richtext.Inline
	}{
		{
			name: "subreddit with leading slash",
			src:  "join /r/golang today",
			want: []richtext.Inline{
				&richtext.Text{Text: "join "},
				&richtext.EntityLink{Entity: event.EntitySubreddit, ID: "golang"},
				&richtext.Text{Text: " today"},
			},
		},
		{
			name: "at start of paragraph",
			src:  "u/spez",
			want: []richtext.Inline{
				&richtext.EntityLink{Entity: event.EntityUser, ID: "spez"},
			},
		},
		{
			name: "inside a word is text",
			src:  "foou/bar",
			want: []richtext.Inline{&richtext.Text{Text: "foou/bar"}},
		},
		{
			name: "after a non-ASCII letter is text",
			src:  "éu/bob",
			want: []richtext.Inline{&richtext.Text{Text: "éu/bob"}},
		},
		{
			name: "followed by a non-ASCII letter is text",
			src:  "u/bobé",
			want: []richtext.Inline{&richtext.Text{Text: "u/bobé"}},
		},
		{
			name: "after a space following a non-ASCII word",
			src:  "café u/bob",
			want: []richtext.Inline{
				&richtext.Text{Text: "café "},
				&richtext.EntityLink{Entity: event.EntityUser, ID: "bob"},
			},
		},
		{
			name: "inside a link is link text",
			src:  "[u/bob](https://example.com)",
			want: []richtext.Inline{&richtext.Link{Text: "u/bob", URL: "https://example.com"}},
		},
		{
			name: "inside code is code",
			src:  "`u/bob`",
			want: []richtext.Inline{&richtext.Text{Text: "u/bob", Ranges: []richtext.FormatRange{
				{Style: richtext.StyleCode, Start: 0, Length: 5},
			}}},
		},
		{
			name: "name too long",
			src:  "u/abcdefghijklmnopqrstuvwxyz",
			want: []richtext.Inline{&richtext.Text{Text: "u/abcdefghijklmnopqrstuvwxyz"}},
		},
		{
			name: "keeps surrounding emphasis",
			src:  "*see u/bob now*",
			want: []richtext.Inline{
				&richtext.Text{Text: "see ", Ranges: []richtext.FormatRange{{Style: richtext.StyleItalic, Start: 0, Length: 4}}},
				&richtext.EntityLink{Entity: event.EntityUser, ID: "bob"},
				&richtext.Text{Text: " now", Ranges: []richtext.FormatRange{{Style: richtext.StyleItalic, Start: 0, Length: 4}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := compileMarkdown(t, New(FlavorGFM), tt.src)
			require.Len(t, doc.Blocks, 1)
			p, ok := doc.Blocks[0].(*richtext.Paragraph)
			require.True(t, ok)
			assert.Equal(t, tt.want, p.Content)
		})
	}
}

func TestEvents_EntityLinksDisabled(t *testing.T) {
	t.Parallel()

	doc := compileMarkdown(t, New(FlavorGFM, WithEntityLinks(false)), "hi u/bob")
	assert.Empty(t, richtext.FindInlines(doc, richtext.InlineEntityLink))
	assert.Equal(t, "hi u/bob\n", doc.PlainText())
}

func TestEvents_Spoiler(t *testing.T) {
	t.Parallel()

	t.Run("within one text run", func(t *testing.T) {
		t.Parallel()

		got := events(t, New(FlavorGFM), "a >!secret!< b")
		assert.Equal(t, []event.Event{
			event.Start{Tag: event.Paragraph{}},
			event.Text{Text: "a "},
			event.Start{Tag: event.Spoiler{}},
			event.Text{Text: "secret"},
			event.End{Tag: event.Spoiler{}},
			event.Text{Text: " b"},
			event.End{Tag: event.Paragraph{}},
		}, got)
	})

	t.Run("around emphasis", func(t *testing.T) {
		t.Parallel()

		doc := compileMarkdown(t, New(FlavorGFM), "x >!**bold**!< y")
		p := doc.Blocks[0].(*richtext.Paragraph)
		assert.Equal(t, []richtext.Inline{
			&richtext.Text{Text: "x "},
			&richtext.Spoiler{Content: []richtext.Inline{
				&richtext.Text{Text: "bold", Ranges: []richtext.FormatRange{{Style: richtext.StyleBold, Start: 0, Length: 4}}},
			}},
			&richtext.Text{Text: " y"},
		}, p.Content)
	})

	t.Run("unclosed marker is text", func(t *testing.T) {
		t.Parallel()

		doc := compileMarkdown(t, New(FlavorGFM), "a >! b")
		assert.Empty(t, richtext.FindInlines(doc, richtext.InlineSpoiler))
		assert.Equal(t, "a >! b\n", doc.PlainText())
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		doc := compileMarkdown(t, New(FlavorGFM, WithSpoilers(false)), "a >!s!< b")
		assert.Empty(t, richtext.FindInlines(doc, richtext.InlineSpoiler))
	})

	t.Run("mention inside spoiler", func(t *testing.T) {
		t.Parallel()

		doc := compileMarkdown(t, New(FlavorGFM), "x >!ask u/bob!<")
		spoilers := richtext.FindInlines(doc, richtext.InlineSpoiler)
		require.Len(t, spoilers, 1)
		assert.Equal(t, []richtext.Inline{
			&richtext.Text{Text: "ask "},
			&richtext.EntityLink{Entity: event.EntityUser, ID: "bob"},
		}, spoilers[0].(*richtext.Spoiler).Content)
	})
}

func TestEvents_Images(t *testing.T) {
	t.Parallel()

	t.Run("image-only paragraph is a block", func(t *testing.T) {
		t.Parallel()

		got := events(t, New(FlavorGFM), `![a cat](cat.png "Cat")`)
		img := event.Image{URL: "cat.png", Title: "Cat"}
		assert.Equal(t, []event.Event{
			event.Start{Tag: img},
			event.Text{Text: "a cat"},
			event.End{Tag: img},
		}, got)
	})

	t.Run("image among text is a link", func(t *testing.T) {
		t.Parallel()

		doc := compileMarkdown(t, New(FlavorGFM), "see ![pic](p.png)")
		p := doc.Blocks[0].(*richtext.Paragraph)
		assert.Equal(t, []richtext.Inline{
			&richtext.Text{Text: "see "},
			&richtext.Link{Text: "pic", URL: "p.png"},
		}, p.Content)
	})
}

func TestEvents_Table(t *testing.T) {
	t.Parallel()

	doc := compileMarkdown(t, New(FlavorGFM), "| a | b | c |\n|:--|---|--:|\n| 1 | 2 | 3 |\n")

	table, ok := richtext.FirstBlock(doc, richtext.BlockTable).(*richtext.Table)
	require.True(t, ok)
	require.Len(t, table.Header, 3)
	assert.Equal(t, event.AlignLeft, table.Header[0].Alignment)
	assert.Equal(t, event.AlignNone, table.Header[1].Alignment)
	assert.Equal(t, event.AlignRight, table.Header[2].Alignment)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []richtext.Inline{&richtext.Text{Text: "3"}}, table.Rows[0][2].Content)
	assert.Equal(t, event.AlignRight, table.Rows[0][2].Alignment)
}

func TestEvents_Footnotes(t *testing.T) {
	t.Parallel()

	doc := compileMarkdown(t, New(FlavorGFM), "a[^x] b[^y] c[^x]\n\n[^x]: first\n[^y]: second\n")

	p, ok := doc.Blocks[0].(*richtext.Paragraph)
	require.True(t, ok)
	var labels []string
	for _, n := range p.Content {
		if txt, ok := n.(*richtext.Text); ok && strings.HasPrefix(txt.Text, "[") {
			labels = append(labels, txt.Text)
		}
	}
	assert.Equal(t, []string{"[1]", "[2]", "[1]"}, labels)

	defs := richtext.FindBlocks(doc, richtext.BlockFootnoteDefinition)
	require.Len(t, defs, 2)
	assert.Equal(t, 1, defs[0].(*richtext.FootnoteDefinition).Number)
	assert.Equal(t, 2, defs[1].(*richtext.FootnoteDefinition).Number)
}

func TestEvents_CodeBlocks(t *testing.T) {
	t.Parallel()

	got := events(t, New(FlavorGFM), "```go extra\nx := 1\ny := 2\n```\n\n    indented\n")

	fenced := event.CodeBlock{Info: "go extra"}
	indented := event.CodeBlock{}
	assert.Equal(t, []event.Event{
		event.Start{Tag: fenced},
		event.Text{Text: "x := 1\n"},
		event.Text{Text: "y := 2\n"},
		event.End{Tag: fenced},
		event.Start{Tag: indented},
		event.Text{Text: "indented\n"},
		event.End{Tag: indented},
	}, got)
}

func TestEvents_Lists(t *testing.T) {
	t.Parallel()

	doc := compileMarkdown(t, New(FlavorGFM), "3. a\n4. b\n\n- x\n- [x] done\n")

	lists := richtext.FindBlocks(doc, richtext.BlockList)
	require.Len(t, lists, 2)

	ordered := lists[0].(*richtext.List)
	assert.True(t, ordered.Ordered)
	assert.Equal(t, 3, ordered.StartNumber())
	assert.Len(t, ordered.Items, 2)

	bullets := lists[1].(*richtext.List)
	assert.False(t, bullets.Ordered)
	assert.Contains(t, doc.PlainText(), "[x] done")
}

func TestEvents_EscapesAndEntities(t *testing.T) {
	t.Parallel()

	doc := compileMarkdown(t, New(FlavorCommonMark), `a \*b\* &amp; &#35;`)
	assert.Equal(t, "a *b* & #\n", doc.PlainText())
}

func TestEvents_RawHTML(t *testing.T) {
	t.Parallel()

	got := events(t, New(FlavorCommonMark), "<div>\nhi\n</div>\n\na <b>x</b>")
	assert.Contains(t, got, event.Event(event.RawMarkup{Markup: "<div>\nhi\n</div>\n"}))
	assert.Contains(t, got, event.Event(event.InlineRawMarkup{Markup: "<b>"}))
}

func TestEvents_DeepNesting(t *testing.T) {
	t.Parallel()

	const depth = 100
	src := strings.Repeat("> ", depth) + "deep"
	doc := compileMarkdown(t, New(FlavorGFM), src)

	quotes := richtext.FindBlocks(doc, richtext.BlockBlockQuote)
	assert.Len(t, quotes, depth)
}

func TestEvents_Cancelled(t *testing.T) {
	t.Parallel()

	t.Run("before parsing", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New(FlavorGFM).Events(ctx, []byte("# x"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("while streaming", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		stream, err := New(FlavorGFM).Events(ctx, []byte("# a\n\nb\n\nc"))
		require.NoError(t, err)

		_, ok := stream.Next()
		require.True(t, ok)
		cancel()

		for {
			if _, ok := stream.Next(); !ok {
				break
			}
		}
		assert.ErrorIs(t, stream.Err(), context.Canceled)
	})
}
