package richtext_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rtjson/pkg/event"
	"github.com/yaklabco/rtjson/pkg/richtext"
)

func sampleDocument() *richtext.Document {
	return &richtext.Document{Blocks: []richtext.Block{
		&richtext.Heading{Level: 1, Content: []richtext.Inline{&richtext.Text{Text: "Title"}}},
		&richtext.Paragraph{Content: []richtext.Inline{
			&richtext.Text{Text: "hello ", Ranges: []richtext.FormatRange{{Style: richtext.StyleBold, Start: 0, Length: 5}}},
			&richtext.EntityLink{Entity: event.EntityUser, ID: "bob"},
			&richtext.Spoiler{Content: []richtext.Inline{&richtext.Text{Text: "hidden"}}},
		}},
		&richtext.BlockQuote{Blocks: []richtext.Block{
			&richtext.List{Ordered: true, Items: []*richtext.ListItem{
				{Blocks: []richtext.Block{&richtext.Paragraph{Content: []richtext.Inline{&richtext.Text{Text: "item"}}}}},
			}},
		}},
		&richtext.Table{
			Header: []richtext.Cell{{Content: []richtext.Inline{&richtext.Text{Text: "h1"}}}, {Content: []richtext.Inline{&richtext.Text{Text: "h2"}}}},
			Rows:   [][]richtext.Cell{{{Content: []richtext.Inline{&richtext.Link{Text: "l", URL: "u"}}}}},
		},
		&richtext.CodeBlock{Text: "x := 1"},
		&richtext.HorizontalRule{},
	}}
}

func TestWalk_VisitsInPreOrder(t *testing.T) {
	t.Parallel()

	var blocks []string
	var inlines []richtext.InlineKind
	var depths []int

	err := richtext.Walk(sampleDocument(), richtext.Visitor{
		Block: func(b richtext.Block, depth int) error {
			blocks = append(blocks, b.Kind().String())
			depths = append(depths, depth)
			return nil
		},
		Inline: func(n richtext.Inline, _ int) error {
			inlines = append(inlines, n.Kind())
			return nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Heading", "Paragraph", "BlockQuote", "List", "ListItem", "Paragraph", "Table", "CodeBlock", "HorizontalRule",
	}, blocks)
	assert.Equal(t, []int{0, 0, 0, 1, 2, 3, 0, 0, 0}, depths)
	assert.Equal(t, []richtext.InlineKind{
		richtext.InlineText,
		richtext.InlineText, richtext.InlineEntityLink, richtext.InlineSpoiler, richtext.InlineText,
		richtext.InlineText,
		richtext.InlineText, richtext.InlineText, richtext.InlineLink,
	}, inlines)
}

func TestWalk_StopsOnError(t *testing.T) {
	t.Parallel()

	stop := errors.New("stop")
	visited := 0
	err := richtext.Walk(sampleDocument(), richtext.Visitor{Block: func(richtext.Block, int) error {
		visited++
		if visited == 2 {
			return stop
		}
		return nil
	}})

	require.ErrorIs(t, err, stop)
	assert.Equal(t, 2, visited)
}

func TestFind(t *testing.T) {
	t.Parallel()

	doc := sampleDocument()

	assert.Len(t, richtext.FindBlocks(doc, richtext.BlockParagraph), 2)
	assert.Len(t, richtext.FindInlines(doc, richtext.InlineText), 6)
	assert.IsType(t, &richtext.Table{}, richtext.FirstBlock(doc, richtext.BlockTable))
	assert.Nil(t, richtext.FirstBlock(doc, richtext.BlockGallery))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.Empty(t, richtext.Validate(sampleDocument()))

	bad := &richtext.Document{Blocks: []richtext.Block{
		&richtext.Paragraph{Content: []richtext.Inline{
			&richtext.Text{Text: "héllo", Ranges: []richtext.FormatRange{
				{Style: richtext.StyleBold, Start: 0, Length: 5},
				{Style: richtext.StyleItalic, Start: 3, Length: 3},
				{Style: richtext.StyleCode, Start: 1, Length: 0},
			}},
		}},
	}}

	errs := richtext.Validate(bad)
	require.Len(t, errs, 2)

	var rerr *richtext.RangeError
	require.ErrorAs(t, errs[0], &rerr)
	assert.Equal(t, richtext.StyleItalic, rerr.Range.Style)
	assert.Equal(t, "format range italic [3,6) out of bounds for text of 5 characters", errs[0].Error())
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	want := "Title\n" +
		"hello u/bobhidden\n" +
		"item\n" +
		"h1\th2\n" +
		"l\n" +
		"x := 1\n"
	assert.Equal(t, want, sampleDocument().PlainText())
}

func TestStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		style richtext.Style
		want  string
	}{
		{0, "none"},
		{richtext.StyleBold, "bold"},
		{richtext.StyleBold | richtext.StyleItalic, "bold+italic"},
		{richtext.StyleStrikethrough | richtext.StyleCode, "strikethrough+code"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.style.String())
		})
	}

	s := richtext.StyleBold | richtext.StyleUnderline
	assert.True(t, s.Has(richtext.StyleUnderline))
	assert.False(t, s.Has(richtext.StyleItalic))
}

func TestListStartNumber(t *testing.T) {
	t.Parallel()

	five := 5
	assert.Equal(t, 1, (&richtext.List{}).StartNumber())
	assert.Equal(t, 5, (&richtext.List{Ordered: true, Start: &five}).StartNumber())
}
