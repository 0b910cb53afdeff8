// Package richtext defines the typed rich-text document tree produced by the
// compiler. A Document owns its blocks; every block and inline node has
// exactly one parent and the tree is never mutated once compilation ends.
package richtext

import "github.com/yaklabco/rtjson/pkg/event"

// Document is the root of a compiled rich-text tree.
type Document struct {
	Blocks []Block
}

// BlockKind classifies a block node.
type BlockKind uint8

// Block node kinds.
const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockList
	BlockListItem
	BlockTable
	BlockCode
	BlockBlockQuote
	BlockRule
	BlockImage
	BlockAnimatedImage
	BlockVideo
	BlockEmbed
	BlockGallery
	BlockFootnoteDefinition
)

var blockKindNames = [...]string{
	BlockParagraph:          "Paragraph",
	BlockHeading:            "Heading",
	BlockList:               "List",
	BlockListItem:           "ListItem",
	BlockTable:              "Table",
	BlockCode:               "CodeBlock",
	BlockBlockQuote:         "BlockQuote",
	BlockRule:               "HorizontalRule",
	BlockImage:              "Image",
	BlockAnimatedImage:      "AnimatedImage",
	BlockVideo:              "Video",
	BlockEmbed:              "Embed",
	BlockGallery:            "Gallery",
	BlockFootnoteDefinition: "FootnoteDefinition",
}

// String returns the name of the block kind.
func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "Unknown"
}

// Block is the closed set of block nodes.
type Block interface {
	Kind() BlockKind
	isBlock()
}

// Paragraph is a run of inline content.
type Paragraph struct {
	Content []Inline
}

// Heading is a section heading of level 1-6.
type Heading struct {
	Level   int
	Content []Inline
}

// List is a bullet or ordered list. Start is nil unless the list is ordered
// and starts at a number other than 1.
type List struct {
	Ordered bool
	Start   *int
	Items   []*ListItem
}

// StartNumber returns the number of the first item of an ordered list.
func (l *List) StartNumber() int {
	if l.Start == nil {
		return 1
	}
	return *l.Start
}

// ListItem holds the blocks of one list entry.
type ListItem struct {
	Blocks []Block
}

// Cell is a table cell. Alignment comes from the column declaration.
type Cell struct {
	Alignment event.Alignment
	Content   []Inline
}

// Table holds a header row and any number of body rows.
type Table struct {
	Header []Cell
	Rows   [][]Cell
}

// CodeBlock is preformatted text. Language is nil for untagged blocks.
type CodeBlock struct {
	Language *string
	Text     string
}

// BlockQuote holds quoted blocks.
type BlockQuote struct {
	Blocks []Block
}

// HorizontalRule is a thematic break.
type HorizontalRule struct{}

// Image is a standalone image. Caption holds the alt text.
type Image struct {
	Media event.Media
	Title string
}

// AnimatedImage is a resolved animated image.
type AnimatedImage struct {
	Media event.Media
}

// Video is a resolved video.
type Video struct {
	Media event.Media
}

// Embed is an embedded external resource.
type Embed struct {
	URL     string
	Caption string
	Width   int
	Height  int
}

// Gallery is a group of media items.
type Gallery struct {
	ID      string
	Caption string
	Items   []event.Media
}

// FootnoteDefinition is the body of footnote Number.
type FootnoteDefinition struct {
	Number int
	Blocks []Block
}

func (*Paragraph) Kind() BlockKind          { return BlockParagraph }
func (*Heading) Kind() BlockKind            { return BlockHeading }
func (*List) Kind() BlockKind               { return BlockList }
func (*ListItem) Kind() BlockKind           { return BlockListItem }
func (*Table) Kind() BlockKind              { return BlockTable }
func (*CodeBlock) Kind() BlockKind          { return BlockCode }
func (*BlockQuote) Kind() BlockKind         { return BlockBlockQuote }
func (*HorizontalRule) Kind() BlockKind     { return BlockRule }
func (*Image) Kind() BlockKind              { return BlockImage }
func (*AnimatedImage) Kind() BlockKind      { return BlockAnimatedImage }
func (*Video) Kind() BlockKind              { return BlockVideo }
func (*Embed) Kind() BlockKind              { return BlockEmbed }
func (*Gallery) Kind() BlockKind            { return BlockGallery }
func (*FootnoteDefinition) Kind() BlockKind { return BlockFootnoteDefinition }

func (*Paragraph) isBlock()          {}
func (*Heading) isBlock()            {}
func (*List) isBlock()               {}
func (*ListItem) isBlock()           {}
func (*Table) isBlock()              {}
func (*CodeBlock) isBlock()          {}
func (*BlockQuote) isBlock()         {}
func (*HorizontalRule) isBlock()     {}
func (*Image) isBlock()              {}
func (*AnimatedImage) isBlock()      {}
func (*Video) isBlock()              {}
func (*Embed) isBlock()              {}
func (*Gallery) isBlock()            {}
func (*FootnoteDefinition) isBlock() {}
