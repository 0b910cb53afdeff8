package event

import "strconv"

// TagKind classifies a Tag. It is used to match close events against the
// builder that was opened for them.
type TagKind uint8

// Tag kinds for block-level, inline-level and media constructs.
const (
	// Block-level tags.
	KindParagraph TagKind = iota
	KindRule
	KindHeading
	KindTable
	KindTableHead
	KindTableRow
	KindTableCell
	KindBlockQuote
	KindCodeBlock
	KindList
	KindItem
	KindFootnoteDefinition

	// Inline style tags.
	KindEmphasis
	KindStrong
	KindUnderline
	KindStrikethrough
	KindSubscript
	KindSuperscript
	KindCode

	// Inline scope tags.
	KindSpoiler
	KindLink
	KindEntityLink

	// Media tags, already resolved upstream.
	KindImage
	KindAnimatedImage
	KindVideo
	KindEmbed
	KindGallery
)

var tagKindNames = [...]string{
	KindParagraph:          "Paragraph",
	KindRule:               "Rule",
	KindHeading:            "Heading",
	KindTable:              "Table",
	KindTableHead:          "TableHead",
	KindTableRow:           "TableRow",
	KindTableCell:          "TableCell",
	KindBlockQuote:         "BlockQuote",
	KindCodeBlock:          "CodeBlock",
	KindList:               "List",
	KindItem:               "Item",
	KindFootnoteDefinition: "FootnoteDefinition",
	KindEmphasis:           "Emphasis",
	KindStrong:             "Strong",
	KindUnderline:          "Underline",
	KindStrikethrough:      "Strikethrough",
	KindSubscript:          "Subscript",
	KindSuperscript:        "Superscript",
	KindCode:               "Code",
	KindSpoiler:            "Spoiler",
	KindLink:               "Link",
	KindEntityLink:         "EntityLink",
	KindImage:              "Image",
	KindAnimatedImage:      "AnimatedImage",
	KindVideo:              "Video",
	KindEmbed:              "Embed",
	KindGallery:            "Gallery",
}

// String returns the name of the tag kind.
func (k TagKind) String() string {
	if int(k) < len(tagKindNames) {
		return tagKindNames[k]
	}
	return "TagKind(" + strconv.Itoa(int(k)) + ")"
}

// IsStyle reports whether the kind is an inline style span.
func (k TagKind) IsStyle() bool {
	return k >= KindEmphasis && k <= KindCode
}

// IsMedia reports whether the kind is a resolved media block.
func (k TagKind) IsMedia() bool {
	return k >= KindImage && k <= KindGallery
}

// Tag is the closed set of markers carried by Start and End events.
// Only types in this package implement it.
type Tag interface {
	Kind() TagKind
	isTag()
}

// Alignment is a table column alignment.
type Alignment uint8

// Column alignments. AlignNone means the column declares no preference.
const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// String returns the lowercase alignment name.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "none"
	}
}

// EntityKind identifies what a shorthand entity link points to.
type EntityKind uint8

// Entity kinds.
const (
	EntityUser EntityKind = iota
	EntitySubreddit
	EntityPost
	EntityComment
)

// Prefix returns the shorthand prefix for the entity kind, e.g. "u/".
func (k EntityKind) Prefix() string {
	switch k {
	case EntitySubreddit:
		return "r/"
	case EntityPost:
		return "p/"
	case EntityComment:
		return "c/"
	default:
		return "u/"
	}
}

// String returns the entity kind name.
func (k EntityKind) String() string {
	switch k {
	case EntitySubreddit:
		return "subreddit"
	case EntityPost:
		return "post"
	case EntityComment:
		return "comment"
	default:
		return "user"
	}
}

// Media holds the pass-through fields of a resolved media element.
type Media struct {
	ID      string
	URL     string
	Caption string
	Width   int
	Height  int
}

type (
	Paragraph struct{}
	Rule      struct{}

	// Heading opens a heading of the given level (1-6).
	Heading struct {
		Level int
	}

	// Table opens a table. Alignments holds one entry per declared column.
	Table struct {
		Alignments []Alignment
	}

	TableHead  struct{}
	TableRow   struct{}
	TableCell  struct{}
	BlockQuote struct{}

	// CodeBlock opens a code block. Info is the raw fence info string.
	CodeBlock struct {
		Info string
	}

	// List opens a list. Start is nil for bullet lists and points at the
	// first item number for ordered lists.
	List struct {
		Start *int
	}

	Item struct{}

	// FootnoteDefinition opens the body of the named footnote.
	FootnoteDefinition struct {
		Name string
	}

	Emphasis      struct{}
	Strong        struct{}
	Underline     struct{}
	Strikethrough struct{}
	Subscript     struct{}
	Superscript   struct{}
	Code          struct{}
	Spoiler       struct{}

	// Link opens a hyperlink whose display text follows.
	Link struct {
		URL   string
		Title string
	}

	// EntityLink opens a shorthand entity reference. TrimLen is the number
	// of characters at the tail of the pending text that the tokenizer
	// already emitted provisionally and that belong to the reference.
	EntityLink struct {
		Entity  EntityKind
		ID      string
		TrimLen int
	}

	// Image opens an image whose alt text follows.
	Image struct {
		URL   string
		Title string
	}

	AnimatedImage struct {
		Media Media
	}

	Video struct {
		Media Media
	}

	Embed struct {
		URL     string
		Caption string
		Width   int
		Height  int
	}

	// Gallery is a group of media items resolved upstream.
	Gallery struct {
		ID      string
		Caption string
		Items   []Media
	}
)

func (Paragraph) Kind() TagKind          { return KindParagraph }
func (Rule) Kind() TagKind               { return KindRule }
func (Heading) Kind() TagKind            { return KindHeading }
func (Table) Kind() TagKind              { return KindTable }
func (TableHead) Kind() TagKind          { return KindTableHead }
func (TableRow) Kind() TagKind           { return KindTableRow }
func (TableCell) Kind() TagKind          { return KindTableCell }
func (BlockQuote) Kind() TagKind         { return KindBlockQuote }
func (CodeBlock) Kind() TagKind          { return KindCodeBlock }
func (List) Kind() TagKind               { return KindList }
func (Item) Kind() TagKind               { return KindItem }
func (FootnoteDefinition) Kind() TagKind { return KindFootnoteDefinition }
func (Emphasis) Kind() TagKind           { return KindEmphasis }
func (Strong) Kind() TagKind             { return KindStrong }
func (Underline) Kind() TagKind          { return KindUnderline }
func (Strikethrough) Kind() TagKind      { return KindStrikethrough }
func (Subscript) Kind() TagKind          { return KindSubscript }
func (Superscript) Kind() TagKind        { return KindSuperscript }
func (Code) Kind() TagKind               { return KindCode }
func (Spoiler) Kind() TagKind            { return KindSpoiler }
func (Link) Kind() TagKind               { return KindLink }
func (EntityLink) Kind() TagKind         { return KindEntityLink }
func (Image) Kind() TagKind              { return KindImage }
func (AnimatedImage) Kind() TagKind      { return KindAnimatedImage }
func (Video) Kind() TagKind              { return KindVideo }
func (Embed) Kind() TagKind              { return KindEmbed }
func (Gallery) Kind() TagKind            { return KindGallery }

func (Paragraph) isTag()          {}
func (Rule) isTag()               {}
func (Heading) isTag()            {}
func (Table) isTag()              {}
func (TableHead) isTag()          {}
func (TableRow) isTag()           {}
func (TableCell) isTag()          {}
func (BlockQuote) isTag()         {}
func (CodeBlock) isTag()          {}
func (List) isTag()               {}
func (Item) isTag()               {}
func (FootnoteDefinition) isTag() {}
func (Emphasis) isTag()           {}
func (Strong) isTag()             {}
func (Underline) isTag()          {}
func (Strikethrough) isTag()      {}
func (Subscript) isTag()          {}
func (Superscript) isTag()        {}
func (Code) isTag()               {}
func (Spoiler) isTag()            {}
func (Link) isTag()               {}
func (EntityLink) isTag()         {}
func (Image) isTag()              {}
func (AnimatedImage) isTag()      {}
func (Video) isTag()              {}
func (Embed) isTag()              {}
func (Gallery) isTag()            {}
