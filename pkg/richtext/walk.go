package richtext

import "fmt"

// BlockFunc is called for every block visited by Walk.
// Return a non-nil error to stop the walk.
type BlockFunc func(b Block, depth int) error

// InlineFunc is called for every inline node visited by Walk.
// Return a non-nil error to stop the walk.
type InlineFunc func(n Inline, depth int) error

// Visitor groups the callbacks used by Walk. Either may be nil.
type Visitor struct {
	Block  BlockFunc
	Inline InlineFunc
}

// Walk performs a pre-order traversal of the document. Table cells and
// spoiler content are visited in document order. The depth of a top-level
// block is 0.
func Walk(doc *Document, v Visitor) error {
	if doc == nil {
		return nil
	}
	for _, b := range doc.Blocks {
		if err := walkBlock(b, 0, v); err != nil {
			return err
		}
	}
	return nil
}

func walkBlock(b Block, depth int, v Visitor) error {
	if v.Block != nil {
		if err := v.Block(b, depth); err != nil {
			return err
		}
	}

	switch blk := b.(type) {
	case *Paragraph:
		return walkInlines(blk.Content, depth+1, v)
	case *Heading:
		return walkInlines(blk.Content, depth+1, v)
	case *List:
		for _, item := range blk.Items {
			if err := walkBlock(item, depth+1, v); err != nil {
				return err
			}
		}
	case *ListItem:
		return walkBlocks(blk.Blocks, depth+1, v)
	case *BlockQuote:
		return walkBlocks(blk.Blocks, depth+1, v)
	case *FootnoteDefinition:
		return walkBlocks(blk.Blocks, depth+1, v)
	case *Table:
		for _, cell := range blk.Header {
			if err := walkInlines(cell.Content, depth+1, v); err != nil {
				return err
			}
		}
		for _, row := range blk.Rows {
			for _, cell := range row {
				if err := walkInlines(cell.Content, depth+1, v); err != nil {
					return err
				}
			}
		}
	case *CodeBlock, *HorizontalRule, *Image, *AnimatedImage, *Video, *Embed, *Gallery:
		// Leaf blocks.
	default:
		return fmt.Errorf("walk: unknown block %T", b)
	}
	return nil
}

func walkBlocks(blocks []Block, depth int, v Visitor) error {
	for _, b := range blocks {
		if err := walkBlock(b, depth, v); err != nil {
			return err
		}
	}
	return nil
}

func walkInlines(nodes []Inline, depth int, v Visitor) error {
	for _, n := range nodes {
		if v.Inline != nil {
			if err := v.Inline(n, depth); err != nil {
				return err
			}
		}
		if sp, ok := n.(*Spoiler); ok {
			if err := walkInlines(sp.Content, depth+1, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// FindBlocks returns all blocks of the given kind in document order.
func FindBlocks(doc *Document, kind BlockKind) []Block {
	var result []Block

	//nolint:errcheck,revive // the visitor never fails
	Walk(doc, Visitor{Block: func(b Block, _ int) error {
		if b.Kind() == kind {
			result = append(result, b)
		}
		return nil
	}})

	return result
}

// FindInlines returns all inline nodes of the given kind in document order.
func FindInlines(doc *Document, kind InlineKind) []Inline {
	var result []Inline

	//nolint:errcheck,revive // the visitor never fails
	Walk(doc, Visitor{Inline: func(n Inline, _ int) error {
		if n.Kind() == kind {
			result = append(result, n)
		}
		return nil
	}})

	return result
}

// FirstBlock returns the first block of the given kind, or nil.
func FirstBlock(doc *Document, kind BlockKind) Block {
	var found Block

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(doc, Visitor{Block: func(b Block, _ int) error {
		if b.Kind() == kind {
			found = b
			return errStopWalk
		}
		return nil
	}})

	return found
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
