package compiler

import (
	"cmp"
	"slices"

	"github.com/yaklabco/rtjson/pkg/event"
	"github.com/yaklabco/rtjson/pkg/richtext"
)

// styleFor maps an inline style tag to its format bit.
func styleFor(kind event.TagKind) (richtext.Style, bool) {
	switch kind {
	case event.KindStrong:
		return richtext.StyleBold, true
	case event.KindEmphasis:
		return richtext.StyleItalic, true
	case event.KindUnderline:
		return richtext.StyleUnderline, true
	case event.KindStrikethrough:
		return richtext.StyleStrikethrough, true
	case event.KindSubscript:
		return richtext.StyleSubscript, true
	case event.KindSuperscript:
		return richtext.StyleSuperscript, true
	case event.KindCode:
		return richtext.StyleCode, true
	default:
		return 0, false
	}
}

// openSpan is a style span whose close event has not been seen yet.
// start is a character offset into the current pending accumulator.
type openSpan struct {
	style richtext.Style
	start int
}

// rangeTracker holds the open spans and the ranges already recorded against
// the current pending accumulator.
type rangeTracker struct {
	open     []openSpan
	recorded []richtext.FormatRange
}

// push opens a span at offset at.
func (t *rangeTracker) push(style richtext.Style, at int) {
	t.open = append(t.open, openSpan{style: style, start: at})
}

// pop closes the innermost open span at offset at. Empty spans are dropped.
// It reports false when no span is open.
func (t *rangeTracker) pop(at int) bool {
	if len(t.open) == 0 {
		return false
	}
	span := t.open[len(t.open)-1]
	t.open = t.open[:len(t.open)-1]
	t.record(span, at)
	return true
}

func (t *rangeTracker) record(span openSpan, end int) {
	if end > span.start {
		t.recorded = append(t.recorded, richtext.FormatRange{
			Style:  span.style,
			Start:  span.start,
			Length: end - span.start,
		})
	}
}

// truncate repairs ranges after the accumulator shrank to length chars.
// Ranges past the cut are dropped, ranges crossing it are shortened and
// open spans that started past it are moved to it.
func (t *rangeTracker) truncate(length int) {
	kept := t.recorded[:0]
	for _, r := range t.recorded {
		if r.Start >= length {
			continue
		}
		if r.End() > length {
			r.Length = length - r.Start
		}
		kept = append(kept, r)
	}
	t.recorded = kept

	for i := range t.open {
		if t.open[i].start > length {
			t.open[i].start = length
		}
	}
}

// flush closes every open span at end, returns all ranges for the
// accumulator being flushed and restarts open spans at offset 0.
func (t *rangeTracker) flush(end int) []richtext.FormatRange {
	for _, span := range t.open {
		t.record(span, end)
	}
	for i := range t.open {
		t.open[i].start = 0
	}

	ranges := t.recorded
	t.recorded = nil
	if len(ranges) == 0 {
		return nil
	}
	slices.SortStableFunc(ranges, func(a, b richtext.FormatRange) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return ranges
}

// inherit returns a tracker for a nested scope that starts with a copy of
// the currently open spans at offset 0.
func (t *rangeTracker) inherit() rangeTracker {
	open := make([]openSpan, len(t.open))
	for i, span := range t.open {
		open[i] = openSpan{style: span.style}
	}
	return rangeTracker{open: open}
}
