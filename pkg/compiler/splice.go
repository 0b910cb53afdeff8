package compiler

import (
	"unicode/utf8"

	"github.com/yaklabco/rtjson/pkg/event"
)

// truncate drops the last n characters of the pending accumulator and
// repairs every range that reached into them.
func (s *inlineScope) truncate(n int) error {
	if n > s.length {
		return overrun("cannot retract %d characters from %d pending", n, s.length)
	}
	if n <= 0 {
		return nil
	}

	text := s.pending.String()
	cut := len(text)
	for range n {
		_, size := utf8.DecodeLastRuneInString(text[:cut])
		cut -= size
	}

	s.pending.Reset()
	s.pending.WriteString(text[:cut])
	s.length -= n
	s.ranges.truncate(s.length)
	return nil
}

// openEntityLink retracts the provisional text the tokenizer emitted before
// it recognized the entity reference, then opens the entity link scope.
// Retraction only ever applies to the live accumulator of the current scope.
func (r *inlineRun) openEntityLink(tag event.EntityLink) error {
	if tag.TrimLen < 0 {
		return overrun("negative trim length %d", tag.TrimLen)
	}
	if err := r.current().truncate(tag.TrimLen); err != nil {
		return err
	}
	r.openScope(tag)
	return nil
}
