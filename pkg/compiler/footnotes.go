package compiler

import "strconv"

// footnoteRegistry assigns 1-based numbers to footnote names in the order
// they are first seen, whether by reference or by definition.
type footnoteRegistry struct {
	numbers map[string]int
}

func newFootnoteRegistry() *footnoteRegistry {
	return &footnoteRegistry{numbers: make(map[string]int)}
}

// number returns the number for name, assigning the next one on first use.
// assigned reports whether the number was assigned by this call.
func (r *footnoteRegistry) number(name string) (n int, assigned bool) {
	if n, ok := r.numbers[name]; ok {
		return n, false
	}
	n = len(r.numbers) + 1
	r.numbers[name] = n
	return n, true
}

// len returns how many names have been numbered.
func (r *footnoteRegistry) len() int {
	return len(r.numbers)
}

// footnoteLabel renders the visible label of a footnote reference.
func footnoteLabel(n int) string {
	return "[" + strconv.Itoa(n) + "]"
}
