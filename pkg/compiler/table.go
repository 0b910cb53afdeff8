package compiler

import "github.com/yaklabco/rtjson/pkg/event"

// tablePhase is the section of a table that finished cells belong to.
type tablePhase uint8

const (
	phaseHead tablePhase = iota
	phaseBody
)

func (p tablePhase) String() string {
	if p == phaseHead {
		return "head"
	}
	return "body"
}

// tableState tracks where the next table cell goes and which column
// alignment applies to it. phase routes finished cells and rows; the open
// flags only guard nesting.
type tableState struct {
	phase      tablePhase
	alignments []event.Alignment
	cellIndex  int

	inHead bool
	inRow  bool
	inCell bool
}

func newTableState(alignments []event.Alignment) *tableState {
	return &tableState{phase: phaseHead, alignments: alignments}
}

func (s *tableState) startHead() error {
	if s.inHead || s.inRow || s.inCell {
		return mismatch("table head opened inside another table section")
	}
	if s.phase != phaseHead {
		return mismatch("table head opened in the %s", s.phase)
	}
	s.inHead = true
	s.cellIndex = 0
	return nil
}

func (s *tableState) endHead() error {
	if !s.inHead || s.inRow || s.inCell {
		return mismatch("table head closed while not open")
	}
	s.inHead = false
	s.phase = phaseBody
	return nil
}

func (s *tableState) startRow() error {
	if s.inRow || s.inCell {
		return mismatch("table row opened inside another row")
	}
	if !s.inHead {
		// A row outside the head is a body row even when no head was seen.
		s.phase = phaseBody
	}
	s.inRow = true
	s.cellIndex = 0
	return nil
}

// endRow closes the current row and reports whether it is a body row.
func (s *tableState) endRow() (bool, error) {
	if !s.inRow || s.inCell {
		return false, mismatch("table row closed while not open")
	}
	s.inRow = false
	return s.phase == phaseBody, nil
}

func (s *tableState) startCell() error {
	if s.inCell {
		return mismatch("table cell opened inside another cell")
	}
	if !s.inHead && !s.inRow {
		return mismatch("table cell opened outside a head or row")
	}
	s.inCell = true
	return nil
}

// endCell closes the current cell and reports its alignment and whether it
// belongs to the header row.
func (s *tableState) endCell() (event.Alignment, bool, error) {
	if !s.inCell {
		return event.AlignNone, false, mismatch("table cell closed while not open")
	}
	s.inCell = false
	align := s.alignment(s.cellIndex)
	s.cellIndex++
	return align, s.phase == phaseHead, nil
}

// alignment returns the declared alignment for column i, or AlignNone when
// the row has more cells than declared columns.
func (s *tableState) alignment(i int) event.Alignment {
	if i < 0 || i >= len(s.alignments) {
		return event.AlignNone
	}
	return s.alignments[i]
}

// open reports whether a head, row or cell is still open.
func (s *tableState) open() bool {
	return s.inHead || s.inRow || s.inCell
}
