package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrStructuralMismatch indicates a close event without a matching open,
	// or one that closes a different kind of construct than the open one.
	ErrStructuralMismatch = errors.New("structural mismatch")

	// ErrSpliceOverrun indicates an entity link asked to retract more
	// characters than the pending text holds.
	ErrSpliceOverrun = errors.New("splice overrun")

	// ErrUnterminated indicates the stream ended with constructs still open.
	ErrUnterminated = errors.New("unterminated construct")

	// ErrUnknownEvent indicates an event value outside the closed event set.
	ErrUnknownEvent = errors.New("unknown event")
)

// Error is the terminal error of a failed compilation.
type Error struct {
	// Kind is one of the sentinel errors above.
	Kind error

	// Position is the zero-based index of the offending event, or -1 when
	// the failure was detected at end of stream.
	Position int

	// Event describes the offending event, if any.
	Event string

	// Detail explains what was expected.
	Detail string
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Position >= 0 {
		fmt.Fprintf(&sb, "event %d", e.Position)
	} else {
		sb.WriteString("end of stream")
	}
	if e.Event != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Event)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Kind.Error())
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

// Unwrap returns the sentinel kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

func mismatch(format string, args ...any) *Error {
	return &Error{Kind: ErrStructuralMismatch, Position: -1, Detail: fmt.Sprintf(format, args...)}
}

func overrun(format string, args ...any) *Error {
	return &Error{Kind: ErrSpliceOverrun, Position: -1, Detail: fmt.Sprintf(format, args...)}
}
