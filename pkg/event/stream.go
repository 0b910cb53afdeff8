package event

// Stream is a single-consumption cursor over events.
// Next returns the next event and true, or nil and false once exhausted.
type Stream interface {
	Next() (Event, bool)
}

// SliceStream is a Stream over an in-memory slice of events.
type SliceStream struct {
	events []Event
	pos    int
}

// FromSlice returns a Stream that yields events in order.
func FromSlice(events []Event) *SliceStream {
	return &SliceStream{events: events}
}

// Next implements Stream.
func (s *SliceStream) Next() (Event, bool) {
	if s.pos >= len(s.events) {
		return nil, false
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, true
}

// StreamFunc adapts a function to the Stream interface.
type StreamFunc func() (Event, bool)

// Next implements Stream.
func (f StreamFunc) Next() (Event, bool) {
	return f()
}

// Collect drains a stream into a slice.
func Collect(s Stream) []Event {
	var events []Event
	for {
		ev, ok := s.Next()
		if !ok {
			return events
		}
		events = append(events, ev)
	}
}
