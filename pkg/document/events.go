// ABOUTME: Structural event stream contract between parser and builder
// ABOUTME: Events arrive in document order and are consumed exactly once

package document

import (
	"fmt"
	"io"
)

// EventKind discriminates structural events.
type EventKind int

const (
	EventStartElement EventKind = iota
	EventEndElement
	EventAttribute
	EventText
	EventComment
	EventProcInst
)

// String returns the event kind name for diagnostics.
func (k EventKind) String() string {
	switch k {
	case EventStartElement:
		return "StartElement"
	case EventEndElement:
		return "EndElement"
	case EventAttribute:
		return "Attribute"
	case EventText:
		return "Text"
	case EventComment:
		return "Comment"
	case EventProcInst:
		return "ProcInst"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one structural event emitted by the external parser.
// Name holds the element or attribute name, or the processing
// instruction target. Value holds attribute values and text, comment
// or instruction content.
type Event struct {
	Kind  EventKind
	Name  string
	Value string
}

// EventSource supplies events in document order. Next returns io.EOF
// when the stream is exhausted.
type EventSource interface {
	Next() (Event, error)
}

// SliceSource adapts an in-memory event slice to an EventSource.
type SliceSource struct {
	events []Event
	pos    int
}

// NewSliceSource returns a source that replays the given events.
func NewSliceSource(events []Event) *SliceSource {
	return &SliceSource{events: events}
}

// Next returns the next event or io.EOF.
func (s *SliceSource) Next() (Event, error) {
	if s.pos >= len(s.events) {
		return Event{}, io.EOF
	}
	e := s.events[s.pos]
	s.pos++
	return e, nil
}
