// Package input turns button, joystick and serial activity into game commands.
package input

import "fmt"

// Escape is the ASCII escape byte that opens a cursor-key sequence.
const Escape byte = 27

// Arrow-key final bytes of an ESC [ x sequence.
const (
	ArrowUp    byte = 'A'
	ArrowDown  byte = 'B'
	ArrowRight byte = 'C'
	ArrowLeft  byte = 'D'
)

// EventKind tags an Event.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventButton
	EventSerial
	EventEscape
)

// Event is the single input consumed by one arbitration pass.
type Event struct {
	Kind   EventKind
	Button int
	Byte   byte
}

// NoEvent is the zero Event.
var NoEvent = Event{}

// ButtonEvent builds a button press event.
func ButtonEvent(id int) Event {
	return Event{Kind: EventButton, Button: id}
}

// SerialEvent builds a plain serial character event.
func SerialEvent(b byte) Event {
	return Event{Kind: EventSerial, Byte: b}
}

// EscapeEvent builds a completed escape sequence event carrying its final byte.
func EscapeEvent(b byte) Event {
	return Event{Kind: EventEscape, Byte: b}
}

// IsButton reports whether e is a press of button id.
func (e Event) IsButton(id int) bool {
	return e.Kind == EventButton && e.Button == id
}

// IsArrow reports whether e is a completed escape sequence ending in b.
func (e Event) IsArrow(b byte) bool {
	return e.Kind == EventEscape && e.Byte == b
}

// IsChar reports whether e is the plain serial character b.
func (e Event) IsChar(b byte) bool {
	return e.Kind == EventSerial && e.Byte == b
}

func (e Event) String() string {
	switch e.Kind {
	case EventButton:
		return fmt.Sprintf("button(%d)", e.Button)
	case EventSerial:
		return fmt.Sprintf("char(%q)", e.Byte)
	case EventEscape:
		return fmt.Sprintf("escape(%q)", e.Byte)
	default:
		return "none"
	}
}
