// Package console hosts the game on a terminal: raw keyboard input is split
// into the serial stream, the button queue, the emulated joystick and the
// mute switch, and frames are drawn back to the terminal.
package console

import (
	"io"
	"sync"
)

// serialBuffer is the depth of the receive buffer.
const serialBuffer = 64

// Serial is the receive side of the character stream. Bytes past the buffer
// depth are dropped.
type Serial struct {
	ch        chan byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewSerial returns an empty stream.
func NewSerial() *Serial {
	return &Serial{
		ch:   make(chan byte, serialBuffer),
		done: make(chan struct{}),
	}
}

// Push queues a received byte.
func (s *Serial) Push(b byte) {
	select {
	case <-s.done:
	case s.ch <- b:
	default:
	}
}

// Available reports whether ReadByte would return without blocking on input.
func (s *Serial) Available() bool {
	return len(s.ch) > 0
}

// ReadByte blocks for the next byte. Once the stream is closed and drained it
// returns io.EOF.
func (s *Serial) ReadByte() (byte, error) {
	select {
	case b := <-s.ch:
		return b, nil
	case <-s.done:
		select {
		case b := <-s.ch:
			return b, nil
		default:
			return 0, io.EOF
		}
	}
}

// Flush discards every buffered byte.
func (s *Serial) Flush() {
	for {
		select {
		case <-s.ch:
		default:
			return
		}
	}
}

// Close ends the stream. Blocked readers return io.EOF.
func (s *Serial) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}
