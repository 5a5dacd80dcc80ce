package input

// EscapeState counts how much of an ESC [ x sequence has been consumed.
type EscapeState uint8

const (
	EscapeIdle EscapeState = iota
	EscapeSawEscape
	EscapeSawBracket
)

// EscapeAssembler reassembles three-byte cursor-key sequences from a byte
// stream. Its state carries over between arbitration passes.
type EscapeAssembler struct {
	state EscapeState
}

// State returns the current assembly state.
func (a *EscapeAssembler) State() EscapeState {
	return a.state
}

// Reset drops any partial sequence.
func (a *EscapeAssembler) Reset() {
	a.state = EscapeIdle
}

// Feed consumes one byte. Bytes that open or continue a sequence are
// swallowed (NoEvent); a byte that breaks the sequence is returned as a plain
// character and the state returns to idle.
func (a *EscapeAssembler) Feed(b byte) Event {
	switch {
	case a.state == EscapeIdle && b == Escape:
		a.state = EscapeSawEscape
		return NoEvent
	case a.state == EscapeSawEscape && b == '[':
		a.state = EscapeSawBracket
		return NoEvent
	case a.state == EscapeSawBracket:
		a.state = EscapeIdle
		return EscapeEvent(b)
	default:
		a.state = EscapeIdle
		return SerialEvent(b)
	}
}
