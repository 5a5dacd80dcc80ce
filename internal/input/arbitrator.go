package input

import (
	"fmt"

	"github.com/verte-zerg/blockfall/internal/analog"
)

// Command is a discrete game action chosen by one arbitration pass.
type Command uint8

const (
	CommandNone Command = iota
	CommandMoveLeft
	CommandMoveRight
	CommandRotate
	CommandDropFull
	CommandDropOne
	CommandPause
)

func (c Command) String() string {
	switch c {
	case CommandMoveLeft:
		return "move-left"
	case CommandMoveRight:
		return "move-right"
	case CommandRotate:
		return "rotate"
	case CommandDropFull:
		return "drop-full"
	case CommandDropOne:
		return "drop-one"
	case CommandPause:
		return "pause"
	default:
		return "none"
	}
}

// Source identifies which guard selected a command.
type Source uint8

const (
	SourceNone Source = iota
	SourceButton
	SourceKey
	SourceJoystick
)

// Buttons is the queued push-button input.
type Buttons interface {
	Pushed() (int, bool)
	Flush()
}

// Serial is the character stream. ReadByte blocks until a byte arrives and
// only fails once the stream is closed.
type Serial interface {
	Available() bool
	ReadByte() (byte, error)
}

// Sampler converts one analog axis.
type Sampler interface {
	Sample(axis analog.Axis) analog.Reading
}

// Thresholds are the joystick trip points. Comparisons are strict: a reading
// equal to a threshold does not trip it.
type Thresholds struct {
	HoldLow     analog.Reading
	HoldHigh    analog.Reading
	LeftBelow   analog.Reading
	RightAbove  analog.Reading
	RotateAbove analog.Reading
	DropBelow   analog.Reading
}

// DefaultThresholds returns the stock joystick trip points.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HoldLow:     200,
		HoldHigh:    900,
		LeftBelow:   200,
		RightAbove:  900,
		RotateAbove: 900,
		DropBelow:   100,
	}
}

// Validate checks that the trip points are ordered inside the 10-bit range.
func (t Thresholds) Validate() error {
	if t.HoldLow >= t.HoldHigh {
		return fmt.Errorf("hold-low (%d) must be below hold-high (%d)", t.HoldLow, t.HoldHigh)
	}
	for name, v := range map[string]analog.Reading{
		"hold-high":    t.HoldHigh,
		"right-above":  t.RightAbove,
		"rotate-above": t.RotateAbove,
	} {
		if v >= analog.MaxReading {
			return fmt.Errorf("%s (%d) must be below %d", name, v, analog.MaxReading)
		}
	}
	if t.LeftBelow == 0 || t.DropBelow == 0 {
		return fmt.Errorf("left-below and drop-below must be greater than 0")
	}
	return nil
}

// Decision is the outcome of one arbitration pass.
type Decision struct {
	Command Command
	Source  Source
	Event   Event
	// Deflected is true when either axis sits outside the hold band in this
	// pass's readings.
	Deflected bool
	// Held is true when the stick was already deflected on the previous
	// pass, i.e. at the start of this one. It is not computed from this
	// pass's readings, so the first deflected pass reports false and the
	// dispatcher waits the longer fresh delay for it.
	Held bool
	X, Y analog.Reading
}

// FromJoystick reports whether the command came from an axis deflection.
func (d Decision) FromJoystick() bool {
	return d.Source == SourceJoystick
}

// Arbitrator collects at most one input event per pass and maps it, together
// with the joystick position, to a command.
type Arbitrator struct {
	sampler    Sampler
	buttons    Buttons
	serial     Serial
	thresholds Thresholds
	escape     EscapeAssembler
	held       bool
}

// NewArbitrator wires the three input sources.
func NewArbitrator(sampler Sampler, buttons Buttons, serial Serial, thresholds Thresholds) *Arbitrator {
	return &Arbitrator{
		sampler:    sampler,
		buttons:    buttons,
		serial:     serial,
		thresholds: thresholds,
	}
}

// EscapeState exposes the escape assembler state.
func (a *Arbitrator) EscapeState() EscapeState {
	return a.escape.State()
}

// Reset clears any partial escape sequence and the hold state.
func (a *Arbitrator) Reset() {
	a.escape.Reset()
	a.held = false
}

// Poll reads at most one pending event. Button presses win over serial input;
// a byte left in the stream is picked up on a later pass.
func (a *Arbitrator) Poll() (Event, error) {
	if id, ok := a.buttons.Pushed(); ok {
		return ButtonEvent(id), nil
	}
	if !a.serial.Available() {
		return NoEvent, nil
	}
	b, err := a.serial.ReadByte()
	if err != nil {
		return NoEvent, fmt.Errorf("read serial: %w", err)
	}
	return a.escape.Feed(b), nil
}

// Next runs one arbitration pass. Each axis is sampled exactly once, before
// any guard is evaluated.
func (a *Arbitrator) Next() (Decision, error) {
	x := a.sampler.Sample(analog.AxisX)
	y := a.sampler.Sample(analog.AxisY)
	ev, err := a.Poll()
	if err != nil {
		return Decision{}, err
	}
	d := a.decide(ev, x, y)
	a.held = d.Deflected
	return d, nil
}

func (a *Arbitrator) decide(ev Event, x, y analog.Reading) Decision {
	t := a.thresholds
	d := Decision{
		Event:     ev,
		X:         x,
		Y:         y,
		Deflected: x < t.HoldLow || x > t.HoldHigh || y < t.HoldLow || y > t.HoldHigh,
		Held:      a.held,
	}

	switch {
	case ev.IsButton(3) || ev.IsArrow(ArrowLeft) || x < t.LeftBelow:
		d.Command = CommandMoveLeft
		d.Source = sourceOf(ev.IsButton(3), ev.IsArrow(ArrowLeft))
	case ev.IsButton(0) || ev.IsArrow(ArrowRight) || x > t.RightAbove:
		d.Command = CommandMoveRight
		d.Source = sourceOf(ev.IsButton(0), ev.IsArrow(ArrowRight))
	case ev.IsButton(2) || ev.IsArrow(ArrowUp) || y > t.RotateAbove:
		d.Command = CommandRotate
		d.Source = sourceOf(ev.IsButton(2), ev.IsArrow(ArrowUp))
	case ev.IsButton(1) || ev.IsChar(' '):
		d.Command = CommandDropFull
		d.Source = sourceOf(ev.IsButton(1), ev.IsChar(' '))
	case ev.IsArrow(ArrowDown) || y < t.DropBelow:
		d.Command = CommandDropOne
		d.Source = sourceOf(false, ev.IsArrow(ArrowDown))
	case ev.IsChar('p') || ev.IsChar('P'):
		d.Command = CommandPause
		d.Source = SourceKey
	}
	return d
}

func sourceOf(button, key bool) Source {
	switch {
	case button:
		return SourceButton
	case key:
		return SourceKey
	default:
		return SourceJoystick
	}
}
