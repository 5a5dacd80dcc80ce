package console

import (
	"errors"
	"io"
	"sync/atomic"

	"github.com/verte-zerg/blockfall/internal/analog"
	"github.com/verte-zerg/blockfall/internal/input"
	"github.com/verte-zerg/blockfall/internal/model"
)

const ctrlC = 0x03

// MuteSwitch is a latching mute toggle.
type MuteSwitch struct {
	on atomic.Bool
}

// NewMuteSwitch returns a switch in the given position.
func NewMuteSwitch(on bool) *MuteSwitch {
	m := &MuteSwitch{}
	m.on.Store(on)
	return m
}

// On reports whether sound is muted.
func (m *MuteSwitch) On() bool { return m.on.Load() }

// Toggle flips the switch.
func (m *MuteSwitch) Toggle() { m.on.Store(!m.on.Load()) }

// Router splits keyboard bytes between the emulated panel devices. Bytes that
// belong to an escape sequence always go to the serial stream.
type Router struct {
	keys      model.KeyMap
	buttons   *input.ButtonQueue
	stick     *analog.Joystick
	mute      *MuteSwitch
	serial    *Serial
	interrupt func()

	esc int
}

const (
	escNone = iota
	escStarted
	escCSI
)

// NewRouter wires the key map to its devices. interrupt runs on Ctrl-C.
func NewRouter(keys model.KeyMap, buttons *input.ButtonQueue, stick *analog.Joystick, mute *MuteSwitch, serial *Serial, interrupt func()) *Router {
	return &Router{
		keys:      keys,
		buttons:   buttons,
		stick:     stick,
		mute:      mute,
		serial:    serial,
		interrupt: interrupt,
	}
}

// Route delivers one keyboard byte.
func (r *Router) Route(b byte) {
	switch r.esc {
	case escStarted:
		if b == '[' {
			r.esc = escCSI
		} else {
			r.esc = escNone
		}
		r.serial.Push(b)
		return
	case escCSI:
		if b >= 0x40 && b <= 0x7e {
			r.esc = escNone
		}
		r.serial.Push(b)
		return
	}

	switch b {
	case ctrlC:
		if r.interrupt != nil {
			r.interrupt()
		}
		return
	case input.Escape:
		r.esc = escStarted
		r.serial.Push(b)
		return
	case r.keys.StickLeft:
		r.stick.Deflect(analog.AxisX, 0)
		return
	case r.keys.StickRight:
		r.stick.Deflect(analog.AxisX, analog.MaxReading)
		return
	case r.keys.StickUp:
		r.stick.Deflect(analog.AxisY, analog.MaxReading)
		return
	case r.keys.StickDown:
		r.stick.Deflect(analog.AxisY, 0)
		return
	case r.keys.Mute:
		r.mute.Toggle()
		return
	}
	for id, k := range r.keys.Buttons {
		if b == k {
			r.buttons.Press(id)
			return
		}
	}
	r.serial.Push(b)
}

// Run routes bytes from in until it is exhausted, then closes the serial
// stream.
func (r *Router) Run(in io.Reader) error {
	defer r.serial.Close()
	buf := make([]byte, 64)
	for {
		n, err := in.Read(buf)
		for _, b := range buf[:n] {
			r.Route(b)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
