// Package sound triggers the short tone cues. The tone generator shares its
// hardware timer with the millisecond clock, so every cue resets the clock.
package sound

import (
	"sync"
	"time"
)

// Cue is a one-shot tone.
type Cue uint8

const (
	CueStart Cue = iota
	CueRotate
	CueDrop
)

// CueDuration is how long a cue sounds before the output latches silent.
const CueDuration = 300 * time.Millisecond

// Frequency is the square-wave pitch of the cue in hertz.
func (c Cue) Frequency() float64 {
	switch c {
	case CueRotate:
		return 4000
	case CueDrop:
		return 1000
	default:
		return 125
	}
}

func (c Cue) String() string {
	switch c {
	case CueRotate:
		return "rotate"
	case CueDrop:
		return "drop"
	default:
		return "start"
	}
}

// Resetter is the shared timer's counter.
type Resetter interface {
	Reset()
}

// Output renders a tone.
type Output interface {
	Tone(freq float64, d time.Duration) error
	Stop()
}

// Player starts cues on an output.
type Player struct {
	mu    sync.Mutex
	clock Resetter
	out   Output
}

// NewPlayer binds the shared clock and an output. A nil output plays nothing
// but still resets the clock.
func NewPlayer(clock Resetter, out Output) *Player {
	return &Player{clock: clock, out: out}
}

// Play (re)initialises the tone generator for c.
func (p *Player) Play(c Cue) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock.Reset()
	if p.out == nil {
		return nil
	}
	return p.out.Tone(c.Frequency(), CueDuration)
}

// Stop silences the output.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out != nil {
		p.out.Stop()
	}
}
