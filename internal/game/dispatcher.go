package game

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/blockfall/internal/clock"
	"github.com/verte-zerg/blockfall/internal/input"
	"github.com/verte-zerg/blockfall/internal/sound"
)

// Dispatcher applies arbitrated commands to the board.
type Dispatcher struct {
	clock   Clock
	board   Board
	sched   *Scheduler
	cues    Cues
	mute    Switch
	buttons input.Buttons
	serial  input.Serial
	view    View
	status  func() Status
	timing  Timing
	log     io.Writer
}

// Dispatch executes one decision. It returns true when the command ended the
// game. Joystick-sourced moves, rotations and single drops hold the loop for
// the repeat delay afterwards.
func (d *Dispatcher) Dispatch(ctx context.Context, dec input.Decision) (bool, error) {
	muted := d.muted()
	issued := d.clock.Mark()

	switch dec.Command {
	case input.CommandMoveLeft:
		d.board.AttemptMove(Left)
	case input.CommandMoveRight:
		d.board.AttemptMove(Right)
	case input.CommandRotate:
		if !muted {
			d.cue(sound.CueRotate)
		}
		d.board.AttemptRotation()
	case input.CommandDropOne:
		if !d.dropOne() {
			return true, nil
		}
	case input.CommandDropFull:
		if !muted {
			d.cue(sound.CueDrop)
		}
		for d.board.AttemptDropOneRow() {
		}
		if !d.board.FixAndSpawn() {
			return true, nil
		}
		d.sched.Rearm()
		return false, nil
	case input.CommandPause:
		return false, d.pause()
	default:
		return false, nil
	}

	if !dec.FromJoystick() {
		return false, nil
	}
	return false, d.clock.WaitUntil(ctx, issued, d.holdDelay(dec))
}

func (d *Dispatcher) holdDelay(dec input.Decision) clock.Ticks {
	if dec.Held {
		return d.timing.HoldRepeat
	}
	return d.timing.HoldFresh
}

func (d *Dispatcher) dropOne() bool {
	if !d.board.AttemptDropOneRow() {
		if !d.board.FixAndSpawn() {
			return false
		}
	}
	d.sched.Rearm()
	return true
}

// pause blocks on the serial stream until the pause key comes round again.
// The time already spent towards the next drop is carried across the pause.
func (d *Dispatcher) pause() error {
	d.buttons.Flush()
	elapsed := d.sched.Elapsed()
	st := d.status()
	st.Paused = true
	d.view.Frame(st)
	for {
		b, err := d.serial.ReadByte()
		if err != nil {
			return fmt.Errorf("pause: %w", err)
		}
		if b == 'p' || b == 'P' {
			break
		}
	}
	d.sched.Resume(elapsed)
	d.buttons.Flush()
	return nil
}

func (d *Dispatcher) muted() bool {
	return d.mute != nil && d.mute.On()
}

func (d *Dispatcher) cue(c sound.Cue) {
	if d.cues == nil {
		return
	}
	if err := d.cues.Play(c); err != nil {
		logErrf(d.log, "failed to play %s cue: %v\n", c, err)
	}
}
