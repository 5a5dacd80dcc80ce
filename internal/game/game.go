// Package game runs the foreground loop: input arbitration, command dispatch,
// the automatic drop timer and the game-over sequence.
package game

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/verte-zerg/blockfall/internal/clock"
	"github.com/verte-zerg/blockfall/internal/sound"
)

// Direction is a lateral move.
type Direction int8

const (
	Left  Direction = -1
	Right Direction = 1
)

// Board is the falling-piece model. AttemptDropOneRow fails when the piece
// has landed; FixAndSpawn fails when the board is full.
type Board interface {
	Reset()
	AttemptMove(dir Direction) bool
	AttemptRotation() bool
	AttemptDropOneRow() bool
	FixAndSpawn() bool
}

// Accelerator proposes the next drop interval after an automatic drop.
type Accelerator interface {
	NextInterval(prev clock.Ticks) clock.Ticks
}

// AcceleratorFunc adapts a function to Accelerator.
type AcceleratorFunc func(prev clock.Ticks) clock.Ticks

// NextInterval implements Accelerator.
func (f AcceleratorFunc) NextInterval(prev clock.Ticks) clock.Ticks {
	return f(prev)
}

// Clock is the subset of *clock.Clock the loop depends on.
type Clock interface {
	Mark() clock.Stamp
	Since(s clock.Stamp) clock.Ticks
	WaitUntil(ctx context.Context, from clock.Stamp, d clock.Ticks) error
}

// Cues starts tone cues.
type Cues interface {
	Play(c sound.Cue) error
}

// Switch is a level-sensed digital input.
type Switch interface {
	On() bool
}

// Releaser centres an input that may still be held from a previous game.
type Releaser interface {
	Release()
}

// Timing holds the drop and hold-repeat durations.
type Timing struct {
	Interval    clock.Ticks
	MinInterval clock.Ticks
	AccelFloor  clock.Ticks
	HoldFresh   clock.Ticks
	HoldRepeat  clock.Ticks
}

// DefaultTiming returns the stock durations.
func DefaultTiming() Timing {
	return Timing{
		Interval:    600,
		MinInterval: 50,
		AccelFloor:  200,
		HoldFresh:   300,
		HoldRepeat:  100,
	}
}

// Validate checks the durations are usable.
func (t Timing) Validate() error {
	if t.Interval == 0 {
		return fmt.Errorf("interval must be > 0")
	}
	if t.MinInterval == 0 || t.MinInterval > t.Interval {
		return fmt.Errorf("min-interval must be between 1 and interval (%d)", t.Interval)
	}
	if t.AccelFloor > t.Interval {
		return fmt.Errorf("accel-floor must not exceed interval (%d)", t.Interval)
	}
	return nil
}

// logErrf writes a diagnostic to w, or to stderr when w is nil.
func logErrf(w io.Writer, format string, args ...any) {
	if w == nil {
		w = os.Stderr
	}
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
