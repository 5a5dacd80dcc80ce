package game

import (
	"context"
	"errors"
	"io"

	"github.com/verte-zerg/blockfall/internal/analog"
	"github.com/verte-zerg/blockfall/internal/clock"
	"github.com/verte-zerg/blockfall/internal/score"
	"github.com/verte-zerg/blockfall/internal/sound"
)

// testClock completes every wait instantly by advancing simulated time.
type testClock struct {
	*clock.Clock
	waits []clock.Ticks
}

func newTestClock() *testClock {
	return &testClock{Clock: clock.New()}
}

func (c *testClock) WaitUntil(_ context.Context, from clock.Stamp, d clock.Ticks) error {
	if elapsed := c.Since(from); elapsed < d {
		c.Advance(d - elapsed)
	}
	c.waits = append(c.waits, d)
	return nil
}

type fakeBoard struct {
	// landAfter is how many drops succeed before the piece lands.
	landAfter int
	fixLimit  int
	onFull    func()

	fall    int
	fixes   int
	moves   []Direction
	rotates int
	drops   int
	resets  int
	points  uint32
	rows    int
}

func (b *fakeBoard) Reset() {
	b.resets++
	b.fall = 0
	b.fixes = 0
}

func (b *fakeBoard) AttemptMove(dir Direction) bool {
	b.moves = append(b.moves, dir)
	return true
}

func (b *fakeBoard) AttemptRotation() bool {
	b.rotates++
	return true
}

func (b *fakeBoard) AttemptDropOneRow() bool {
	b.drops++
	if b.fall >= b.landAfter {
		return false
	}
	b.fall++
	return true
}

func (b *fakeBoard) FixAndSpawn() bool {
	if b.fixes >= b.fixLimit {
		if b.onFull != nil {
			b.onFull()
		}
		return false
	}
	b.fixes++
	b.fall = 0
	b.points += 10
	return true
}

func (b *fakeBoard) Score() uint32    { return b.points }
func (b *fakeBoard) ClearedRows() int { return b.rows }

type fakeSampler struct {
	x, y analog.Reading
}

func (s *fakeSampler) Sample(axis analog.Axis) analog.Reading {
	if axis == analog.AxisY {
		return s.y
	}
	return s.x
}

type fakeButtons struct {
	pending []int
	flushes int
	waits   int
}

func (b *fakeButtons) Pushed() (int, bool) {
	if len(b.pending) == 0 {
		return 0, false
	}
	id := b.pending[0]
	b.pending = b.pending[1:]
	return id, true
}

func (b *fakeButtons) Flush() {
	b.flushes++
	b.pending = nil
}

func (b *fakeButtons) Wait(context.Context) (int, error) {
	b.waits++
	return 0, nil
}

type fakeSerial struct {
	data    []byte
	onRead  func(b byte)
	flushes int
}

func (s *fakeSerial) Available() bool { return len(s.data) > 0 }

func (s *fakeSerial) ReadByte() (byte, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	b := s.data[0]
	s.data = s.data[1:]
	if s.onRead != nil {
		s.onRead(b)
	}
	return b, nil
}

func (s *fakeSerial) Flush() {
	s.flushes++
}

type fakeView struct {
	frames     []Status
	gameOvers  []uint32
	highScores []score.Table
}

func (v *fakeView) Frame(st Status)          { v.frames = append(v.frames, st) }
func (v *fakeView) GameOver(points uint32)   { v.gameOvers = append(v.gameOvers, points) }
func (v *fakeView) HighScores(t score.Table) { v.highScores = append(v.highScores, t) }

type fakeCues struct {
	played []sound.Cue
}

func (c *fakeCues) Play(cue sound.Cue) error {
	c.played = append(c.played, cue)
	return nil
}

type fakeStick struct {
	releases int
}

func (s *fakeStick) Release() { s.releases++ }

type failingCues struct{}

func (failingCues) Play(sound.Cue) error { return errors.New("speaker unplugged") }

type fakeSwitch bool

func (s fakeSwitch) On() bool { return bool(s) }
