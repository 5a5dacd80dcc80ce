package game

import (
	"testing"

	"github.com/verte-zerg/blockfall/internal/clock"
)

func TestSchedulerFiresExactlyAtInterval(t *testing.T) {
	clk := newTestClock()
	board := &fakeBoard{landAfter: 100, fixLimit: 1}
	s := NewScheduler(clk, board, nil, DefaultTiming())

	for i := 0; i < 599; i++ {
		clk.Tick()
		if !s.Step() {
			t.Fatalf("unexpected game over")
		}
	}
	if board.drops != 0 {
		t.Fatalf("expected no drop before the interval, got %d", board.drops)
	}
	clk.Tick()
	s.Step()
	if board.drops != 1 {
		t.Fatalf("expected exactly one drop at the interval, got %d", board.drops)
	}
	s.Step()
	if board.drops != 1 {
		t.Fatalf("expected timer re-armed after drop, got %d drops", board.drops)
	}
}

func TestSchedulerSurvivesClockReset(t *testing.T) {
	clk := newTestClock()
	board := &fakeBoard{landAfter: 100, fixLimit: 1}
	s := NewScheduler(clk, board, nil, DefaultTiming())
	clk.Advance(500)
	clk.Reset()
	s.Step()
	if board.drops != 0 {
		t.Fatalf("reset must not trigger a drop")
	}
	clk.Advance(100)
	s.Step()
	if board.drops != 1 {
		t.Fatalf("expected drop once 600 ticks elapsed across the reset")
	}
}

func TestSchedulerFixesLandedPiece(t *testing.T) {
	clk := newTestClock()
	board := &fakeBoard{landAfter: 0, fixLimit: 1}
	s := NewScheduler(clk, board, nil, DefaultTiming())

	clk.Advance(600)
	if !s.Step() {
		t.Fatalf("expected fix to succeed")
	}
	if board.fixes != 1 {
		t.Fatalf("expected one fix, got %d", board.fixes)
	}
	if s.Due() {
		t.Fatalf("expected timer re-armed after fix")
	}
	clk.Advance(600)
	if s.Step() {
		t.Fatalf("expected game over when fix fails")
	}
}

func TestSchedulerAcceleration(t *testing.T) {
	clk := newTestClock()
	board := &fakeBoard{landAfter: 1000, fixLimit: 1}
	proposals := []clock.Ticks{500, 700, 190, 10}
	var calls int
	accel := AcceleratorFunc(func(prev clock.Ticks) clock.Ticks {
		next := proposals[calls]
		calls++
		return next
	})
	s := NewScheduler(clk, board, accel, DefaultTiming())

	drop := func() {
		clk.Advance(s.Interval())
		s.Step()
	}
	drop()
	if s.Interval() != 500 {
		t.Fatalf("expected 500, got %d", s.Interval())
	}
	drop()
	if s.Interval() != 500 {
		t.Fatalf("interval must never grow, got %d", s.Interval())
	}
	drop()
	if s.Interval() != 190 {
		t.Fatalf("expected 190, got %d", s.Interval())
	}
	drop()
	if s.Interval() != 190 || calls != 3 {
		t.Fatalf("expected shrinking to stop below the floor, got %d after %d calls", s.Interval(), calls)
	}
	s.Reset()
	if s.Interval() != 600 {
		t.Fatalf("expected reset to base interval, got %d", s.Interval())
	}
}

func TestSchedulerClampsToMinimum(t *testing.T) {
	clk := newTestClock()
	board := &fakeBoard{landAfter: 1000, fixLimit: 1}
	accel := AcceleratorFunc(func(clock.Ticks) clock.Ticks { return 1 })
	s := NewScheduler(clk, board, accel, DefaultTiming())
	clk.Advance(600)
	s.Step()
	if s.Interval() != DefaultTiming().MinInterval {
		t.Fatalf("expected clamp to min interval, got %d", s.Interval())
	}
}

func TestLevelAccelerator(t *testing.T) {
	rows := 0
	a := LevelAccelerator{Base: 600, Step: 25, Floor: 100, Rows: func() int { return rows }}
	if got := a.NextInterval(600); got != 600 {
		t.Fatalf("expected 600 with no rows, got %d", got)
	}
	rows = 4
	if got := a.NextInterval(600); got != 500 {
		t.Fatalf("expected 500, got %d", got)
	}
	if got := a.NextInterval(450); got != 450 {
		t.Fatalf("expected no increase past prev, got %d", got)
	}
	rows = 100
	if got := a.NextInterval(500); got != 100 {
		t.Fatalf("expected floor, got %d", got)
	}
}

func TestTimingValidate(t *testing.T) {
	if err := DefaultTiming().Validate(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	bad := DefaultTiming()
	bad.MinInterval = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected zero min interval to fail")
	}
}
