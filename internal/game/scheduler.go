package game

import "github.com/verte-zerg/blockfall/internal/clock"

// Scheduler drops the falling piece one row each time the interval elapses,
// independently of player input.
type Scheduler struct {
	clock    Clock
	board    Board
	accel    Accelerator
	timing   Timing
	interval clock.Ticks
	lastDrop clock.Stamp
}

// NewScheduler returns a scheduler at the base interval.
func NewScheduler(c Clock, board Board, accel Accelerator, timing Timing) *Scheduler {
	s := &Scheduler{clock: c, board: board, accel: accel, timing: timing}
	s.Reset()
	return s
}

// Reset restores the base interval and re-arms the timer.
func (s *Scheduler) Reset() {
	s.interval = s.timing.Interval
	s.Rearm()
}

// Rearm restarts the interval from now.
func (s *Scheduler) Rearm() {
	s.lastDrop = s.clock.Mark()
}

// Interval returns the current drop interval.
func (s *Scheduler) Interval() clock.Ticks {
	return s.interval
}

// Elapsed returns the ticks since the last drop.
func (s *Scheduler) Elapsed() clock.Ticks {
	return s.clock.Since(s.lastDrop)
}

// Resume re-arms the timer as if elapsed ticks had already passed, so the next
// drop lands interval-elapsed ticks from now.
func (s *Scheduler) Resume(elapsed clock.Ticks) {
	s.lastDrop = s.clock.Mark().Sub(elapsed)
}

// Due reports whether the interval has elapsed.
func (s *Scheduler) Due() bool {
	return s.Elapsed() >= s.interval
}

// Step performs the automatic drop if it is due. It returns false when the
// landed piece could not be fixed, which ends the game.
func (s *Scheduler) Step() bool {
	if !s.Due() {
		return true
	}
	if s.board.AttemptDropOneRow() {
		s.Rearm()
		s.accelerate()
		return true
	}
	if !s.board.FixAndSpawn() {
		return false
	}
	s.Rearm()
	return true
}

func (s *Scheduler) accelerate() {
	if s.accel == nil || s.interval < s.timing.AccelFloor {
		return
	}
	next := s.accel.NextInterval(s.interval)
	if next > s.interval {
		next = s.interval
	}
	if next < s.timing.MinInterval {
		next = s.timing.MinInterval
	}
	s.interval = next
}
