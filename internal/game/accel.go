package game

import "github.com/verte-zerg/blockfall/internal/clock"

// LevelAccelerator shortens the interval by Step for every cleared row.
type LevelAccelerator struct {
	Base  clock.Ticks
	Step  clock.Ticks
	Rows  func() int
	Floor clock.Ticks
}

// NextInterval implements Accelerator. The result never exceeds prev.
func (a LevelAccelerator) NextInterval(prev clock.Ticks) clock.Ticks {
	rows := 0
	if a.Rows != nil {
		rows = a.Rows()
	}
	cut := clock.Ticks(rows) * a.Step
	next := a.Floor
	if a.Base > cut && a.Base-cut > a.Floor {
		next = a.Base - cut
	}
	if next > prev {
		return prev
	}
	return next
}
