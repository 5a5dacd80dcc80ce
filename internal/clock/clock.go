// Package clock provides the millisecond tick source shared by input arbitration
// and drop scheduling.
package clock

import (
	"context"
	"math"
	"sync/atomic"
	"time"
)

// Ticks counts elapsed milliseconds. The counter wraps after roughly 49 days.
type Ticks uint32

// Stamp is a reference point captured with Mark. Elapsed time between a Stamp
// and the present is measured against a counter that Reset never touches, so
// references taken before a reset stay valid.
type Stamp struct {
	total uint64
}

// Sub returns a stamp d ticks earlier than s, saturating at the clock origin.
func (s Stamp) Sub(d Ticks) Stamp {
	if uint64(d) > s.total {
		return Stamp{}
	}
	return Stamp{total: s.total - uint64(d)}
}

// Clock is a monotonic millisecond counter. Tick is the only writer and runs in
// the driver goroutine (the timer interrupt); every other method is safe to call
// concurrently from the foreground loop.
type Clock struct {
	ticks atomic.Uint32
	total atomic.Uint64
}

// New returns a stopped clock at zero. Call Run to drive it from wall time.
func New() *Clock {
	return &Clock{}
}

// Tick advances the clock by one millisecond.
func (c *Clock) Tick() {
	c.ticks.Add(1)
	c.total.Add(1)
}

// Advance applies n ticks at once.
func (c *Clock) Advance(n Ticks) {
	c.ticks.Add(uint32(n))
	c.total.Add(uint64(n))
}

// Now returns the observable tick count. It is zeroed by Reset and wraps, so it
// must never be compared against a value read before a reset.
func (c *Clock) Now() Ticks {
	return Ticks(c.ticks.Load())
}

// Reset zeroes the observable counter. The tone generator shares the hardware
// timer and calls this whenever it is (re)initialised.
func (c *Clock) Reset() {
	c.ticks.Store(0)
}

// Mark captures the current instant as a reference for Since.
func (c *Clock) Mark() Stamp {
	return Stamp{total: c.total.Load()}
}

// Since returns the ticks elapsed since s. A stamp in the future yields zero.
func (c *Clock) Since(s Stamp) Ticks {
	now := c.total.Load()
	if now <= s.total {
		return 0
	}
	d := now - s.total
	if d > math.MaxUint32 {
		return Ticks(math.MaxUint32)
	}
	return Ticks(d)
}

// spinInterval bounds how often WaitUntil re-reads the counter.
const spinInterval = 100 * time.Microsecond

// WaitUntil holds the caller until d ticks have elapsed since from. It polls
// the counter rather than arming a timer so that a reset or a stalled driver
// is observed the same way the foreground loop observes it.
func (c *Clock) WaitUntil(ctx context.Context, from Stamp, d Ticks) error {
	for c.Since(from) < d {
		if err := ctx.Err(); err != nil {
			return err
		}
		time.Sleep(spinInterval)
	}
	return nil
}

// Run drives the clock from wall time until ctx is done. Ticks lost to
// scheduler latency are replayed so the counter tracks elapsed milliseconds.
func (c *Clock) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	start := time.Now()
	var applied uint64
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			due := uint64(now.Sub(start) / time.Millisecond)
			for applied < due {
				c.Tick()
				applied++
			}
		}
	}
}
