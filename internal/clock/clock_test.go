package clock

import (
	"context"
	"math"
	"testing"
	"time"
)

func TestTickAdvancesNowAndStamps(t *testing.T) {
	c := New()
	ref := c.Mark()
	for i := 0; i < 5; i++ {
		c.Tick()
	}
	if got := c.Now(); got != 5 {
		t.Fatalf("expected now=5, got %d", got)
	}
	if got := c.Since(ref); got != 5 {
		t.Fatalf("expected 5 ticks since ref, got %d", got)
	}
}

func TestResetDoesNotDisturbStamps(t *testing.T) {
	c := New()
	c.Advance(400)
	ref := c.Mark()
	c.Advance(120)
	c.Reset()
	if got := c.Now(); got != 0 {
		t.Fatalf("expected now=0 after reset, got %d", got)
	}
	c.Advance(30)
	if got := c.Since(ref); got != 150 {
		t.Fatalf("expected 150 ticks since ref across reset, got %d", got)
	}
}

func TestNowWraps(t *testing.T) {
	c := New()
	c.Advance(Ticks(math.MaxUint32))
	c.Tick()
	if got := c.Now(); got != 0 {
		t.Fatalf("expected wrapped counter 0, got %d", got)
	}
}

func TestStampArithmetic(t *testing.T) {
	c := New()
	c.Advance(1000)
	now := c.Mark()
	if got := c.Since(now.Sub(120)); got != 120 {
		t.Fatalf("expected 120, got %d", got)
	}
	if got := c.Since(now.Add(50)); got != 0 {
		t.Fatalf("expected future stamp to yield 0, got %d", got)
	}
	if got := c.Since(now.Sub(5000)); got != 1000 {
		t.Fatalf("expected saturation at origin (1000), got %d", got)
	}
}

func TestWaitUntilHonoursContext(t *testing.T) {
	c := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.WaitUntil(ctx, c.Mark(), 10); err == nil {
		t.Fatalf("expected context error from stalled clock")
	}
}

func TestWaitUntilReturnsOnceElapsed(t *testing.T) {
	c := New()
	ref := c.Mark()
	c.Advance(10)
	if err := c.WaitUntil(context.Background(), ref, 10); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestRunDrivesTicks(t *testing.T) {
	c := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()
	ref := c.Mark()
	if err := c.WaitUntil(context.Background(), ref, 5); err != nil {
		t.Fatalf("wait: %v", err)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("driver did not stop")
	}
}
