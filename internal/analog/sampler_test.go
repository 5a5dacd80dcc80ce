package analog

import (
	"testing"
	"time"
)

type fakeConverter struct {
	values   map[Axis]uint16
	selected Axis
	polls    int
	busyFor  int
	starts   int
}

func (f *fakeConverter) Select(axis Axis) { f.selected = axis }
func (f *fakeConverter) Start()           { f.starts++; f.polls = f.busyFor }
func (f *fakeConverter) Busy() bool {
	if f.polls == 0 {
		return false
	}
	f.polls--
	return true
}
func (f *fakeConverter) Value() uint16 { return f.values[f.selected] }

func TestSampleSelectsAxisAndWaits(t *testing.T) {
	conv := &fakeConverter{values: map[Axis]uint16{AxisX: 12, AxisY: 1000}, busyFor: 3}
	s := NewSampler(conv)
	if got := s.Sample(AxisX); got != 12 {
		t.Fatalf("expected x=12, got %d", got)
	}
	if got := s.Sample(AxisY); got != 1000 {
		t.Fatalf("expected y=1000, got %d", got)
	}
	if conv.starts != 2 {
		t.Fatalf("expected a fresh conversion per sample, got %d", conv.starts)
	}
	if conv.polls != 0 {
		t.Fatalf("expected sampler to poll until conversion finished")
	}
}

func TestSampleClampsToTenBits(t *testing.T) {
	conv := &fakeConverter{values: map[Axis]uint16{AxisX: 4000}}
	if got := NewSampler(conv).Sample(AxisX); got != MaxReading {
		t.Fatalf("expected clamp to %d, got %d", MaxReading, got)
	}
}

func TestJoystickSpringsBack(t *testing.T) {
	now := time.Unix(100, 0)
	j := NewJoystick(150 * time.Millisecond)
	j.now = func() time.Time { return now }
	s := NewSampler(j)

	if got := s.Sample(AxisX); got != Center {
		t.Fatalf("expected centred x, got %d", got)
	}
	j.Deflect(AxisX, 0)
	if got := s.Sample(AxisX); got != 0 {
		t.Fatalf("expected deflected x=0, got %d", got)
	}
	if got := s.Sample(AxisY); got != Center {
		t.Fatalf("expected y untouched, got %d", got)
	}
	now = now.Add(150 * time.Millisecond)
	if got := s.Sample(AxisX); got != Center {
		t.Fatalf("expected x to spring back, got %d", got)
	}
}

func TestJoystickRelease(t *testing.T) {
	j := NewJoystick(time.Hour)
	j.Deflect(AxisY, MaxReading)
	j.Release()
	if got := NewSampler(j).Sample(AxisY); got != Center {
		t.Fatalf("expected release to centre, got %d", got)
	}
}
