package sound

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

type countingClock struct{ resets int }

func (c *countingClock) Reset() { c.resets++ }

type recordingOutput struct {
	freqs []float64
	durs  []time.Duration
	stops int
}

func (r *recordingOutput) Tone(freq float64, d time.Duration) error {
	r.freqs = append(r.freqs, freq)
	r.durs = append(r.durs, d)
	return nil
}

func (r *recordingOutput) Stop() { r.stops++ }

func TestPlayResetsClock(t *testing.T) {
	clk := &countingClock{}
	out := &recordingOutput{}
	p := NewPlayer(clk, out)
	if err := p.Play(CueRotate); err != nil {
		t.Fatalf("play: %v", err)
	}
	if err := p.Play(CueDrop); err != nil {
		t.Fatalf("play: %v", err)
	}
	if clk.resets != 2 {
		t.Fatalf("expected 2 clock resets, got %d", clk.resets)
	}
	if len(out.freqs) != 2 || out.freqs[0] != 4000 || out.freqs[1] != 1000 {
		t.Fatalf("unexpected tones %v", out.freqs)
	}
	if out.durs[0] != CueDuration {
		t.Fatalf("expected cue duration %v, got %v", CueDuration, out.durs[0])
	}
}

func TestNilOutputStillResets(t *testing.T) {
	clk := &countingClock{}
	p := NewPlayer(clk, nil)
	if err := p.Play(CueStart); err != nil {
		t.Fatalf("play: %v", err)
	}
	p.Stop()
	if clk.resets != 1 {
		t.Fatalf("expected reset, got %d", clk.resets)
	}
}

func TestSquareWave(t *testing.T) {
	q := newSquare(1000, beep.SampleRate(4000))
	samples := make([][2]float64, 8)
	n, ok := q.Stream(samples)
	if !ok || n != 8 {
		t.Fatalf("expected 8 samples, got %d %v", n, ok)
	}
	want := []float64{1, 1, -1, -1, 1, 1, -1, -1}
	for i, w := range want {
		if samples[i][0] != w || samples[i][1] != w {
			t.Fatalf("sample %d: expected %v, got %v", i, w, samples[i])
		}
	}
}
