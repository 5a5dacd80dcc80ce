package sound

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Speaker plays cues on the host audio device.
type Speaker struct {
	mu     sync.Mutex
	volume float64
}

// NewSpeaker opens the audio device. volume is in [0, 1].
func NewSpeaker(volume float64) (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return &Speaker{volume: volume}, nil
}

// Tone implements Output. A new tone replaces one still sounding.
func (s *Speaker) Tone(freq float64, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tone := beep.Take(sampleRate.N(d), newSquare(freq, sampleRate))
	speaker.Clear()
	speaker.Play(withVolume(tone, s.volume))
	return nil
}

// Stop implements Output.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	speaker.Clear()
}

func withVolume(st beep.Streamer, volume float64) beep.Streamer {
	if volume <= 0 {
		return &effects.Volume{Streamer: st, Base: 2, Silent: true}
	}
	if volume > 1 {
		volume = 1
	}
	return &effects.Volume{Streamer: st, Base: 2, Volume: math.Log2(volume)}
}

// square is the output-compare toggle waveform.
type square struct {
	step  float64
	phase float64
}

func newSquare(freq float64, rate beep.SampleRate) *square {
	return &square{step: freq / float64(rate)}
}

func (q *square) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := 1.0
		if q.phase >= 0.5 {
			v = -1.0
		}
		samples[i][0] = v
		samples[i][1] = v
		q.phase += q.step
		q.phase -= math.Floor(q.phase)
	}
	return len(samples), true
}

func (q *square) Err() error { return nil }
