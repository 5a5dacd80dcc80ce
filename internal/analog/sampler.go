// Package analog samples the two joystick axes through a blocking converter.
package analog

// Axis selects an analog channel.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// Reading is a 10-bit conversion result.
type Reading uint16

const (
	MaxReading Reading = 1023
	Center     Reading = 511
)

// Converter is the analog-to-digital conversion hardware. Select and Start are
// register writes; Busy reports whether the started conversion is still running.
type Converter interface {
	Select(axis Axis)
	Start()
	Busy() bool
	Value() uint16
}

// Sampler performs on-demand conversions. There is no caching: every call
// returns a fresh reading.
type Sampler struct {
	conv Converter
}

// NewSampler wraps a converter.
func NewSampler(conv Converter) *Sampler {
	return &Sampler{conv: conv}
}

// Sample converts one axis, polling the converter until it completes.
func (s *Sampler) Sample(axis Axis) Reading {
	s.conv.Select(axis)
	s.conv.Start()
	for s.conv.Busy() {
	}
	v := s.conv.Value()
	if v > uint16(MaxReading) {
		return MaxReading
	}
	return Reading(v)
}
