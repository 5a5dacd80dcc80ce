package analog

import (
	"sync"
	"time"
)

// conversionPolls is how many Busy polls an emulated conversion takes.
const conversionPolls = 2

// Joystick emulates a self-centring two-axis stick behind a Converter. Key
// handlers call Deflect; each deflection springs back to Center once its hold
// window passes without being refreshed.
type Joystick struct {
	mu       sync.Mutex
	now      func() time.Time
	hold     time.Duration
	pos      [2]Reading
	until    [2]time.Time
	selected Axis
	pending  int
	value    uint16
}

// NewJoystick returns a centred joystick whose deflections last hold.
func NewJoystick(hold time.Duration) *Joystick {
	return &Joystick{
		now:  time.Now,
		hold: hold,
		pos:  [2]Reading{Center, Center},
	}
}

// Deflect pushes an axis to value for the hold window.
func (j *Joystick) Deflect(axis Axis, value Reading) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if value > MaxReading {
		value = MaxReading
	}
	j.pos[axis] = value
	j.until[axis] = j.now().Add(j.hold)
}

// Release centres both axes immediately.
func (j *Joystick) Release() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pos = [2]Reading{Center, Center}
	j.until = [2]time.Time{}
}

// Select implements Converter.
func (j *Joystick) Select(axis Axis) {
	j.mu.Lock()
	j.selected = axis
	j.mu.Unlock()
}

// Start implements Converter.
func (j *Joystick) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	axis := j.selected
	if j.pos[axis] != Center && !j.now().Before(j.until[axis]) {
		j.pos[axis] = Center
	}
	j.value = uint16(j.pos[axis])
	j.pending = conversionPolls
}

// Busy implements Converter.
func (j *Joystick) Busy() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.pending == 0 {
		return false
	}
	j.pending--
	return true
}

// Value implements Converter.
func (j *Joystick) Value() uint16 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.value
}
