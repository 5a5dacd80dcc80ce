package score

// Counter is the running score of the current game.
type Counter struct {
	value uint32
}

// Reset zeroes the score.
func (c *Counter) Reset() {
	c.value = 0
}

// Add increases the score, saturating below Sentinel.
func (c *Counter) Add(points uint32) {
	if points >= Sentinel-1-c.value {
		c.value = Sentinel - 1
		return
	}
	c.value += points
}

// Value returns the current score.
func (c *Counter) Value() uint32 {
	return c.value
}
