package metrics

import "github.com/san-kum/nodefield/internal/field"

// Containment is the fraction of particle-frames found outside the surface.
// Anything above zero means the bounce invariant broke.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "escaped"}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) ObserveFrame(s field.FrameStats) {
	c.violations += s.OutOfBounds
	c.samples += s.Particles
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.violations) / float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
