package field

import (
	"math"
	"math/rand/v2"
)

// Particle is one animated node. Position is kept inside the surface; the
// velocity only ever changes sign.
type Particle struct {
	X, Y       float64
	VX, VY     float64
	Radius     float64
	Phase      float64
	PulseSpeed float64
}

// Pulse is the current visual scale in [0, 1].
func (p *Particle) Pulse() float64 {
	return 0.5 + 0.5*math.Sin(p.Phase)
}

// advance moves the particle one tick inside a width×height surface.
func (p *Particle) advance(width, height float64) {
	p.X, p.VX = bounce(p.X+p.VX, p.VX, width)
	p.Y, p.VY = bounce(p.Y+p.VY, p.VY, height)
	p.Phase += p.PulseSpeed
}

func (p *Particle) inBounds(width, height float64) bool {
	return p.X >= 0 && p.X <= width && p.Y >= 0 && p.Y <= height
}

// bounce reflects pos back into [0, limit], flipping v when it crossed an edge.
func bounce(pos, v, limit float64) (float64, float64) {
	if limit <= 0 {
		return 0, v
	}
	switch {
	case pos < 0:
		pos, v = -pos, -v
	case pos > limit:
		pos, v = 2*limit-pos, -v
	default:
		return pos, v
	}
	// overshoot larger than the surface itself; only on degenerate sizes
	return math.Min(math.Max(pos, 0), limit), v
}

// Populate creates the population for a surface of the given size.
func Populate(rng *rand.Rand, params Params, width, height float64) []Particle {
	n := params.Count(width, height)
	particles := make([]Particle, n)
	for i := range particles {
		particles[i] = Particle{
			X:          rng.Float64() * width,
			Y:          rng.Float64() * height,
			VX:         (rng.Float64()*2 - 1) * params.MaxSpeed,
			VY:         (rng.Float64()*2 - 1) * params.MaxSpeed,
			Radius:     params.RadiusMin + rng.Float64()*params.RadiusSpan,
			Phase:      rng.Float64() * 2 * math.Pi,
			PulseSpeed: params.PulseSpeedMin + rng.Float64()*params.PulseSpeedSpan,
		}
	}
	return particles
}

// Rescale stretches every position by (sx, sy). Nothing else changes.
func Rescale(particles []Particle, sx, sy float64) {
	for i := range particles {
		particles[i].X *= sx
		particles[i].Y *= sy
	}
}
