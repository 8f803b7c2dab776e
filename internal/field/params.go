package field

import (
	"fmt"
	"math"
	"time"
)

const (
	// DefaultMaxParticles is also the hard ceiling Validate enforces: every
	// frame compares all pairs.
	DefaultMaxParticles    = 80
	DefaultAreaPerParticle = 10000.0
	DefaultMaxSpeed        = 0.25
	DefaultRadiusMin       = 2.0
	DefaultRadiusSpan      = 3.0
	DefaultPulseSpeedMin   = 0.01
	DefaultPulseSpeedSpan  = 0.02
	DefaultLinkDistance    = 300.0
	DefaultLinkOpacity     = 0.3
	DefaultDotPeriod       = 2 * time.Second
)

// Color is a straight (non-premultiplied) RGB color with a fractional alpha.
type Color struct {
	R, G, B uint8
	A       float64
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// WithAlpha returns c with alpha a clamped to [0, 1].
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// CSS formats c the way an HTML canvas parses it.
func (c Color) CSS() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", c.R, c.G, c.B, c.A)
}

// Lerp blends c towards o by t in [0, 1].
func (c Color) Lerp(o Color, t float64) Color {
	t = clamp01(t)
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return Color{
		R: mix(c.R, o.R),
		G: mix(c.G, o.G),
		B: mix(c.B, o.B),
		A: c.A + (o.A-c.A)*t,
	}
}

// Palette is the fixed two-color tint shared by glows, cores and links.
type Palette struct {
	Primary   Color
	Secondary Color
}

// DefaultPalette is the site's green/blue accent pair.
func DefaultPalette() Palette {
	return Palette{
		Primary:   RGB(0, 255, 157),
		Secondary: RGB(0, 184, 255),
	}
}

// Params holds every tunable of a field. A Field copies its Params on
// construction and never mutates them.
type Params struct {
	MaxParticles    int
	AreaPerParticle float64

	MaxSpeed       float64
	RadiusMin      float64
	RadiusSpan     float64
	PulseSpeedMin  float64
	PulseSpeedSpan float64

	GlowScale     float64 // gradient radius relative to base radius
	GlowFillScale float64 // filled disc radius relative to base radius
	GlowOpacity   float64
	HaloOpacity   float64
	CoreOpacity   float64

	LinkDistance float64
	LinkOpacity  float64
	LinkMidBoost float64
	LineWidth    float64

	DotRadius float64
	DotPeriod time.Duration

	Palette Palette
}

// DefaultParams returns the landing page look.
func DefaultParams() Params {
	return Params{
		MaxParticles:    DefaultMaxParticles,
		AreaPerParticle: DefaultAreaPerParticle,
		MaxSpeed:        DefaultMaxSpeed,
		RadiusMin:       DefaultRadiusMin,
		RadiusSpan:      DefaultRadiusSpan,
		PulseSpeedMin:   DefaultPulseSpeedMin,
		PulseSpeedSpan:  DefaultPulseSpeedSpan,
		GlowScale:       3,
		GlowFillScale:   2,
		GlowOpacity:     0.8,
		HaloOpacity:     0.4,
		CoreOpacity:     0.9,
		LinkDistance:    DefaultLinkDistance,
		LinkOpacity:     DefaultLinkOpacity,
		LinkMidBoost:    1.2,
		LineWidth:       1,
		DotRadius:       2,
		DotPeriod:       DefaultDotPeriod,
		Palette:         DefaultPalette(),
	}
}

// Validate reports the first parameter that would make the field misbehave.
func (p Params) Validate() error {
	switch {
	case p.MaxParticles < 0 || p.MaxParticles > DefaultMaxParticles:
		return fmt.Errorf("%w: max particles %d (limit %d)", ErrInvalidParams, p.MaxParticles, DefaultMaxParticles)
	case p.AreaPerParticle <= 0:
		return fmt.Errorf("%w: area per particle %g", ErrInvalidParams, p.AreaPerParticle)
	case p.MaxSpeed < 0:
		return fmt.Errorf("%w: max speed %g", ErrInvalidParams, p.MaxSpeed)
	case p.RadiusMin < 0 || p.RadiusSpan < 0:
		return fmt.Errorf("%w: radius range %g+%g", ErrInvalidParams, p.RadiusMin, p.RadiusSpan)
	case p.PulseSpeedMin < 0 || p.PulseSpeedSpan < 0:
		return fmt.Errorf("%w: pulse speed range %g+%g", ErrInvalidParams, p.PulseSpeedMin, p.PulseSpeedSpan)
	case p.LinkDistance <= 0:
		return fmt.Errorf("%w: link distance %g", ErrInvalidParams, p.LinkDistance)
	case p.DotPeriod <= 0:
		return fmt.Errorf("%w: dot period %v", ErrInvalidParams, p.DotPeriod)
	}
	return nil
}

// Count is the population size for a surface of the given dimensions.
func (p Params) Count(width, height float64) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	// compare in float first; the quotient may not fit an int, or be NaN
	n := math.Floor(width * height / p.AreaPerParticle)
	if !(n < float64(p.MaxParticles)) {
		return p.MaxParticles
	}
	return int(n)
}

// LinkAlpha is the opacity of a link between two particles d apart. It falls
// linearly from LinkOpacity at d == 0 to zero at LinkDistance.
func (p Params) LinkAlpha(d float64) float64 {
	if d < 0 || d >= p.LinkDistance {
		return 0
	}
	return (1 - d/p.LinkDistance) * p.LinkOpacity
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
