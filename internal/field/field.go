// Package field implements the animated particle background: a small
// population of drifting, pulsing nodes joined by proximity links, redrawn on
// every display refresh and rescaled when the container resizes.
//
// A Field is driven entirely by its host. It is not safe for concurrent use;
// frame callbacks and resize notifications must arrive on one goroutine.
package field

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

type lifecycle int

const (
	stateNew lifecycle = iota
	stateMounted
	stateTornDown
)

// phiConjugate spreads travelling dots of neighbouring pairs out of phase.
const phiConjugate = 0.6180339887498949

// Observer receives statistics for every rendered frame.
type Observer interface {
	ObserveFrame(s FrameStats)
}

// FrameStats summarises one tick.
type FrameStats struct {
	Tick            int
	Time            time.Time
	Width, Height   float64
	Particles       int
	Links           int
	MeanLinkOpacity float64
	MeanPulse       float64
	OutOfBounds     int
}

// Option configures a Field.
type Option func(*Field)

// WithSeed makes population generation reproducible.
func WithSeed(seed uint64) Option {
	return func(f *Field) {
		f.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand supplies the random source used for population generation.
func WithRand(rng *rand.Rand) Option {
	return func(f *Field) {
		if rng != nil {
			f.rng = rng
		}
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(f *Field) {
		if l != nil {
			f.log = l
		}
	}
}

// WithObserver registers observers notified after each frame is drawn.
func WithObserver(obs ...Observer) Option {
	return func(f *Field) {
		f.observers = append(f.observers, obs...)
	}
}

// Field is one mounted instance of the animated background.
type Field struct {
	params    Params
	rng       *rand.Rand
	log       *slog.Logger
	observers []Observer

	state       lifecycle
	mount       MountPoint
	surface     Surface
	unsubscribe func()
	frame       uint64 // pending frame handle, 0 when none

	particles     []Particle
	width, height float64
	ticks         int
	epoch         time.Time
}

// New builds an unmounted field.
func New(params Params, opts ...Option) (*Field, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	f := &Field{
		params: params,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return f, nil
}

// Params returns the field's configuration.
func (f *Field) Params() Params { return f.params }

// Mount attaches the field to a host. When the surface is not available yet
// the field stays idle and retries on every resize; that case is not an error.
func (f *Field) Mount(mp MountPoint) error {
	switch f.state {
	case stateMounted:
		return ErrAlreadyMounted
	case stateTornDown:
		return ErrTornDown
	}
	if mp.Scheduler == nil || mp.Viewport == nil {
		return ErrInvalidMount
	}
	if mp.Surface == nil {
		mp.Surface = StaticSurface(nil)
	}

	f.mount = mp
	f.state = stateMounted
	f.unsubscribe = mp.Viewport.OnResize(f.resize)
	f.resize()

	if f.surface == nil {
		f.log.Warn("particle field idle until a surface is available")
	}
	return nil
}

// Unmount cancels the pending frame and detaches from the host. It is safe to
// call more than once; after it returns no further drawing happens.
func (f *Field) Unmount() {
	if f.state != stateMounted {
		f.state = stateTornDown
		return
	}
	f.state = stateTornDown
	if f.frame != 0 {
		f.mount.Scheduler.CancelFrame(f.frame)
		f.frame = 0
	}
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
	f.particles = nil
	f.surface = nil
	f.log.Debug("particle field unmounted", "ticks", f.ticks)
}

// Running reports whether a frame is scheduled.
func (f *Field) Running() bool { return f.state == stateMounted && f.frame != 0 }

// Mounted reports whether the field is attached to a host.
func (f *Field) Mounted() bool { return f.state == stateMounted }

// Size is the surface size the population currently lives in.
func (f *Field) Size() (width, height float64) { return f.width, f.height }

// Ticks counts frames drawn since Mount.
func (f *Field) Ticks() int { return f.ticks }

// Particles returns a copy of the current population.
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

func (f *Field) acquire() bool {
	if f.surface != nil {
		return true
	}
	s, err := f.mount.Surface()
	if err != nil || s == nil {
		if err == nil {
			err = ErrNoSurface
		}
		f.log.Debug("surface not ready", "error", err)
		return false
	}
	f.surface = s
	return true
}

func (f *Field) resize() {
	if f.state != stateMounted || !f.acquire() {
		return
	}
	w, h := f.mount.Viewport.Size()
	w, h = math.Max(w, 0), math.Max(h, 0)
	f.surface.SetSize(w, h)

	if len(f.particles) > 0 && f.width > 0 && f.height > 0 {
		Rescale(f.particles, w/f.width, h/f.height)
		f.log.Debug("particle field rescaled",
			"from", fmt.Sprintf("%.0fx%.0f", f.width, f.height),
			"to", fmt.Sprintf("%.0fx%.0f", w, h))
	} else {
		f.particles = Populate(f.rng, f.params, w, h)
		f.log.Debug("particle field populated", "width", w, "height", h, "particles", len(f.particles))
	}
	f.width, f.height = w, h

	if f.frame == 0 {
		f.frame = f.mount.Scheduler.RequestFrame(f.tick)
	}
}

func (f *Field) tick(now time.Time) {
	f.frame = 0
	if f.state != stateMounted || f.surface == nil {
		return
	}
	if f.epoch.IsZero() {
		f.epoch = now
	}
	stats := f.draw(now)
	f.ticks++
	stats.Tick = f.ticks
	for _, o := range f.observers {
		o.ObserveFrame(stats)
	}
	// an observer may have torn the field down
	if f.state == stateMounted {
		f.frame = f.mount.Scheduler.RequestFrame(f.tick)
	}
}

func (f *Field) draw(now time.Time) FrameStats {
	p := f.params
	pal := p.Palette
	s := f.surface
	stats := FrameStats{Time: now, Width: f.width, Height: f.height, Particles: len(f.particles)}

	s.Clear()

	var pulseSum float64
	for i := range f.particles {
		n := &f.particles[i]
		n.advance(f.width, f.height)
		if !n.inBounds(f.width, f.height) {
			stats.OutOfBounds++
		}

		pulse := n.Pulse()
		pulseSum += pulse
		s.FillRadial(n.X, n.Y, n.Radius*p.GlowFillScale, n.Radius*p.GlowScale, []ColorStop{
			{0, pal.Primary.WithAlpha(p.GlowOpacity * pulse)},
			{0.5, pal.Secondary.WithAlpha(p.HaloOpacity * pulse)},
			{1, pal.Primary.WithAlpha(0)},
		})
		s.FillCircle(n.X, n.Y, n.Radius*pulse, pal.Primary.WithAlpha(p.CoreOpacity*pulse))
	}
	if len(f.particles) > 0 {
		stats.MeanPulse = pulseSum / float64(len(f.particles))
	}

	cycle := float64(now.Sub(f.epoch)) / float64(p.DotPeriod)
	var alphaSum float64
	for i := 0; i < len(f.particles); i++ {
		a := &f.particles[i]
		for j := i + 1; j < len(f.particles); j++ {
			b := &f.particles[j]
			d := math.Hypot(a.X-b.X, a.Y-b.Y)
			alpha := p.LinkAlpha(d)
			if alpha <= 0 {
				continue
			}
			stats.Links++
			alphaSum += alpha

			s.StrokeLine(a.X, a.Y, b.X, b.Y, p.LineWidth, []ColorStop{
				{0, pal.Primary.WithAlpha(alpha)},
				{0.5, pal.Secondary.WithAlpha(alpha * p.LinkMidBoost)},
				{1, pal.Primary.WithAlpha(alpha)},
			})

			t := dotProgress(cycle, i, j)
			s.FillCircle(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t, p.DotRadius, pal.Primary.WithAlpha(alpha*2))
		}
	}
	if stats.Links > 0 {
		stats.MeanLinkOpacity = alphaSum / float64(stats.Links)
	}
	return stats
}

// dotProgress is how far along the (i, j) link its travelling dot is, in [0, 1).
func dotProgress(cycle float64, i, j int) float64 {
	_, t := math.Modf(cycle + float64(i+j)*phiConjugate)
	if t < 0 {
		t++
	}
	return t
}
