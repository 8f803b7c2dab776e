package field

import (
	"errors"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nodefield/internal/host"
)

var epoch = time.Unix(1_700_000_000, 0)

const frameInterval = 16 * time.Millisecond

func mountOn(surface Surface, w, h float64, opts ...Option) (*Field, *host.Queue, *host.Viewport) {
	return mountWith(DefaultParams(), surface, w, h, opts...)
}

func mountWith(params Params, surface Surface, w, h float64, opts ...Option) (*Field, *host.Queue, *host.Viewport) {
	f, err := New(params, append([]Option{WithSeed(7)}, opts...)...)
	Expect(err).NotTo(HaveOccurred())
	q := host.NewQueue()
	vp := host.NewViewport(w, h)
	Expect(f.Mount(MountPoint{Surface: StaticSurface(surface), Scheduler: q, Viewport: vp})).To(Succeed())
	return f, q, vp
}

func expectInBounds(f *Field) {
	w, h := f.Size()
	for i, p := range f.Particles() {
		Expect(p.X).To(And(BeNumerically(">=", 0), BeNumerically("<=", w)), "particle %d x", i)
		Expect(p.Y).To(And(BeNumerically(">=", 0), BeNumerically("<=", h)), "particle %d y", i)
	}
}

var _ = Describe("Params", func() {
	DescribeTable("particle count follows surface area",
		func(w, h float64, want int) {
			Expect(DefaultParams().Count(w, h)).To(Equal(want))
		},
		Entry("400x300", 400.0, 300.0, 12),
		Entry("800x600", 800.0, 600.0, 48),
		Entry("1600x1200 clamps at 80", 1600.0, 1200.0, 80),
		Entry("zero area", 0.0, 600.0, 0),
		Entry("negative width", -10.0, 600.0, 0),
	)

	DescribeTable("particle count stays within the cap for extreme densities",
		func(area, w, h float64, want int) {
			p := DefaultParams()
			p.AreaPerParticle = area
			Expect(p.Validate()).To(Succeed())
			Expect(p.Count(w, h)).To(Equal(want))
		},
		Entry("area too small for an int quotient", 1e-20, 1920.0, 1080.0, 80),
		Entry("smallest positive area", math.SmallestNonzeroFloat64, 800.0, 600.0, 80),
		Entry("huge surface", 1.0, math.MaxFloat64, math.MaxFloat64, 80),
	)

	It("mounts without panicking at an extreme density", func() {
		p := DefaultParams()
		p.AreaPerParticle = 1e-20
		f, _, _ := mountWith(p, &spySurface{}, 1920, 1080)
		Expect(f.Particles()).To(HaveLen(DefaultMaxParticles))
		f.Unmount()
	})

	It("fades links linearly with distance", func() {
		p := DefaultParams()
		Expect(p.LinkAlpha(0)).To(BeNumerically("~", 0.3, 1e-12))
		Expect(p.LinkAlpha(150)).To(BeNumerically("~", 0.15, 1e-12))
		Expect(p.LinkAlpha(300)).To(BeZero())
		Expect(p.LinkAlpha(450)).To(BeZero())
	})

	It("rejects unusable values", func() {
		p := DefaultParams()
		p.LinkDistance = 0
		Expect(p.Validate()).To(MatchError(ErrInvalidParams))

		capped := DefaultParams()
		capped.MaxParticles = DefaultMaxParticles + 1
		Expect(capped.Validate()).To(MatchError(ErrInvalidParams))

		_, err := New(p)
		Expect(errors.Is(err, ErrInvalidParams)).To(BeTrue())
	})

	It("samples gradients between stops", func() {
		stops := []ColorStop{
			{0, RGB(0, 0, 0).WithAlpha(0)},
			{1, RGB(200, 100, 0).WithAlpha(1)},
		}
		mid := ColorAt(stops, 0.5)
		Expect(mid.R).To(Equal(uint8(100)))
		Expect(mid.G).To(Equal(uint8(50)))
		Expect(mid.A).To(BeNumerically("~", 0.5, 1e-12))
		Expect(ColorAt(stops, -1)).To(Equal(stops[0].Color))
		Expect(ColorAt(stops, 2)).To(Equal(stops[1].Color))
	})
})

var _ = Describe("Particle", func() {
	It("reflects off every edge without leaving the surface", func() {
		p := Particle{X: 0.1, Y: 99.9, VX: -0.25, VY: 0.25}
		p.advance(100, 100)
		Expect(p.X).To(BeNumerically("~", 0.15, 1e-12))
		Expect(p.VX).To(Equal(0.25))
		Expect(p.Y).To(BeNumerically("~", 99.85, 1e-12))
		Expect(p.VY).To(Equal(-0.25))
	})

	It("pins particles on a degenerate axis", func() {
		p := Particle{X: 0, Y: 5, VX: 0.25, VY: 0}
		p.advance(0, 10)
		Expect(p.X).To(BeZero())
	})

	It("rescales positions only", func() {
		ps := []Particle{{X: 100, Y: 50, VX: 0.1, VY: -0.2, Radius: 3, Phase: 1.5, PulseSpeed: 0.02}}
		Rescale(ps, 800.0/400.0, 300.0/300.0)
		Expect(ps[0]).To(Equal(Particle{X: 200, Y: 50, VX: 0.1, VY: -0.2, Radius: 3, Phase: 1.5, PulseSpeed: 0.02}))
	})
})

var _ = Describe("Field", func() {
	var surface *spySurface

	BeforeEach(func() {
		surface = &spySurface{}
	})

	Describe("Mount", func() {
		It("sizes the surface, populates and schedules the first frame", func() {
			f, q, vp := mountOn(surface, 800, 600)
			Expect(surface.width).To(Equal(800.0))
			Expect(surface.height).To(Equal(600.0))
			Expect(f.Particles()).To(HaveLen(48))
			Expect(q.Pending()).To(Equal(1))
			Expect(vp.Listeners()).To(Equal(1))
			Expect(f.Running()).To(BeTrue())
		})

		It("refuses to mount twice or after teardown", func() {
			f, q, vp := mountOn(surface, 400, 300)
			mp := MountPoint{Surface: StaticSurface(surface), Scheduler: q, Viewport: vp}
			Expect(f.Mount(mp)).To(MatchError(ErrAlreadyMounted))

			f.Unmount()
			Expect(f.Mount(mp)).To(MatchError(ErrTornDown))
		})

		It("needs a scheduler and a viewport", func() {
			f, err := New(DefaultParams())
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Mount(MountPoint{Surface: StaticSurface(surface)})).To(MatchError(ErrInvalidMount))
		})

		It("defers initialization until a surface appears", func() {
			var available Surface
			source := func() (Surface, error) {
				if available == nil {
					return nil, ErrNoSurface
				}
				return available, nil
			}
			f, err := New(DefaultParams(), WithSeed(1))
			Expect(err).NotTo(HaveOccurred())
			q := host.NewQueue()
			vp := host.NewViewport(400, 300)

			Expect(f.Mount(MountPoint{Surface: source, Scheduler: q, Viewport: vp})).To(Succeed())
			Expect(f.Running()).To(BeFalse())
			Expect(f.Particles()).To(BeEmpty())
			Expect(q.Pending()).To(BeZero())

			available = surface
			vp.Set(800, 600)
			Expect(f.Running()).To(BeTrue())
			Expect(f.Particles()).To(HaveLen(48))
		})

		It("runs harmlessly on a zero-sized container and populates on first real size", func() {
			f, q, vp := mountOn(surface, 0, 0)
			Expect(f.Particles()).To(BeEmpty())

			host.Drive(q, 3, epoch, frameInterval)
			Expect(surface.clears).To(Equal(3))
			Expect(surface.radials + len(surface.circles) + len(surface.lines)).To(BeZero())

			vp.Set(800, 600)
			Expect(f.Particles()).To(HaveLen(48))
			Expect(q.Pending()).To(Equal(1))
		})
	})

	Describe("ticking", func() {
		It("keeps every particle inside the surface", func() {
			crowded := DefaultParams()
			crowded.AreaPerParticle = 100
			f, q, _ := mountWith(crowded, nullSurface{}, 120, 90)
			Expect(f.Particles()).To(HaveLen(80))
			for range 2000 {
				q.Flush(epoch)
				expectInBounds(f)
			}
		})

		It("advances phases monotonically over a long session", func() {
			f, q, _ := mountOn(nullSurface{}, 400, 300)
			prev := f.Particles()
			for i := range 10_000 {
				q.Flush(epoch.Add(time.Duration(i) * frameInterval))
				cur := f.Particles()
				for k := range cur {
					Expect(cur[k].Phase).To(BeNumerically(">", prev[k].Phase))
				}
				prev = cur
			}
			for _, p := range prev {
				Expect(math.IsInf(p.Phase, 0) || math.IsNaN(p.Phase)).To(BeFalse())
				Expect(p.Pulse()).To(And(BeNumerically(">=", 0), BeNumerically("<=", 1)))
			}
			Expect(f.Ticks()).To(Equal(10_000))
		})

		It("draws glow and core for every particle", func() {
			f, q, _ := mountOn(surface, 400, 300)
			q.Flush(epoch)
			Expect(surface.clears).To(Equal(1))
			Expect(surface.radials).To(Equal(len(f.Particles())))
		})

		It("links coincident particles at full opacity", func() {
			f, q, _ := mountOn(surface, 400, 300)
			f.particles = []Particle{{X: 100, Y: 100, Radius: 2}, {X: 100, Y: 100, Radius: 2}}
			q.Flush(epoch)

			Expect(surface.lines).To(HaveLen(1))
			stops := surface.lines[0].Stops
			Expect(stops[0].Color.A).To(BeNumerically("~", 0.3, 1e-12))
			Expect(stops[1].Color.A).To(BeNumerically("~", 0.36, 1e-12))
		})

		It("never links particles at or beyond the threshold", func() {
			f, q, _ := mountOn(surface, 400, 300)
			f.particles = []Particle{{X: 50, Y: 100}, {X: 350, Y: 100}}
			q.Flush(epoch)
			Expect(surface.lines).To(BeEmpty())

			surface.reset()
			f.particles = []Particle{{X: 50, Y: 100}, {X: 349, Y: 100}}
			q.Flush(epoch)
			Expect(surface.lines).To(HaveLen(1))
		})

		It("draws links from positions updated this tick", func() {
			f, q, _ := mountOn(surface, 400, 300)
			f.particles = []Particle{{X: 100, Y: 100, VX: 0.25}, {X: 200, Y: 100, VX: -0.25}}
			q.Flush(epoch)
			Expect(surface.lines).To(HaveLen(1))
			Expect(surface.lines[0].X0).To(Equal(100.25))
			Expect(surface.lines[0].X1).To(Equal(199.75))
		})

		It("puts travelling dots of different pairs out of phase", func() {
			Expect(dotProgress(0, 0, 1)).NotTo(BeNumerically("~", dotProgress(0, 0, 2), 1e-9))
			Expect(dotProgress(0.25, 1, 2)).To(And(BeNumerically(">=", 0), BeNumerically("<", 1)))
			Expect(dotProgress(-0.25, 0, 0)).To(BeNumerically("~", 0.75, 1e-12))
		})

		It("reports frame statistics to observers", func() {
			sink := &statsSink{}
			f, q, _ := mountOn(surface, 400, 300, WithObserver(sink))
			f.particles = []Particle{{X: 100, Y: 100}, {X: 100, Y: 100}, {X: 390, Y: 290}}
			q.Flush(epoch)

			Expect(sink.frames).To(HaveLen(1))
			fs := sink.frames[0]
			Expect(fs.Tick).To(Equal(1))
			Expect(fs.Particles).To(Equal(3))
			Expect(fs.Links).To(Equal(1))
			Expect(fs.MeanLinkOpacity).To(BeNumerically("~", 0.3, 1e-12))
			Expect(fs.OutOfBounds).To(BeZero())
		})
	})

	Describe("resize", func() {
		It("rescales positions instead of regenerating", func() {
			f, _, vp := mountOn(surface, 400, 300)
			f.particles[0] = Particle{X: 100, Y: 50, VX: 0.1, VY: 0.2, Radius: 4, Phase: 2, PulseSpeed: 0.015}
			before := f.Particles()

			vp.Set(800, 300)
			after := f.Particles()
			Expect(after).To(HaveLen(len(before)))
			Expect(after[0].X).To(Equal(200.0))
			Expect(after[0].Y).To(Equal(50.0))
			for i := range after {
				Expect(after[i].X).To(Equal(before[i].X * 2))
				Expect(after[i].Y).To(Equal(before[i].Y))
				Expect(after[i].VX).To(Equal(before[i].VX))
				Expect(after[i].VY).To(Equal(before[i].VY))
				Expect(after[i].Radius).To(Equal(before[i].Radius))
				Expect(after[i].Phase).To(Equal(before[i].Phase))
			}
			Expect(surface.width).To(Equal(800.0))
		})

		It("keeps the population size when the area grows", func() {
			f, _, vp := mountOn(surface, 400, 300)
			vp.Set(1600, 1200)
			Expect(f.Particles()).To(HaveLen(12))
		})

		It("does not schedule a second frame loop", func() {
			_, q, vp := mountOn(surface, 400, 300)
			vp.Set(500, 300)
			vp.Set(600, 300)
			Expect(q.Pending()).To(Equal(1))
		})
	})

	Describe("Unmount", func() {
		It("stops drawing and scheduling", func() {
			f, q, vp := mountOn(surface, 400, 300)
			q.Flush(epoch)
			requests := q.Requests()
			Expect(surface.draws()).To(BeNumerically(">", 0))

			f.Unmount()
			surface.reset()
			Expect(q.Cancels()).To(Equal(1))
			Expect(q.Pending()).To(BeZero())
			Expect(vp.Listeners()).To(BeZero())

			Expect(q.Flush(epoch.Add(frameInterval))).To(BeZero())
			vp.Set(800, 600)
			Expect(surface.draws()).To(BeZero())
			Expect(q.Requests()).To(Equal(requests))
			Expect(f.Running()).To(BeFalse())
		})

		It("is idempotent", func() {
			f, q, _ := mountOn(surface, 400, 300)
			f.Unmount()
			f.Unmount()
			Expect(q.Cancels()).To(Equal(1))
			Expect(f.Mounted()).To(BeFalse())
		})

		It("stops a frame already in flight from rescheduling", func() {
			sink := &statsSink{}
			var f *Field
			sink.onTick = func() { f.Unmount() }
			var q *host.Queue
			f, q, _ = mountOn(surface, 400, 300, WithObserver(sink))

			q.Flush(epoch)
			Expect(q.Pending()).To(BeZero())
			Expect(q.Requests()).To(Equal(1))
		})

		It("is safe before Mount", func() {
			f, err := New(DefaultParams())
			Expect(err).NotTo(HaveOccurred())
			f.Unmount()
			Expect(f.Mounted()).To(BeFalse())
		})
	})

	It("animates an 800x600 landing background end to end", func() {
		f, q, _ := mountOn(surface, 800, 600)
		Expect(f.Particles()).To(HaveLen(48))
		start := f.Particles()

		Expect(host.Drive(q, 100, epoch, frameInterval)).To(Equal(100))
		Expect(f.Ticks()).To(Equal(100))
		expectInBounds(f)

		seen := map[float64]bool{}
		for i, p := range f.Particles() {
			Expect(seen[p.Phase]).To(BeFalse(), "duplicate phase")
			seen[p.Phase] = true
			Expect(p.Phase).To(BeNumerically("~", start[i].Phase+100*start[i].PulseSpeed, 1e-9))
			Expect(p.Phase).To(BeNumerically("<", 2*math.Pi+100*(DefaultPulseSpeedMin+DefaultPulseSpeedSpan)))
		}
	})
})
