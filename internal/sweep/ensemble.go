package sweep

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/nodefield/internal/field"
	"github.com/san-kum/nodefield/internal/host"
	"github.com/san-kum/nodefield/internal/metrics"
)

// Run is one headless field run at one grid point.
type Run struct {
	Index   int // into the points passed to Ensemble.Run
	Seed    uint64
	Metrics map[string]float64
}

// Ensemble runs every point with Seeds consecutive seeds. Each run owns its
// field, queue and viewport, so runs share nothing and may go in parallel.
type Ensemble struct {
	Base      field.Params
	Width     float64
	Height    float64
	Ticks     int
	Interval  time.Duration
	Seeds     int
	SeedStart uint64
	Workers   int
}

func (e *Ensemble) Run(ctx context.Context, points []Point) ([]Run, error) {
	seeds := max(e.Seeds, 1)
	runs := make([]Run, len(points)*seeds)

	g, ctx := errgroup.WithContext(ctx)
	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	// every point resolves before the first run starts
	all := make([]field.Params, len(points))
	for i, pt := range points {
		params, err := Apply(e.Base, pt)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		all[i] = params
	}

	for i, params := range all {
		for s := 0; s < seeds; s++ {
			slot := i*seeds + s
			seed := e.SeedStart + uint64(s)
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				m, err := e.runOne(params, seed)
				if err != nil {
					return err
				}
				runs[slot] = Run{Index: i, Seed: seed, Metrics: m}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

func (e *Ensemble) runOne(params field.Params, seed uint64) (map[string]float64, error) {
	ms := metrics.Defaults()
	f, err := field.New(params, field.WithSeed(seed), field.WithObserver(metrics.Observers(ms)...))
	if err != nil {
		return nil, err
	}
	q := host.NewQueue()
	err = f.Mount(field.MountPoint{
		Surface:   field.StaticSurface(blank{}),
		Scheduler: q,
		Viewport:  host.NewViewport(e.Width, e.Height),
	})
	if err != nil {
		return nil, err
	}
	defer f.Unmount()

	interval := e.Interval
	if interval <= 0 {
		interval = time.Second / 60
	}
	host.Drive(q, max(e.Ticks, 1), time.Unix(0, 0), interval)
	return metrics.Values(ms), nil
}

// Score is a metric averaged over every seed of one point.
type Score struct {
	Index int
	Mean  float64
	Runs  int
}

// Aggregate averages metric per point, in point order. Points with no runs
// are left out.
func Aggregate(runs []Run, metric string) []Score {
	byIndex := map[int]*Score{}
	maxIndex := -1
	for _, r := range runs {
		s, ok := byIndex[r.Index]
		if !ok {
			s = &Score{Index: r.Index}
			byIndex[r.Index] = s
		}
		s.Mean += r.Metrics[metric]
		s.Runs++
		maxIndex = max(maxIndex, r.Index)
	}

	out := make([]Score, 0, len(byIndex))
	for i := 0; i <= maxIndex; i++ {
		if s, ok := byIndex[i]; ok {
			s.Mean /= float64(s.Runs)
			out = append(out, *s)
		}
	}
	return out
}

// Best returns the score closest to target.
func Best(scores []Score, target float64) (Score, bool) {
	if len(scores) == 0 {
		return Score{}, false
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if math.Abs(s.Mean-target) < math.Abs(best.Mean-target) {
			best = s
		}
	}
	return best, true
}

type blank struct{}

func (blank) SetSize(float64, float64)                                                  {}
func (blank) Clear()                                                                    {}
func (blank) FillRadial(float64, float64, float64, float64, []field.ColorStop)          {}
func (blank) FillCircle(float64, float64, float64, field.Color)                         {}
func (blank) StrokeLine(float64, float64, float64, float64, float64, []field.ColorStop) {}
