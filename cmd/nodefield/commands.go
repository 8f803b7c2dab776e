package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/nodefield/internal/automation"
	"github.com/san-kum/nodefield/internal/config"
	"github.com/san-kum/nodefield/internal/export"
	"github.com/san-kum/nodefield/internal/field"
	"github.com/san-kum/nodefield/internal/gui"
	"github.com/san-kum/nodefield/internal/host"
	"github.com/san-kum/nodefield/internal/metrics"
	"github.com/san-kum/nodefield/internal/storage"
	"github.com/san-kum/nodefield/internal/sweep"
	"github.com/san-kum/nodefield/internal/viz"
)

const historySize = 240

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rec := metrics.NewRecorder(historySize)
	f, err := newField(cfg, rec)
	if err != nil {
		return err
	}
	return viz.Run(f, rec, viz.Options{
		FPS:    cfg.View.FPS,
		CellPx: cfg.View.CellPx,
		Theme:  cfg.View.Theme,
	})
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	bg, err := config.ParseColor(background)
	if err != nil {
		return err
	}
	rec := metrics.NewRecorder(historySize)
	f, err := newField(cfg, rec)
	if err != nil {
		return err
	}
	return gui.Run(f, rec, gui.Options{
		Width:      cfg.Snapshot.Width,
		Height:     cfg.Snapshot.Height,
		FPS:        cfg.View.FPS,
		Background: bg,
		Logger:     slog.Default(),
	})
}

// headless mounts f on surface at the configured snapshot size.
func headless(f *field.Field, surface field.Surface, cfg *config.Config) (*host.Queue, error) {
	q := host.NewQueue()
	err := f.Mount(field.MountPoint{
		Surface:   field.StaticSurface(surface),
		Scheduler: q,
		Viewport:  host.NewViewport(float64(cfg.Snapshot.Width), float64(cfg.Snapshot.Height)),
	})
	return q, err
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	factory, err := export.NewRegistry().Get(cfg.Snapshot.Format)
	if err != nil {
		return err
	}
	f, err := newField(cfg)
	if err != nil {
		return err
	}
	target := factory(cfg.Snapshot.Width, cfg.Snapshot.Height, background)
	q, err := headless(f, target, cfg)
	if err != nil {
		return err
	}
	defer f.Unmount()

	host.Drive(q, max(cfg.Snapshot.Ticks, 1), time.Now(), cfg.FramePeriod())

	path := outPath
	if path == "" {
		path = "nodefield." + cfg.Snapshot.Format
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := target.Write(out); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Printf("wrote %s (%dx%d, %d ticks, %d particles)\n",
		path, cfg.Snapshot.Width, cfg.Snapshot.Height, f.Ticks(), len(f.Particles()))
	return nil
}

// tickLimit unmounts the field once it has drawn n frames.
type tickLimit struct {
	f    *field.Field
	n    int
	done func()
}

func (l *tickLimit) ObserveFrame(s field.FrameStats) {
	if s.Tick >= l.n {
		l.f.Unmount()
		if l.done != nil {
			l.done()
		}
	}
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ms := metrics.Defaults()
	rec := metrics.NewRecorder(0)
	limit := &tickLimit{n: max(cfg.Snapshot.Ticks, 1)}
	f, err := newField(cfg, append(metrics.Observers(ms), rec, limit)...)
	if err != nil {
		return err
	}
	limit.f = f

	q, err := headless(f, export.NewRaster(cfg.Snapshot.Width, cfg.Snapshot.Height, ""), cfg)
	if err != nil {
		return err
	}
	defer f.Unmount()

	fmt.Printf("recording %d frames at %dx%d...\n", limit.n, cfg.Snapshot.Width, cfg.Snapshot.Height)
	start := time.Now()

	if realtime {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		limit.done = cancel
		if err := host.Run(ctx, q, cfg.View.FPS, nil); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	} else {
		host.Drive(q, limit.n, start, cfg.FramePeriod())
	}
	elapsed := time.Since(start)

	frames := rec.Frames()
	meta := storage.SessionMetadata{
		Preset:  cfg.Preset,
		Seed:    cfg.Seed,
		Width:   float64(cfg.Snapshot.Width),
		Height:  float64(cfg.Snapshot.Height),
		Ticks:   len(frames),
		Metrics: metrics.Values(ms),
	}
	if len(frames) > 0 {
		meta.Particles = frames[0].Particles
	}
	id, err := st.Save(meta, frames)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("session id: %s\n", id)
	fmt.Printf("frames: %d\n", len(frames))
	fmt.Println("\nmetrics:")
	for _, m := range ms {
		fmt.Printf("  %s: %.6f\n", m.Name(), m.Value())
	}
	return nil
}

func listSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sessions, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no sessions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSIZE\tTICKS\tPARTICLES\tLINKS/FRAME")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fx%.0f\t%d\t%d\t%.1f\n",
			s.ID,
			s.Preset,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.Width, s.Height,
			s.Ticks,
			s.Particles,
			s.Metrics["links_per_frame"],
		)
	}
	return w.Flush()
}

func plotSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	links := make([]float64, len(rows))
	opacity := make([]float64, len(rows))
	pulse := make([]float64, len(rows))
	for i, r := range rows {
		links[i] = float64(r.Links)
		opacity[i] = r.MeanLinkOpacity
		pulse[i] = r.MeanPulse
	}

	fmt.Printf("session: %s\n", meta.ID)
	fmt.Printf("size: %.0fx%.0f  particles: %d\n", meta.Width, meta.Height, meta.Particles)
	fmt.Printf("frames: %d\n\n", len(rows))

	series := []struct {
		caption string
		data    []float64
	}{
		{"links per frame", links},
		{"mean link opacity", opacity},
		{"mean pulse", pulse},
	}
	for _, s := range series {
		fmt.Println(asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		))
		sum := metrics.Summarize(s.data)
		fmt.Printf("  mean %.3f  sd %.3f  min %.3f  max %.3f  p95 %.3f\n\n",
			sum.Mean, sum.StdDev, sum.Min, sum.Max, sum.P95)
	}
	return nil
}

// frameTimer records wall time between consecutive frames.
type frameTimer struct {
	last time.Time
	ns   []float64
}

func (t *frameTimer) ObserveFrame(field.FrameStats) {
	now := time.Now()
	if !t.last.IsZero() {
		t.ns = append(t.ns, float64(now.Sub(t.last).Nanoseconds()))
	}
	t.last = now
}

func benchField(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	n := max(cfg.Snapshot.Ticks, 2)
	timer := &frameTimer{}
	density := metrics.NewLinkDensity()
	f, err := newField(cfg, timer, density)
	if err != nil {
		return err
	}
	q, err := headless(f, discard{}, cfg)
	if err != nil {
		return err
	}
	defer f.Unmount()

	fmt.Printf("benchmarking %d frames at %dx%d...\n", n, cfg.Snapshot.Width, cfg.Snapshot.Height)
	start := time.Now()
	ran := host.Drive(q, n, start, cfg.FramePeriod())
	elapsed := time.Since(start)

	s := metrics.Summarize(timer.ns)
	fmt.Printf("particles: %d\n", len(f.Particles()))
	fmt.Printf("frames: %d in %v\n", ran, elapsed)
	fmt.Printf("links/frame: %.1f\n", density.Value())
	fmt.Printf("frame time: mean %v  sd %v  p95 %v  max %v\n",
		time.Duration(s.Mean), time.Duration(s.StdDev), time.Duration(s.P95), time.Duration(s.Max))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	base, err := cfg.Params()
	if err != nil {
		return err
	}

	points := sweep.NewGrid(
		sweep.Axis{Name: sweep.LinkDistance, Values: distances},
		sweep.Axis{Name: sweep.AreaPerParticle, Values: areas},
	).Points()
	e := &sweep.Ensemble{
		Base:      base,
		Width:     float64(cfg.Snapshot.Width),
		Height:    float64(cfg.Snapshot.Height),
		Ticks:     cfg.Snapshot.Ticks,
		Interval:  cfg.FramePeriod(),
		Seeds:     seeds,
		SeedStart: cfg.Seed,
		Workers:   workers,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("sweeping %d points x %d seeds...\n", len(points), max(seeds, 1))
	start := time.Now()
	runs, err := e.Run(ctx, points)
	if err != nil {
		return err
	}
	scores := sweep.Aggregate(runs, "links_per_frame")
	fmt.Printf("completed in %v\n\n", time.Since(start))

	sorted := append([]sweep.Score(nil), scores...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Mean < sorted[j].Mean })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DISTANCE\tAREA\tLINKS/FRAME")
	for _, s := range sorted {
		pt := points[s.Index]
		fmt.Fprintf(w, "%.0f\t%.0f\t%.1f\n", pt[sweep.LinkDistance], pt[sweep.AreaPerParticle], s.Mean)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := sweep.Best(scores, targetLinks); ok {
		pt := points[best.Index]
		fmt.Printf("\nclosest to %.0f links: distance %.0f, area %.0f (%.1f)\n",
			targetLinks, pt[sweep.LinkDistance], pt[sweep.AreaPerParticle], best.Mean)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if preset == "" && sc.Preset != "" {
		preset = sc.Preset
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if sc.Seed != 0 && !cmd.Flags().Changed("seed") {
		cfg.Seed = sc.Seed
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ms := metrics.Defaults()
	rec := metrics.NewRecorder(0)
	f, err := newField(cfg, append(metrics.Observers(ms), rec)...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &automation.Runner{Interval: cfg.FramePeriod(), Logger: slog.Default()}
	results, err := runner.Run(ctx, f, discard{}, sc)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSIZE\tFRAMES\tPARTICLES\tMOUNTED")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.0fx%.0f\t%d\t%d\t%t\n", r.Step, r.Width, r.Height, r.Frames, r.Particles, r.Mounted)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	frames := rec.Frames()
	first := sc.Steps[0]
	meta := storage.SessionMetadata{
		Preset:  sc.Name,
		Seed:    cfg.Seed,
		Width:   first.Width,
		Height:  first.Height,
		Ticks:   len(frames),
		Metrics: metrics.Values(ms),
	}
	if len(frames) > 0 {
		meta.Particles = frames[0].Particles
	}
	id, err := st.Save(meta, frames)
	if err != nil {
		return err
	}
	fmt.Printf("\nsession id: %s\n", id)
	return nil
}

// discard is a surface that draws nothing.
type discard struct{}

func (discard) SetSize(float64, float64)                                                  {}
func (discard) Clear()                                                                    {}
func (discard) FillRadial(float64, float64, float64, float64, []field.ColorStop)          {}
func (discard) FillCircle(float64, float64, float64, field.Color)                         {}
func (discard) StrokeLine(float64, float64, float64, float64, float64, []field.ColorStop) {}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := "nodefield.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
