// Package gui hosts a particle field in a resizable raylib window.
package gui

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/nodefield/internal/field"
	"github.com/san-kum/nodefield/internal/host"
	"github.com/san-kum/nodefield/internal/metrics"
)

var (
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColAccent  = rl.NewColor(0, 184, 255, 255)
)

type Options struct {
	Width, Height int
	FPS           int
	Title         string
	Background    field.Color
	Logger        *slog.Logger
}

type App struct {
	field    *field.Field
	queue    *host.Queue
	viewport *host.Viewport
	surface  *WindowSurface
	history  *metrics.Recorder
	log      *slog.Logger

	paused  bool
	showHUD bool
}

// Run opens the window, mounts f in it and blocks until the window closes.
// history should be one of f's observers.
func Run(f *field.Field, history *metrics.Recorder, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Title == "" {
		opts.Title = "nodefield"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)

	a := &App{
		field:    f,
		queue:    host.NewQueue(),
		viewport: host.NewViewport(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())),
		surface:  NewWindowSurface(opts.Background),
		history:  history,
		log:      opts.Logger,
		showHUD:  true,
	}
	defer a.surface.Unload()

	err := f.Mount(field.MountPoint{
		Surface:   field.StaticSurface(a.surface),
		Scheduler: a.queue,
		Viewport:  a.viewport,
	})
	if err != nil {
		return fmt.Errorf("mount field: %w", err)
	}
	defer f.Unmount()

	a.log.Info("window opened", "width", opts.Width, "height", opts.Height, "fps", opts.FPS)
	a.RunLoop()
	a.log.Info("window closed", "ticks", f.Ticks())
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && a.field.Mounted() {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		a.field.Unmount()
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.showHUD = !a.showHUD
	}
	if rl.IsWindowResized() {
		a.viewport.Set(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	}
}

func (a *App) Draw() {
	if !a.paused && a.surface.loaded {
		rl.BeginTextureMode(a.surface.Target)
		a.queue.Flush(time.Now())
		rl.EndTextureMode()
	}

	rl.BeginDrawing()
	rl.ClearBackground(a.surface.Background)
	a.surface.Blit()
	if a.showHUD {
		a.DrawHUD()
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	var last field.FrameStats
	if frames := a.history.Frames(); len(frames) > 0 {
		last = frames[len(frames)-1]
	}
	h := int32(rl.GetScreenHeight())

	rl.DrawText("nodefield", 30, 30, 24, ColSelect)
	rl.DrawText(fmt.Sprintf("%d particles  %d links  %.3f opacity",
		last.Particles, last.Links, last.MeanLinkOpacity), 30, 60, 14, ColText)

	if a.paused {
		rl.DrawText("PAUSED", 30, 80, 14, ColTextDim)
	}

	a.DrawTelemetry(30, h-110, 300, 50)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, h-40, 14, ColTextDim)
	rl.DrawText("[SPACE] PAUSE  [H] HUD  [Q] QUIT", 140, h-40, 14, ColTextDim)
}

// DrawTelemetry plots the recent link counts as a line strip.
func (a *App) DrawTelemetry(x, y, width, height int32) {
	series := a.history.Series(metrics.Links)
	if len(series) < 2 {
		return
	}
	lo, hi := series[0], series[0]
	for _, v := range series {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	points := make([]rl.Vector2, len(series))
	for i, v := range series {
		px := float32(x) + float32(i)/float32(len(series)-1)*float32(width)
		py := float32(y+height) - float32((v-lo)/(hi-lo))*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText(fmt.Sprintf("links %.0f", series[len(series)-1]), x+width+10, y+height-10, 14, ColText)
}
