// Package automation replays scripted viewport sequences against a field:
// each step resizes the viewport and then runs a number of frames.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nodefield/internal/field"
	"github.com/san-kum/nodefield/internal/host"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario defines a scripted session.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Preset      string `yaml:"preset"`
	Seed        uint64 `yaml:"seed"`
	Steps       []Step `yaml:"steps"`
}

// Step resizes the viewport to Width×Height, then runs Ticks frames. With
// Unmount set the field is torn down after those frames and every later
// step only checks that nothing else is drawn.
type Step struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Ticks   int     `yaml:"ticks"`
	Unmount bool    `yaml:"unmount"`
}

// StepResult is the field's state at the end of one step.
type StepResult struct {
	Step      int
	Width     float64
	Height    float64
	Frames    int
	Particles int
	Mounted   bool
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyScenario, path)
	}
	return &scenario, nil
}

// Runner plays scenarios with synthetic frame times spaced by Interval.
type Runner struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Run mounts f on surface at the first step's size and plays every step.
// f must not have been mounted before.
func (r *Runner) Run(ctx context.Context, f *field.Field, surface field.Surface, sc *Scenario) ([]StepResult, error) {
	if len(sc.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}
	interval := r.Interval
	if interval <= 0 {
		interval = time.Second / 60
	}

	q := host.NewQueue()
	vp := host.NewViewport(sc.Steps[0].Width, sc.Steps[0].Height)
	err := f.Mount(field.MountPoint{
		Surface:   field.StaticSurface(surface),
		Scheduler: q,
		Viewport:  vp,
	})
	if err != nil {
		return nil, err
	}
	defer f.Unmount()

	now := time.Unix(0, 0)
	results := make([]StepResult, 0, len(sc.Steps))
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		vp.Set(step.Width, step.Height)
		frames := host.Drive(q, step.Ticks, now, interval)
		now = now.Add(time.Duration(step.Ticks) * interval)
		if step.Unmount {
			f.Unmount()
		}

		w, h := f.Size()
		res := StepResult{
			Step:      i + 1,
			Width:     w,
			Height:    h,
			Frames:    frames,
			Particles: len(f.Particles()),
			Mounted:   f.Mounted(),
		}
		results = append(results, res)
		log.Info("scenario step",
			"scenario", sc.Name, "step", res.Step,
			"width", w, "height", h, "frames", frames, "particles", res.Particles)
	}
	return results, nil
}
