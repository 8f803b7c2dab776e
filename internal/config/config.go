package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/nodefield/internal/field"
)

const (
	DefaultFPS       = 60
	DefaultCellPx    = 8.0
	DefaultTheme     = "neon"
	DefaultWidth     = 1280
	DefaultHeight    = 720
	DefaultTicks     = 120
	DefaultFormat    = "png"
	DefaultDataDir   = ".nodefield"
	DefaultPrimary   = "#00ff9d"
	DefaultSecondary = "#00b8ff"
)

type Config struct {
	Preset   string         `yaml:"preset,omitempty"`
	Seed     uint64         `yaml:"seed"`
	DataDir  string         `yaml:"data_dir"`
	Field    FieldConfig    `yaml:"field"`
	View     ViewConfig     `yaml:"view"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

type FieldConfig struct {
	MaxParticles    int     `yaml:"max_particles"`
	AreaPerParticle float64 `yaml:"area_per_particle"`
	MaxSpeed        float64 `yaml:"max_speed"`
	RadiusMin       float64 `yaml:"radius_min"`
	RadiusSpan      float64 `yaml:"radius_span"`
	PulseSpeedMin   float64 `yaml:"pulse_speed_min"`
	PulseSpeedSpan  float64 `yaml:"pulse_speed_span"`
	LinkDistance    float64 `yaml:"link_distance"`
	LinkOpacity     float64 `yaml:"link_opacity"`
	DotPeriodMs     int     `yaml:"dot_period_ms"`
	Primary         string  `yaml:"primary"`
	Secondary       string  `yaml:"secondary"`
}

type ViewConfig struct {
	FPS    int     `yaml:"fps"`
	CellPx float64 `yaml:"cell_px"` // field units per braille dot
	Theme  string  `yaml:"theme"`
}

type SnapshotConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Ticks  int    `yaml:"ticks"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	p := field.DefaultParams()
	return &Config{
		DataDir: DefaultDataDir,
		Field: FieldConfig{
			MaxParticles:    p.MaxParticles,
			AreaPerParticle: p.AreaPerParticle,
			MaxSpeed:        p.MaxSpeed,
			RadiusMin:       p.RadiusMin,
			RadiusSpan:      p.RadiusSpan,
			PulseSpeedMin:   p.PulseSpeedMin,
			PulseSpeedSpan:  p.PulseSpeedSpan,
			LinkDistance:    p.LinkDistance,
			LinkOpacity:     p.LinkOpacity,
			DotPeriodMs:     int(p.DotPeriod / time.Millisecond),
			Primary:         DefaultPrimary,
			Secondary:       DefaultSecondary,
		},
		View: ViewConfig{
			FPS:    DefaultFPS,
			CellPx: DefaultCellPx,
			Theme:  DefaultTheme,
		},
		Snapshot: SnapshotConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Ticks:  DefaultTicks,
			Format: DefaultFormat,
		},
	}
}

// Load reads a YAML file over the defaults. A preset named in the file is
// applied first, so explicit keys in the file still win.
func Load(path string) (*Config, error) {
	return LoadOver(path, nil)
}

// LoadOver reads a YAML file over base. With a nil base it starts from the
// preset the file names, or the defaults. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	var cfg *Config
	switch {
	case base != nil:
		c := *base
		cfg = &c
	case head.Preset != "":
		cfg = GetPreset(head.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, head.Preset)
		}
	default:
		cfg = DefaultConfig()
	}

	preset := cfg.Preset
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	if base != nil {
		cfg.Preset = preset
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the field section into validated field parameters.
func (c *Config) Params() (field.Params, error) {
	p := field.DefaultParams()
	f := c.Field

	p.MaxParticles = f.MaxParticles
	p.AreaPerParticle = f.AreaPerParticle
	p.MaxSpeed = f.MaxSpeed
	p.RadiusMin = f.RadiusMin
	p.RadiusSpan = f.RadiusSpan
	p.PulseSpeedMin = f.PulseSpeedMin
	p.PulseSpeedSpan = f.PulseSpeedSpan
	p.LinkDistance = f.LinkDistance
	p.LinkOpacity = f.LinkOpacity
	p.DotPeriod = time.Duration(f.DotPeriodMs) * time.Millisecond

	var err error
	if p.Palette.Primary, err = ParseColor(f.Primary); err != nil {
		return field.Params{}, err
	}
	if p.Palette.Secondary, err = ParseColor(f.Secondary); err != nil {
		return field.Params{}, err
	}
	if err := p.Validate(); err != nil {
		return field.Params{}, err
	}
	return p, nil
}

// ParseColor accepts #rgb and #rrggbb hex colors.
func ParseColor(s string) (field.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return field.Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	r, g, b := c.Clamped().RGB255()
	return field.RGB(r, g, b), nil
}

// FramePeriod is the wall-clock interval between frames at the configured rate.
func (c *Config) FramePeriod() time.Duration {
	fps := c.View.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Duration(math.Round(float64(time.Second) / float64(fps)))
}
