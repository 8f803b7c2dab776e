package config

import "sort"

// Presets are named looks for the background, each a full config built from
// the defaults.
var Presets = map[string]func(*Config){
	"landing": func(c *Config) {},
	"dense": func(c *Config) {
		c.Field.AreaPerParticle = 5000
		c.Field.LinkDistance = 220
	},
	"calm": func(c *Config) {
		c.Field.MaxSpeed = 0.1
		c.Field.PulseSpeedMin = 0.005
		c.Field.PulseSpeedSpan = 0.01
		c.Field.DotPeriodMs = 4000
	},
	"sparse": func(c *Config) {
		c.Field.MaxParticles = 30
		c.Field.AreaPerParticle = 25000
		c.Field.LinkDistance = 400
		c.Field.LinkOpacity = 0.45
	},
	"mono": func(c *Config) {
		c.Field.Primary = "#e0e0e0"
		c.Field.Secondary = "#808080"
		c.View.Theme = "minimal"
	},
}

// GetPreset returns a fresh config for name, or nil when there is none.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Preset = name
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
