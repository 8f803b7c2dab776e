// Package sweep runs a particle field headless across a grid of parameter
// values and scores each point by one of its frame metrics.
package sweep

import (
	"errors"
	"fmt"

	"github.com/san-kum/nodefield/internal/field"
)

var ErrUnknownParam = errors.New("sweep: unknown parameter")

// Param names accepted by Apply.
const (
	LinkDistance    = "link_distance"
	LinkOpacity     = "link_opacity"
	AreaPerParticle = "area_per_particle"
	MaxParticles    = "max_particles"
	MaxSpeed        = "max_speed"
)

type Axis struct {
	Name   string
	Values []float64
}

// Point is one combination of axis values.
type Point map[string]float64

type Grid struct {
	axes []Axis
}

func NewGrid(axes ...Axis) *Grid {
	return &Grid{axes: axes}
}

// Points enumerates every combination, the last axis varying fastest.
func (g *Grid) Points() []Point {
	var out []Point
	g.collect(0, Point{}, &out)
	return out
}

func (g *Grid) collect(depth int, current Point, out *[]Point) {
	if depth == len(g.axes) {
		*out = append(*out, current)
		return
	}
	axis := g.axes[depth]
	for _, v := range axis.Values {
		next := make(Point, len(current)+1)
		for k, cv := range current {
			next[k] = cv
		}
		next[axis.Name] = v
		g.collect(depth+1, next, out)
	}
}

// Apply returns p with the point's values set and validated.
func Apply(p field.Params, pt Point) (field.Params, error) {
	for name, v := range pt {
		switch name {
		case LinkDistance:
			p.LinkDistance = v
		case LinkOpacity:
			p.LinkOpacity = v
		case AreaPerParticle:
			p.AreaPerParticle = v
		case MaxParticles:
			p.MaxParticles = int(v)
		case MaxSpeed:
			p.MaxSpeed = v
		default:
			return field.Params{}, fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
	}
	if err := p.Validate(); err != nil {
		return field.Params{}, err
	}
	return p, nil
}
