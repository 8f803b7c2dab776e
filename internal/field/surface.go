package field

import "time"

// ColorStop is one stop of a radial or linear gradient. Offset is in [0, 1].
type ColorStop struct {
	Offset float64
	Color  Color
}

// ColorAt samples a gradient at t, interpolating between neighbouring stops.
// Stops must be sorted by offset.
func ColorAt(stops []ColorStop, t float64) Color {
	if len(stops) == 0 {
		return Color{}
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			a, b := stops[i-1], stops[i]
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			return a.Color.Lerp(b.Color, (t-a.Offset)/span)
		}
	}
	return stops[len(stops)-1].Color
}

// Surface is a 2D pixel-addressable drawing target with HTML-canvas-like
// primitives. Implementations need not be safe for concurrent use.
type Surface interface {
	// SetSize resizes the backing store. Contents are undefined afterwards.
	SetSize(width, height float64)
	// Clear erases the whole surface.
	Clear()
	// FillRadial fills the disc of the given radius centred on (x, y) with a
	// radial gradient running from the centre to gradientRadius.
	FillRadial(x, y, radius, gradientRadius float64, stops []ColorStop)
	// FillCircle fills a disc with a flat color.
	FillCircle(x, y, radius float64, c Color)
	// StrokeLine strokes a segment with a linear gradient along it.
	StrokeLine(x0, y0, x1, y1, width float64, stops []ColorStop)
}

// SurfaceFunc returns the host's drawing surface, or an error when the
// attachment point does not have one yet.
type SurfaceFunc func() (Surface, error)

// Scheduler is the host's "run before the next display refresh" primitive.
type Scheduler interface {
	RequestFrame(fn func(now time.Time)) uint64
	CancelFrame(id uint64)
}

// Viewport reports the container size and signals when it changes.
type Viewport interface {
	Size() (width, height float64)
	OnResize(fn func()) (unsubscribe func())
}

// MountPoint is everything a host hands the field on Mount.
type MountPoint struct {
	Surface   SurfaceFunc
	Scheduler Scheduler
	Viewport  Viewport
}

// StaticSurface wraps an always-available surface.
func StaticSurface(s Surface) SurfaceFunc {
	return func() (Surface, error) {
		if s == nil {
			return nil, ErrNoSurface
		}
		return s, nil
	}
}
