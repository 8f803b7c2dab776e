package viz

import (
	"math"

	"github.com/san-kum/nodefield/internal/field"
)

const (
	DefaultNodeAlpha = 0.2
	DefaultLinkAlpha = 0.09
)

// BrailleSurface draws a field onto a braille Canvas. Every dot covers
// scale×scale field units; anything fainter than the alpha thresholds is
// dropped since a dot is either on or off.
type BrailleSurface struct {
	Canvas    *Canvas
	scale     float64
	NodeAlpha float64
	LinkAlpha float64
}

func NewBrailleSurface(scale float64) *BrailleSurface {
	if scale <= 0 {
		scale = 1
	}
	return &BrailleSurface{
		Canvas:    NewCanvas(0, 0),
		scale:     scale,
		NodeAlpha: DefaultNodeAlpha,
		LinkAlpha: DefaultLinkAlpha,
	}
}

// Scale is the number of field units per dot.
func (s *BrailleSurface) Scale() float64 { return s.scale }

func (s *BrailleSurface) SetSize(width, height float64) {
	cols := int(math.Ceil(width / s.scale / 2))
	rows := int(math.Ceil(height / s.scale / 4))
	s.Canvas.Resize(cols, rows)
}

func (s *BrailleSurface) Clear() { s.Canvas.Clear() }

func (s *BrailleSurface) FillRadial(x, y, radius, gradientRadius float64, stops []field.ColorStop) {
	if len(stops) == 0 || stops[0].Color.A < s.NodeAlpha {
		return
	}
	s.Canvas.FillDisc(s.dot(x), s.dot(y), int(radius/s.scale))
}

func (s *BrailleSurface) FillCircle(x, y, radius float64, c field.Color) {
	if c.A < s.NodeAlpha {
		return
	}
	s.Canvas.FillDisc(s.dot(x), s.dot(y), int(radius/s.scale))
}

func (s *BrailleSurface) StrokeLine(x0, y0, x1, y1, width float64, stops []field.ColorStop) {
	peak := 0.0
	for _, st := range stops {
		peak = math.Max(peak, st.Color.A)
	}
	if peak < s.LinkAlpha {
		return
	}
	s.Canvas.DrawLine(s.dot(x0), s.dot(y0), s.dot(x1), s.dot(y1))
}

func (s *BrailleSurface) dot(v float64) int {
	return int(math.Floor(v / s.scale))
}
