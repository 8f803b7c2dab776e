package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/nodefield/internal/field"
)

const (
	glowBands    = 8
	lineSegments = 6
)

func toColor(c field.Color) rl.Color {
	a := c.A
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	return rl.NewColor(c.R, c.G, c.B, uint8(a*255+0.5))
}

// WindowSurface draws a field into an off-screen render texture the size of
// the window. Draw calls are only valid between BeginTextureMode and
// EndTextureMode on Target.
type WindowSurface struct {
	Target     rl.RenderTexture2D
	Background rl.Color
	loaded     bool
	width      int32
	height     int32
}

func NewWindowSurface(bg field.Color) *WindowSurface {
	return &WindowSurface{Background: toColor(bg)}
}

func (s *WindowSurface) SetSize(width, height float64) {
	w, h := int32(width), int32(height)
	if w == s.width && h == s.height && s.loaded {
		return
	}
	s.Unload()
	s.width, s.height = w, h
	if w <= 0 || h <= 0 {
		return
	}
	s.Target = rl.LoadRenderTexture(w, h)
	s.loaded = true
}

func (s *WindowSurface) Unload() {
	if s.loaded {
		rl.UnloadRenderTexture(s.Target)
		s.loaded = false
	}
}

func (s *WindowSurface) Clear() {
	rl.ClearBackground(s.Background)
}

// FillRadial approximates the gradient with solid rings, each colored at its
// mid radius.
func (s *WindowSurface) FillRadial(x, y, radius, gradientRadius float64, stops []field.ColorStop) {
	if radius <= 0 || gradientRadius <= 0 {
		return
	}
	center := rl.NewVector2(float32(x), float32(y))
	step := radius / glowBands
	for i := 0; i < glowBands; i++ {
		inner, outer := float64(i)*step, float64(i+1)*step
		c := field.ColorAt(stops, (inner+outer)/2/gradientRadius)
		if c.A <= 0 {
			continue
		}
		rl.DrawRing(center, float32(inner), float32(outer), 0, 360, 24, toColor(c))
	}
}

func (s *WindowSurface) FillCircle(x, y, radius float64, c field.Color) {
	if radius <= 0 || c.A <= 0 {
		return
	}
	rl.DrawCircleV(rl.NewVector2(float32(x), float32(y)), float32(radius), toColor(c))
}

// StrokeLine splits the line into short segments colored along the gradient.
func (s *WindowSurface) StrokeLine(x0, y0, x1, y1, width float64, stops []field.ColorStop) {
	dx, dy := x1-x0, y1-y0
	for i := 0; i < lineSegments; i++ {
		t0 := float64(i) / lineSegments
		t1 := float64(i+1) / lineSegments
		c := field.ColorAt(stops, (t0+t1)/2)
		rl.DrawLineEx(
			rl.NewVector2(float32(x0+dx*t0), float32(y0+dy*t0)),
			rl.NewVector2(float32(x0+dx*t1), float32(y0+dy*t1)),
			float32(width), toColor(c))
	}
}

// Blit copies the render texture to the screen. Render textures are stored
// upside down, hence the negative source height.
func (s *WindowSurface) Blit() {
	if !s.loaded {
		return
	}
	src := rl.NewRectangle(0, 0, float32(s.width), -float32(s.height))
	rl.DrawTextureRec(s.Target.Texture, src, rl.NewVector2(0, 0), rl.White)
}
