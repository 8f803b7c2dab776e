package export

import (
	"image"
	"image/png"
	"io"
	"math"

	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"

	"github.com/san-kum/nodefield/internal/field"
)

// Raster draws onto an in-memory RGBA image through an HTML5-style canvas.
type Raster struct {
	backend    *softwarebackend.SoftwareBackend
	cv         *canvas.Canvas
	background string
}

// NewRaster allocates a width×height image. A non-empty background is painted
// on every Clear instead of leaving the image transparent.
func NewRaster(width, height int, background string) *Raster {
	r := &Raster{background: background}
	r.alloc(width, height)
	return r
}

func (r *Raster) alloc(width, height int) {
	r.backend = softwarebackend.New(max(width, 1), max(height, 1))
	r.cv = canvas.New(r.backend)
}

func (r *Raster) SetSize(width, height float64) {
	w, h := int(math.Ceil(width)), int(math.Ceil(height))
	if w == r.cv.Width() && h == r.cv.Height() {
		return
	}
	r.alloc(w, h)
}

func (r *Raster) Clear() {
	w, h := float64(r.cv.Width()), float64(r.cv.Height())
	r.cv.ClearRect(0, 0, w, h)
	if r.background != "" {
		r.cv.SetFillStyle(r.background)
		r.cv.FillRect(0, 0, w, h)
	}
}

func (r *Raster) FillRadial(x, y, radius, gradientRadius float64, stops []field.ColorStop) {
	if radius <= 0 || gradientRadius <= 0 {
		return
	}
	g := r.cv.CreateRadialGradient(x, y, 0, x, y, gradientRadius)
	for _, st := range stops {
		g.AddColorStop(st.Offset, st.Color.CSS())
	}
	r.cv.SetFillStyle(g)
	r.cv.BeginPath()
	r.cv.Arc(x, y, radius, 0, 2*math.Pi, false)
	r.cv.Fill()
}

func (r *Raster) FillCircle(x, y, radius float64, c field.Color) {
	if radius <= 0 {
		return
	}
	r.cv.SetFillStyle(c.CSS())
	r.cv.BeginPath()
	r.cv.Arc(x, y, radius, 0, 2*math.Pi, false)
	r.cv.Fill()
}

func (r *Raster) StrokeLine(x0, y0, x1, y1, width float64, stops []field.ColorStop) {
	g := r.cv.CreateLinearGradient(x0, y0, x1, y1)
	for _, st := range stops {
		g.AddColorStop(st.Offset, st.Color.CSS())
	}
	r.cv.SetStrokeStyle(g)
	r.cv.SetLineWidth(width)
	r.cv.BeginPath()
	r.cv.MoveTo(x0, y0)
	r.cv.LineTo(x1, y1)
	r.cv.Stroke()
}

// Image is the backing image; it is replaced when the size changes.
func (r *Raster) Image() *image.RGBA {
	return r.backend.Image
}

func (r *Raster) WritePNG(w io.Writer) error {
	return png.Encode(w, r.backend.Image)
}
