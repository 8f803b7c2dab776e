package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/nodefield/internal/field"
)

// SVG is a drawing surface that records primitives as SVG elements. Clear
// drops everything recorded so far, so the document always holds one frame.
type SVG struct {
	width, height float64
	background    string
	defs          strings.Builder
	body          strings.Builder
	gradients     int
}

// NewSVG returns an empty document. An empty background leaves it transparent.
func NewSVG(width, height float64, background string) *SVG {
	return &SVG{width: width, height: height, background: background}
}

func (s *SVG) SetSize(width, height float64) {
	s.width, s.height = width, height
	s.Clear()
}

func (s *SVG) Clear() {
	s.defs.Reset()
	s.body.Reset()
	s.gradients = 0
}

func (s *SVG) FillRadial(x, y, radius, gradientRadius float64, stops []field.ColorStop) {
	id := s.nextGradient()
	fmt.Fprintf(&s.defs, `<radialGradient id="%s" gradientUnits="userSpaceOnUse" cx="%.1f" cy="%.1f" r="%.1f">`,
		id, x, y, gradientRadius)
	writeStops(&s.defs, stops)
	s.defs.WriteString("</radialGradient>\n")
	fmt.Fprintf(&s.body, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="url(#%s)"/>`+"\n", x, y, radius, id)
}

func (s *SVG) FillCircle(x, y, radius float64, c field.Color) {
	if radius <= 0 {
		return
	}
	fmt.Fprintf(&s.body, `<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s" fill-opacity="%.3f"/>`+"\n",
		x, y, radius, hex(c), c.A)
}

func (s *SVG) StrokeLine(x0, y0, x1, y1, width float64, stops []field.ColorStop) {
	id := s.nextGradient()
	fmt.Fprintf(&s.defs, `<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f">`,
		id, x0, y0, x1, y1)
	writeStops(&s.defs, stops)
	s.defs.WriteString("</linearGradient>\n")
	fmt.Fprintf(&s.body, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="url(#%s)" stroke-width="%.1f"/>`+"\n",
		x0, y0, x1, y1, id, width)
}

// Document renders the recorded frame as a standalone SVG file.
func (s *SVG) Document() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, s.width, s.height, s.width, s.height))
	if s.defs.Len() > 0 {
		sb.WriteString("<defs>\n")
		sb.WriteString(s.defs.String())
		sb.WriteString("</defs>\n")
	}
	if s.background != "" {
		sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>`+"\n", s.background))
	}
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.Document())
	return int64(n), err
}

func (s *SVG) nextGradient() string {
	s.gradients++
	return fmt.Sprintf("g%d", s.gradients)
}

func writeStops(sb *strings.Builder, stops []field.ColorStop) {
	for _, st := range stops {
		fmt.Fprintf(sb, `<stop offset="%.2f" stop-color="%s" stop-opacity="%.3f"/>`,
			st.Offset, hex(st.Color), st.Color.A)
	}
}

func hex(c field.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
