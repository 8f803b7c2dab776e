// Package export renders frames of a particle field to files.
package export

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/san-kum/nodefield/internal/field"
)

var ErrUnknownFormat = errors.New("export: unknown format")

// Target is a surface whose current frame can be written out.
type Target interface {
	field.Surface
	Write(w io.Writer) error
}

type Factory func(width, height int, background string) Target

type Registry struct {
	formats map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{formats: make(map[string]Factory)}
	r.formats["png"] = func(w, h int, bg string) Target { return pngTarget{NewRaster(w, h, bg)} }
	r.formats["svg"] = func(w, h int, bg string) Target { return svgTarget{NewSVG(float64(w), float64(h), bg)} }
	return r
}

func (r *Registry) Get(format string) (Factory, error) {
	f, ok := r.formats[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownFormat, format, r.Names())
	}
	return f, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type pngTarget struct{ *Raster }

func (t pngTarget) Write(w io.Writer) error { return t.WritePNG(w) }

type svgTarget struct{ *SVG }

func (t svgTarget) Write(w io.Writer) error {
	_, err := t.WriteTo(w)
	return err
}
