package metrics

import "github.com/san-kum/nodefield/internal/field"

// LinkDensity is the mean number of links drawn per frame.
type LinkDensity struct {
	name    string
	total   int
	samples int
}

func NewLinkDensity() *LinkDensity {
	return &LinkDensity{name: "links_per_frame"}
}

func (l *LinkDensity) Name() string { return l.name }

func (l *LinkDensity) ObserveFrame(s field.FrameStats) {
	l.total += s.Links
	l.samples++
}

func (l *LinkDensity) Value() float64 {
	if l.samples == 0 {
		return 0
	}
	return float64(l.total) / float64(l.samples)
}

func (l *LinkDensity) Reset() {
	l.total = 0
	l.samples = 0
}

// LinkOpacity is the mean opacity over every link drawn, weighting each link
// equally regardless of which frame it was in.
type LinkOpacity struct {
	name  string
	sum   float64
	links int
}

func NewLinkOpacity() *LinkOpacity {
	return &LinkOpacity{name: "link_opacity"}
}

func (l *LinkOpacity) Name() string { return l.name }

func (l *LinkOpacity) ObserveFrame(s field.FrameStats) {
	l.sum += s.MeanLinkOpacity * float64(s.Links)
	l.links += s.Links
}

func (l *LinkOpacity) Value() float64 {
	if l.links == 0 {
		return 0
	}
	return l.sum / float64(l.links)
}

func (l *LinkOpacity) Reset() {
	l.sum = 0
	l.links = 0
}
