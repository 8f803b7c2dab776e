package metrics

import "github.com/san-kum/nodefield/internal/field"

// PulseLevel averages the mean particle pulse over frames with particles.
type PulseLevel struct {
	name    string
	sum     float64
	samples int
}

func NewPulseLevel() *PulseLevel {
	return &PulseLevel{name: "pulse"}
}

func (p *PulseLevel) Name() string { return p.name }

func (p *PulseLevel) ObserveFrame(s field.FrameStats) {
	if s.Particles == 0 {
		return
	}
	p.sum += s.MeanPulse
	p.samples++
}

func (p *PulseLevel) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.sum / float64(p.samples)
}

func (p *PulseLevel) Reset() {
	p.sum = 0
	p.samples = 0
}
