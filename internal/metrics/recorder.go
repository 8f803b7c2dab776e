package metrics

import "github.com/san-kum/nodefield/internal/field"

// Recorder keeps the most recent frames, dropping the oldest past capacity.
// A capacity of zero keeps everything.
type Recorder struct {
	capacity int
	frames   []field.FrameStats
}

func NewRecorder(capacity int) *Recorder {
	return &Recorder{capacity: capacity}
}

func (r *Recorder) ObserveFrame(s field.FrameStats) {
	r.frames = append(r.frames, s)
	if r.capacity > 0 && len(r.frames) > r.capacity {
		r.frames = r.frames[len(r.frames)-r.capacity:]
	}
}

// Frames returns the recorded frames, oldest first.
func (r *Recorder) Frames() []field.FrameStats { return r.frames }

// Series extracts one value per recorded frame.
func (r *Recorder) Series(fn func(field.FrameStats) float64) []float64 {
	out := make([]float64, len(r.frames))
	for i, f := range r.frames {
		out[i] = fn(f)
	}
	return out
}

// Links is the per-frame link count series.
func Links(s field.FrameStats) float64 { return float64(s.Links) }

// Pulse is the per-frame mean pulse series.
func Pulse(s field.FrameStats) float64 { return s.MeanPulse }

func (r *Recorder) Reset() { r.frames = nil }
