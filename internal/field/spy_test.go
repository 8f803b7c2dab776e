package field

// spySurface records drawing calls.
type spySurface struct {
	width, height float64
	resizes       int
	clears        int
	radials       int
	circles       []spyCircle
	lines         []spyLine
}

type spyCircle struct {
	X, Y, R float64
	Color   Color
}

type spyLine struct {
	X0, Y0, X1, Y1 float64
	Stops          []ColorStop
}

func (s *spySurface) SetSize(w, h float64) {
	s.width, s.height = w, h
	s.resizes++
}

func (s *spySurface) Clear() { s.clears++ }

func (s *spySurface) FillRadial(x, y, radius, gradientRadius float64, stops []ColorStop) {
	s.radials++
}

func (s *spySurface) FillCircle(x, y, radius float64, c Color) {
	s.circles = append(s.circles, spyCircle{x, y, radius, c})
}

func (s *spySurface) StrokeLine(x0, y0, x1, y1, width float64, stops []ColorStop) {
	s.lines = append(s.lines, spyLine{x0, y0, x1, y1, stops})
}

func (s *spySurface) draws() int {
	return s.clears + s.radials + len(s.circles) + len(s.lines)
}

func (s *spySurface) reset() {
	s.clears, s.radials = 0, 0
	s.circles, s.lines = nil, nil
}

type statsSink struct {
	frames []FrameStats
	onTick func()
}

func (s *statsSink) ObserveFrame(fs FrameStats) {
	s.frames = append(s.frames, fs)
	if s.onTick != nil {
		s.onTick()
	}
}

type nullSurface struct{}

func (nullSurface) SetSize(w, h float64)                                    {}
func (nullSurface) Clear()                                                  {}
func (nullSurface) FillRadial(x, y, r, gr float64, stops []ColorStop)       {}
func (nullSurface) FillCircle(x, y, r float64, c Color)                     {}
func (nullSurface) StrokeLine(x0, y0, x1, y1, w float64, stops []ColorStop) {}
