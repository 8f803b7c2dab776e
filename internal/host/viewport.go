package host

// Viewport is a container whose size can change. It fires resize listeners
// synchronously from Set.
type Viewport struct {
	width, height float64
	nextID        int
	listeners     map[int]func()
	order         []int
}

// NewViewport returns a viewport of the given size with no listeners.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{
		width:     width,
		height:    height,
		listeners: make(map[int]func()),
	}
}

// Size returns the current dimensions.
func (v *Viewport) Size() (float64, float64) {
	return v.width, v.height
}

// OnResize registers fn and returns a function that removes it. Calling the
// returned function more than once has no further effect.
func (v *Viewport) OnResize(fn func()) func() {
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	v.order = append(v.order, id)
	return func() {
		if _, ok := v.listeners[id]; !ok {
			return
		}
		delete(v.listeners, id)
		for i, o := range v.order {
			if o == id {
				v.order = append(v.order[:i], v.order[i+1:]...)
				break
			}
		}
	}
}

// Set changes the size and notifies listeners in registration order. Setting
// the current size again is a no-op.
func (v *Viewport) Set(width, height float64) {
	if width == v.width && height == v.height {
		return
	}
	v.width, v.height = width, height
	for _, id := range append([]int(nil), v.order...) {
		if fn, ok := v.listeners[id]; ok {
			fn()
		}
	}
}

// Listeners is the number of registered resize listeners.
func (v *Viewport) Listeners() int {
	return len(v.listeners)
}
