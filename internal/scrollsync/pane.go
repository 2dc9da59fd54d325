package scrollsync

import "sync"

// Pane is an in-memory Region. Offsets are clamped to [0, max] per axis;
// a negative max leaves the axis unbounded.
type Pane struct {
	Name string

	mu        sync.Mutex
	offset    [2]float64
	max       [2]float64
	listeners map[int]func(Axis)
	nextID    int
}

func NewPane(name string) *Pane {
	return &Pane{Name: name, max: [2]float64{-1, -1}, listeners: map[int]func(Axis){}}
}

// SetMax bounds the offset on axis and re-clamps the current offset.
func (p *Pane) SetMax(axis Axis, limit float64) {
	p.mu.Lock()
	p.max[axis] = limit
	p.mu.Unlock()
	p.SetScrollOffset(axis, p.ScrollOffset(axis))
}

func (p *Pane) ScrollOffset(axis Axis) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.offset[axis]
}

func (p *Pane) SetScrollOffset(axis Axis, offset float64) {
	p.mu.Lock()
	if offset < 0 {
		offset = 0
	}
	if m := p.max[axis]; m >= 0 && offset > m {
		offset = m
	}
	if p.offset[axis] == offset {
		p.mu.Unlock()
		return
	}
	p.offset[axis] = offset
	fns := make([]func(Axis), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(axis)
	}
}

// ScrollBy moves the pane by delta on axis.
func (p *Pane) ScrollBy(axis Axis, delta float64) {
	p.SetScrollOffset(axis, p.ScrollOffset(axis)+delta)
}

func (p *Pane) OnScroll(fn func(Axis)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// Listeners reports how many callbacks are attached.
func (p *Pane) Listeners() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners)
}
