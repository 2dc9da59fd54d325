// Package scrollsync keeps the scroll offsets of related panes aligned.
//
// Panes register with a Controller under an axis. When one pane reports a
// scroll, the controller copies its offset to the other panes of that
// axis. Writes it makes itself are recognised when they echo back, so a
// gesture never turns into a feedback loop.
package scrollsync

import (
	"math"
	"sync"
)

type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return "unknown"
}

// DefaultEpsilon is the smallest offset difference worth mirroring.
const DefaultEpsilon = 1.0

// Region is a scrollable pane.
//
// OnScroll registers fn to be called after the region's offset on any axis
// changes, including changes made through SetScrollOffset. The returned
// func detaches fn.
type Region interface {
	ScrollOffset(axis Axis) float64
	SetScrollOffset(axis Axis, offset float64)
	OnScroll(fn func(axis Axis)) (cancel func())
}

type Option func(*Controller)

// WithEpsilon overrides DefaultEpsilon.
func WithEpsilon(eps float64) Option {
	return func(c *Controller) {
		if eps >= 0 {
			c.epsilon = eps
		}
	}
}

// Controller owns the listeners it attaches. It is safe for use from
// multiple goroutines, though the TUI drives it from a single one.
type Controller struct {
	mu      sync.Mutex
	epsilon float64
	groups  map[Axis][]Region
	cancels []func()
	syncing map[Axis]bool
	writes  int
	closed  bool
}

func New(opts ...Option) *Controller {
	c := &Controller{
		epsilon: DefaultEpsilon,
		groups:  map[Axis][]Region{},
		syncing: map[Axis]bool{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Add registers regions in the axis group. A region may be added to both
// axes; it is subscribed once per Add call and ignores events for axes it
// was not added under.
func (c *Controller) Add(axis Axis, regions ...Region) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.groups[axis] = append(c.groups[axis], regions...)
	c.mu.Unlock()

	for _, r := range regions {
		r := r
		cancel := r.OnScroll(func(a Axis) {
			if a != axis {
				return
			}
			c.sync(axis, r)
		})
		c.mu.Lock()
		c.cancels = append(c.cancels, cancel)
		c.mu.Unlock()
	}
}

func (c *Controller) sync(axis Axis, src Region) {
	c.mu.Lock()
	if c.closed || c.syncing[axis] {
		c.mu.Unlock()
		return
	}
	c.syncing[axis] = true
	members := append([]Region(nil), c.groups[axis]...)
	eps := c.epsilon
	c.mu.Unlock()

	offset := src.ScrollOffset(axis)
	n := 0
	for _, r := range members {
		if r == src {
			continue
		}
		if math.Abs(r.ScrollOffset(axis)-offset) < eps {
			continue
		}
		r.SetScrollOffset(axis, offset)
		n++
	}

	c.mu.Lock()
	c.writes += n
	c.syncing[axis] = false
	c.mu.Unlock()
}

// Sync mirrors src's current offset on axis as if src had scrolled.
func (c *Controller) Sync(axis Axis, src Region) {
	c.sync(axis, src)
}

// Writes reports how many mirroring writes the controller has made.
func (c *Controller) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

// Close detaches every listener. Later scroll events are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	cancels := c.cancels
	c.cancels = nil
	c.groups = map[Axis][]Region{}
	c.mu.Unlock()

	for _, cancel := range cancels {
		if cancel != nil {
			cancel()
		}
	}
}
